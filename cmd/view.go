package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/internal/calendar"
	"github.com/daygrid/daygrid/internal/view"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show today's events on the time grid",
		Long: `Fetch today's events from the configured calendars and draw them on the
time grid. The view re-renders on half-hour boundaries and re-fetches when
the date changes. Quit with 'q' + Enter or Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			mgr, err := newTokenManager(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := mgr.Bootstrap(ctx); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			client := calendar.NewClient(mgr)
			app := view.New(client, descriptors(cfg), loc, cfg.Display.GridRows, cfg.CheckInterval(), os.Stdout)

			// Quit on 'q' without taking over the terminal; raw-mode input
			// handling is deliberately out of scope.
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					if scanner.Text() == "q" {
						cancel()
						return
					}
				}
			}()

			return app.Run(ctx)
		},
	}
}
