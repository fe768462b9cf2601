package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/internal/calendar"
)

func newCalendarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List calendars accessible to your account",
		Long: `List all calendars your Google account can access, including the IDs to
use in the [[calendars]] blocks of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
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

			infos, err := calendar.NewClient(mgr).Calendars(ctx)
			if err != nil {
				return err
			}

			for _, info := range infos {
				fmt.Printf("%s\n", info.Summary)
				fmt.Printf("  ID: %s\n", info.ID)
				fmt.Printf("  Access Role: %s\n", info.AccessRole)
				if info.Primary {
					fmt.Printf("  Primary: Yes\n")
				}
				fmt.Println()
			}
			fmt.Printf("Total calendars: %d\n", len(infos))
			return nil
		},
	}
}
