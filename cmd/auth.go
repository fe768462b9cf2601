package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Run the interactive authorization flow",
		Long: `Force a fresh browser authorization and replace the stored token pair.

Use this when the refresh token has been revoked or when switching Google
accounts. The normal startup path runs this flow automatically on first use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := google.NewDefaultStore()
			if err != nil {
				return err
			}

			conf := google.NewOAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.Auth.RedirectPort)
			flow := google.NewFlow(conf, cfg.Auth.RedirectPort)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pair, err := flow.Run(ctx)
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}
			if err := store.Save(pair); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			fmt.Println("Authorization complete; credentials saved.")
			return nil
		},
	}
}
