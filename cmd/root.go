package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/internal/calendar"
	"github.com/daygrid/daygrid/internal/config"
	"github.com/daygrid/daygrid/internal/google"
	"github.com/daygrid/daygrid/internal/logging"
)

// rootCmd represents the base command for the daygrid application
var rootCmd = &cobra.Command{
	Use:   "daygrid",
	Short: "Terminal day view for Google Calendar",
	Long: `daygrid shows today's Google Calendar events on a fixed time grid in
your terminal. It authenticates once through your browser, keeps the token
pair refreshed, and re-fetches automatically when the date rolls over.`,
	SilenceUsage: true,
}

var (
	cfgPath string
	verbose bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "daygrid version %s\n" .Version}}`)

	// If no subcommand is provided, run the view command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "view")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory (default: os config dir + /daygrid)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newCalendarsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadConfig initializes logging and loads the effective configuration,
// including the OAuth client credentials from the environment.
func loadConfig() (*config.Config, error) {
	logging.Init(verbose)
	return config.Load(cfgPath)
}

// newTokenManager wires the credential store, the interactive flow, and the
// token manager from the configuration.
func newTokenManager(cfg *config.Config) (*google.Manager, error) {
	store, err := google.NewDefaultStore()
	if err != nil {
		return nil, err
	}
	conf := google.NewOAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.Auth.RedirectPort)
	flow := google.NewFlow(conf, cfg.Auth.RedirectPort)
	return google.NewManager(conf, store, flow), nil
}

// descriptors converts the configured calendars to fetch descriptors.
func descriptors(cfg *config.Config) []calendar.Descriptor {
	out := make([]calendar.Descriptor, 0, len(cfg.Calendars))
	for _, c := range cfg.Calendars {
		out = append(out, calendar.Descriptor{ID: c.ID, Color: c.Color})
	}
	return out
}
