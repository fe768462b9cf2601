package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Environment variables carrying the OAuth client credentials. They are kept
// out of the config file so the file can be shared or committed safely.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
)

// Calendar identifies one calendar to fetch and the color used to render
// its events. Static configuration, not mutated at runtime.
type Calendar struct {
	ID    string `mapstructure:"id"`
	Color string `mapstructure:"color"`
}

type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"`
	GridRows int    `mapstructure:"grid_rows"`
}

type AuthConfig struct {
	RedirectPort int `mapstructure:"redirect_port"`
}

type PollConfig struct {
	CheckIntervalSeconds int `mapstructure:"check_interval_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	Display   DisplayConfig `mapstructure:"display"`
	Auth      AuthConfig    `mapstructure:"auth"`
	Poll      PollConfig    `mapstructure:"poll"`
	Calendars []Calendar    `mapstructure:"calendars"`

	// ClientID and ClientSecret come from the environment, never from the
	// config file.
	ClientID     string `mapstructure:"-"`
	ClientSecret string `mapstructure:"-"`
}

var defaultConfig = Config{
	Display: DisplayConfig{
		Timezone: "Asia/Tokyo",
		GridRows: 48,
	},
	Auth: AuthConfig{
		RedirectPort: 8080,
	},
	Poll: PollConfig{
		CheckIntervalSeconds: 60,
	},
	Calendars: []Calendar{
		{ID: "primary", Color: "red"},
	},
}

// CheckInterval returns the poll check interval as a duration.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Poll.CheckIntervalSeconds) * time.Second
}

// Location resolves the configured display timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

// Load reads the TOML config file from configPath (or the default config
// directory when empty), creating a default config file on first run, and
// fills the OAuth client credentials from the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigName("config")

	if configPath == "" {
		configDir, err := defaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configPath = configDir
	}

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if err := createDefaultConfig(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			// Re-read; fall back to built-in defaults if it still fails.
			if err := v.ReadInConfig(); err != nil {
				cfg := defaultConfig
				if err := cfg.loadCredentials(); err != nil {
					return nil, err
				}
				return &cfg, nil
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.loadCredentials(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadCredentials pulls the OAuth client credentials from the environment.
// Missing credentials are fatal at startup; nothing works without them.
func (c *Config) loadCredentials() error {
	c.ClientID = os.Getenv(EnvClientID)
	c.ClientSecret = os.Getenv(EnvClientSecret)
	if c.ClientID == "" {
		return fmt.Errorf("%s is not set; create a .env file or export it", EnvClientID)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%s is not set; create a .env file or export it", EnvClientSecret)
	}
	return nil
}

// normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) normalize() {
	if c.Display.Timezone == "" {
		c.Display.Timezone = defaultConfig.Display.Timezone
	}
	if c.Display.GridRows <= 0 {
		c.Display.GridRows = defaultConfig.Display.GridRows
	}
	if c.Auth.RedirectPort <= 0 {
		c.Auth.RedirectPort = defaultConfig.Auth.RedirectPort
	}
	if c.Poll.CheckIntervalSeconds <= 0 {
		c.Poll.CheckIntervalSeconds = defaultConfig.Poll.CheckIntervalSeconds
	}
	if len(c.Calendars) == 0 {
		c.Calendars = defaultConfig.Calendars
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("display.timezone", defaultConfig.Display.Timezone)
	v.SetDefault("display.grid_rows", defaultConfig.Display.GridRows)
	v.SetDefault("auth.redirect_port", defaultConfig.Auth.RedirectPort)
	v.SetDefault("poll.check_interval_seconds", defaultConfig.Poll.CheckIntervalSeconds)
}

func createDefaultConfig(configPath string) error {
	if err := os.MkdirAll(configPath, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.toml")
	if _, err := os.Stat(configFile); err == nil {
		return nil // already exists
	}

	configContent := `# daygrid configuration

[display]
timezone  = "Asia/Tokyo"  # IANA timezone used for the day window and grid
grid_rows = 48            # rows per 24 hours; 48 means 30-minute rows

[auth]
redirect_port = 8080      # loopback port for the OAuth redirect

[poll]
check_interval_seconds = 60

# One [[calendars]] block per calendar. Use 'daygrid calendars' to list
# the IDs your account can access.
[[calendars]]
id    = "primary"
color = "red"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func defaultConfigDir() (string, error) {
	cfgHome, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(cfgHome, "daygrid"), nil
}

// DefaultConfigDir returns the directory the config file is read from by
// default.
func DefaultConfigDir() (string, error) {
	return defaultConfigDir()
}
