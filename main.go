package main

import (
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"

	"github.com/daygrid/daygrid/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	// Load a .env file if present so GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET
	// can be supplied without exporting them in the shell. A .env in the
	// working directory wins over the one in the user config directory.
	tryPaths := []string{".env"}
	if cfgHome, err := os.UserConfigDir(); err == nil {
		tryPaths = append(tryPaths, filepath.Join(cfgHome, "daygrid", ".env"))
	}
	for _, p := range tryPaths {
		if _, err := os.Stat(p); err == nil {
			if loadErr := gotenv.Load(p); loadErr == nil {
				break
			}
		}
	}

	cmd.SetVersion(version)
	cmd.Execute()
}
