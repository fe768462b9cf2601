// Package cmd implements the command-line interface for daygrid.
//
// This package provides the following commands:
//   - view: Show today's events on the time grid and keep it updated
//   - auth: Force a fresh interactive browser authorization
//   - calendars: List calendars accessible to the authenticated account
//   - version: Display version information
//
// The view command is the default command when no subcommand is specified.
package cmd
