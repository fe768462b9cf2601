// Package logging provides structured logging utilities for the daygrid
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
// Attribute keys are defined once here so fetch and layout diagnostics stay
// correlatable across packages.
//
// Tokens and authorization codes are never logged.
package logging
