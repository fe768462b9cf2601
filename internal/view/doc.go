// Package view runs the interactive day-view loop.
//
// A single goroutine owns the loop: it polls for cancellation on a short
// interval and, once per configured check interval, re-renders on half-hour
// boundaries and re-fetches when the local calendar date rolls over. Fetch
// and layout failures degrade the view (fewer events shown) instead of
// ending the session.
package view
