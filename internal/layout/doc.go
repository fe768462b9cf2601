// Package layout projects calendar events onto a fixed-size day grid.
//
// The projection is a pure function of the event, the display timezone, and
// the grid size. It owns the midnight-wrap rule (an event ending at the next
// midnight spans to the bottom of the grid) and the one-row minimum height.
package layout
