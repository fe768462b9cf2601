package layout

import (
	"errors"
	"fmt"
	"time"

	"github.com/daygrid/daygrid/internal/calendar"
)

// ErrMissingTimestamp is returned for events without a start or end
// timestamp. All-day events are not supported by the projector and must be
// rejected rather than silently mis-rendered.
var ErrMissingTimestamp = errors.New("event is missing a timestamp")

// Span is one event projected onto the grid: a title, a starting row, a row
// count, and the calendar's display color. Derived deterministically from
// one event and the display zone; recomputed fresh on every render.
type Span struct {
	Title  string
	Row    int
	Height int
	Color  string
}

// Project converts an event's wall-clock range into a grid span. gridRows is
// the number of rows representing 24 hours; 48 rows give 30-minute rows, 24
// rows give hourly rows.
//
// An event ending exactly at the next midnight maps to an end row of 0;
// that is treated as the bottom of the grid so the event keeps its height
// instead of collapsing. Every event occupies at least one row.
func Project(ev calendar.Event, loc *time.Location, gridRows int) (Span, error) {
	if gridRows <= 0 {
		return Span{}, fmt.Errorf("invalid grid size %d", gridRows)
	}
	if ev.Start.IsZero() || ev.End.IsZero() {
		return Span{}, ErrMissingTimestamp
	}

	start := ev.Start.In(loc)
	end := ev.End.In(loc)

	startRow := Row(start, loc, gridRows)
	endRow := Row(end, loc, gridRows)
	if endRow == 0 {
		endRow = gridRows
	}

	height := endRow - startRow
	if height < 1 {
		height = 1
	}

	return Span{
		Title:  fmt.Sprintf("%s %s~%s", ev.Summary, start.Format("15:04"), end.Format("15:04")),
		Row:    startRow,
		Height: height,
		Color:  ev.Calendar.Color,
	}, nil
}

// Row maps a time of day to a row index, dividing gridRows evenly across 24
// hours. For a 48-row grid: 00:00 -> 0, 00:30 -> 1, 12:00 -> 24.
func Row(t time.Time, loc *time.Location, gridRows int) int {
	local := t.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	return minutes * gridRows / (24 * 60)
}
