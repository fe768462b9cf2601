package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daygrid/daygrid/internal/calendar"
)

var tokyo = mustLocation("Asia/Tokyo")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(hour, min int) time.Time {
	return time.Date(2023, 10, 1, hour, min, 0, 0, tokyo)
}

func TestRow(t *testing.T) {
	tests := []struct {
		name     string
		t        time.Time
		gridRows int
		want     int
	}{
		{"midnight", at(0, 0), 48, 0},
		{"half past midnight", at(0, 30), 48, 1},
		{"one o'clock", at(1, 0), 48, 2},
		{"noon", at(12, 0), 48, 24},
		{"evening", at(23, 0), 48, 46},
		{"last slot", at(23, 30), 48, 47},
		{"rounds down within a slot", at(9, 29), 48, 18},
		{"hourly grid noon", at(12, 0), 24, 12},
		{"hourly grid rounds down", at(12, 59), 24, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Row(tt.t, tokyo, tt.gridRows))
		})
	}
}

func TestRowConvertsZone(t *testing.T) {
	// 15:00 UTC is 00:00 the next day in Tokyo.
	utc := time.Date(2023, 10, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, Row(utc, tokyo, 48))
}

func TestProject(t *testing.T) {
	ev := calendar.Event{
		Calendar: calendar.Descriptor{ID: "primary", Color: "red"},
		Summary:  "standup",
		Start:    at(9, 0),
		End:      at(9, 30),
	}

	span, err := Project(ev, tokyo, 48)
	require.NoError(t, err)
	assert.Equal(t, 18, span.Row)
	assert.Equal(t, 1, span.Height)
	assert.Equal(t, "red", span.Color)
	assert.Equal(t, "standup 09:00~09:30", span.Title)
}

func TestProjectMidnightWrap(t *testing.T) {
	// Ends exactly at the next midnight: the end row computes to 0 and must
	// be treated as the bottom of the grid, not a zero-height span.
	ev := calendar.Event{
		Summary: "late",
		Start:   at(23, 0),
		End:     at(23, 0).Add(time.Hour),
	}

	span, err := Project(ev, tokyo, 48)
	require.NoError(t, err)
	assert.Equal(t, 46, span.Row)
	assert.Equal(t, 2, span.Height)
}

func TestProjectMinimumHeight(t *testing.T) {
	ev := calendar.Event{
		Summary: "instant",
		Start:   at(10, 0),
		End:     at(10, 0),
	}

	span, err := Project(ev, tokyo, 48)
	require.NoError(t, err)
	assert.Equal(t, 1, span.Height, "every event occupies at least one row")
}

func TestProjectShortEventStillOneRow(t *testing.T) {
	ev := calendar.Event{
		Summary: "brief",
		Start:   at(10, 0),
		End:     at(10, 10),
	}

	span, err := Project(ev, tokyo, 48)
	require.NoError(t, err)
	assert.Equal(t, 1, span.Height)
}

func TestProjectMissingTimestamp(t *testing.T) {
	_, err := Project(calendar.Event{Summary: "no start", End: at(10, 0)}, tokyo, 48)
	assert.ErrorIs(t, err, ErrMissingTimestamp)

	_, err = Project(calendar.Event{Summary: "no end", Start: at(10, 0)}, tokyo, 48)
	assert.ErrorIs(t, err, ErrMissingTimestamp)
}

func TestProjectHourlyGrid(t *testing.T) {
	// Grid size is configuration, not a separate code path.
	ev := calendar.Event{
		Summary: "lunch",
		Start:   at(12, 0),
		End:     at(13, 0),
	}

	span, err := Project(ev, tokyo, 24)
	require.NoError(t, err)
	assert.Equal(t, 12, span.Row)
	assert.Equal(t, 1, span.Height)
}
