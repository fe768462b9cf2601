package calendar

import (
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// Descriptor identifies one calendar to fetch plus the color its events are
// rendered with. Static configuration, not mutated at runtime.
type Descriptor struct {
	ID    string
	Color string
}

// Event is one timed calendar entry. All-day entries carry no dateTime and
// are never turned into an Event; the conversion skips them.
type Event struct {
	Calendar Descriptor
	Summary  string
	Start    time.Time
	End      time.Time
}

// Info describes one entry of the account's calendar list.
type Info struct {
	ID         string
	Summary    string
	Primary    bool
	AccessRole string
}

// toEvent converts one REST item. Items without a dateTime on either
// endpoint (all-day events) or with unparsable timestamps are rejected.
func toEvent(item *gcal.Event, cal Descriptor) (Event, error) {
	if item == nil {
		return Event{}, fmt.Errorf("nil event item")
	}
	if item.Start == nil || item.Start.DateTime == "" {
		return Event{}, fmt.Errorf("event %q has no start time", item.Summary)
	}
	if item.End == nil || item.End.DateTime == "" {
		return Event{}, fmt.Errorf("event %q has no end time", item.Summary)
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("event %q has invalid start time: %w", item.Summary, err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("event %q has invalid end time: %w", item.Summary, err)
	}

	return Event{
		Calendar: cal,
		Summary:  item.Summary,
		Start:    start,
		End:      end,
	}, nil
}

// toInfo converts one calendar list entry.
func toInfo(entry *gcal.CalendarListEntry) Info {
	if entry == nil {
		return Info{}
	}
	return Info{
		ID:         entry.Id,
		Summary:    entry.Summary,
		Primary:    entry.Primary,
		AccessRole: entry.AccessRole,
	}
}
