package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/daygrid/daygrid/internal/calendar"
	"github.com/daygrid/daygrid/internal/layout"
	"github.com/daygrid/daygrid/internal/logging"
)

// Fetcher retrieves one calendar's events for a day. Satisfied by
// calendar.Client.
type Fetcher interface {
	DayEvents(ctx context.Context, cal calendar.Descriptor, day time.Time) ([]calendar.Event, error)
}

const (
	pollInterval        = 250 * time.Millisecond
	defaultFetchTimeout = 30 * time.Second
)

// App drives the cooperative view loop: a short poll for cancellation, and
// once per check interval an evaluation of whether to re-render (half-hour
// boundary) or re-fetch (the local date rolled over).
type App struct {
	fetcher       Fetcher
	calendars     []calendar.Descriptor
	loc           *time.Location
	gridRows      int
	checkInterval time.Duration
	fetchTimeout  time.Duration
	out           io.Writer
	logger        *slog.Logger
	now           func() time.Time

	events     []calendar.Event
	fetchedDay time.Time
}

// New assembles the view loop.
func New(fetcher Fetcher, calendars []calendar.Descriptor, loc *time.Location, gridRows int, checkInterval time.Duration, out io.Writer) *App {
	return &App{
		fetcher:       fetcher,
		calendars:     calendars,
		loc:           loc,
		gridRows:      gridRows,
		checkInterval: checkInterval,
		fetchTimeout:  defaultFetchTimeout,
		out:           out,
		logger:        logging.WithOperation(slog.Default(), "view"),
		now:           time.Now,
	}
}

// Run fetches and renders today's events, then loops until ctx is canceled.
// Cancellation is observed between poll cycles only; a fetch already in
// flight completes or times out on its own deadline rather than being
// aborted mid-request.
func (a *App) Run(ctx context.Context) error {
	now := a.now().In(a.loc)
	a.refetch(now)
	a.render(now)

	lastCheck := now
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := a.now().In(a.loc)
			if now.Sub(lastCheck) < a.checkInterval {
				continue
			}
			lastCheck = now
			a.Check(now)
		}
	}
}

// Check is the once-per-interval evaluation. A day rollover triggers exactly
// one re-fetch and one re-render and moves the current date forward; within
// the same day the grid is redrawn on half-hour boundaries so the now-marker
// stays current. Reports whether a re-fetch happened.
func (a *App) Check(now time.Time) bool {
	local := now.In(a.loc)

	if !sameDay(local, a.fetchedDay) {
		a.logger.Debug("day rollover, refetching events",
			slog.String("date", local.Format("2006-01-02")))
		a.refetch(local)
		a.render(local)
		return true
	}

	if local.Minute()%30 == 0 {
		a.render(local)
	}
	return false
}

// refetch retrieves events for every configured calendar. Calendars are
// independent: a failed calendar is logged and skipped without dropping the
// others' events for this cycle.
func (a *App) refetch(day time.Time) {
	a.fetchedDay = day

	var all []calendar.Event
	for _, cal := range a.calendars {
		// Detached from the loop's context so a quit request never aborts a
		// request in flight; the timeout bounds the wait instead.
		fetchCtx, cancel := context.WithTimeout(context.Background(), a.fetchTimeout)
		events, err := a.fetcher.DayEvents(fetchCtx, cal, day)
		cancel()
		if err != nil {
			a.logger.Warn("failed to fetch calendar, skipping this cycle",
				slog.String(logging.KeyCalendar, cal.ID), logging.Error(err))
			continue
		}
		all = append(all, events...)
	}
	a.events = all
}

// render projects the current event set and writes the text grid. Events the
// projector rejects are counted and logged, never fatal to the rest of the
// layout.
func (a *App) render(now time.Time) {
	spans := make([]layout.Span, 0, len(a.events))
	skipped := 0
	for _, ev := range a.events {
		span, err := layout.Project(ev, a.loc, a.gridRows)
		if err != nil {
			skipped++
			continue
		}
		spans = append(spans, span)
	}
	if skipped > 0 {
		a.logger.Warn("skipped events during layout",
			slog.Int(logging.KeySkipped, skipped),
			slog.Int(logging.KeyCount, len(spans)))
	}

	fmt.Fprint(a.out, renderGrid(spans, now.In(a.loc), a.loc, a.gridRows))
}

// renderGrid draws the day as one line per row, with hour labels, a marker
// on the current row, and each span's title on its starting row.
func renderGrid(spans []layout.Span, now time.Time, loc *time.Location, gridRows int) string {
	titles := make([][]string, gridRows)
	occupied := make([]bool, gridRows)
	for _, span := range spans {
		if span.Row < 0 || span.Row >= gridRows {
			continue
		}
		titles[span.Row] = append(titles[span.Row], fmt.Sprintf("%s [%s]", span.Title, span.Color))
		for r := span.Row; r < span.Row+span.Height && r < gridRows; r++ {
			occupied[r] = true
		}
	}

	nowRow := layout.Row(now, loc, gridRows)
	minutesPerRow := 24 * 60 / gridRows

	var b strings.Builder
	b.WriteString("\033[2J\033[H")
	fmt.Fprintf(&b, "%s\n", now.Format("2006-01-02 (Mon) 15:04"))
	for r := 0; r < gridRows; r++ {
		marker := " "
		if r == nowRow {
			marker = ">"
		}

		label := "     "
		if m := r * minutesPerRow; m%60 == 0 {
			label = fmt.Sprintf("%02d:00", m/60)
		}

		bar := " "
		if occupied[r] {
			bar = "█"
		}

		fmt.Fprintf(&b, "%s %s %s %s\n", marker, label, bar, strings.Join(titles[r], "  "))
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
