package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/daygrid/daygrid/internal/logging"
)

// TokenManager supplies the current access token and refreshes it on demand.
// Satisfied by google.Manager.
type TokenManager interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// Client issues calendar queries with the manager's current access token.
// On an unauthorized response it triggers exactly one refresh and retries
// the identical request once; a second failure is final for that call.
type Client struct {
	mgr    TokenManager
	opts   []option.ClientOption
	logger *slog.Logger
}

// NewClient creates a fetcher backed by the given token manager. Extra
// client options (such as an endpoint override) are passed through to the
// Calendar service.
func NewClient(mgr TokenManager, opts ...option.ClientOption) *Client {
	return &Client{
		mgr:    mgr,
		opts:   opts,
		logger: logging.WithOperation(slog.Default(), "calendar_fetch"),
	}
}

// service builds a Calendar service authenticated with the manager's current
// access token. The token source is static on purpose: expiry handling is
// the retry policy below, not a transparent transport concern.
func (c *Client) service(ctx context.Context) (*gcal.Service, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: c.mgr.AccessToken(),
		TokenType:   "Bearer",
	}))
	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// withAuthRetry runs op once, and once more after a single token refresh if
// the first run came back unauthorized. Any other failure, a failed refresh,
// or a failed retry is final.
func (c *Client) withAuthRetry(ctx context.Context, op func(svc *gcal.Service) error) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	err = op(svc)
	if err == nil || !isUnauthorized(err) {
		return err
	}

	c.logger.Debug("request unauthorized, refreshing access token")
	if rerr := c.mgr.Refresh(ctx); rerr != nil {
		return fmt.Errorf("fetch failed: %w", rerr)
	}

	svc, err = c.service(ctx)
	if err != nil {
		return err
	}
	if err := op(svc); err != nil {
		return fmt.Errorf("fetch failed after token refresh: %w", err)
	}
	return nil
}

// DayEvents fetches the given calendar's timed events for the local day
// containing day, ordered by start time with recurring series expanded.
// Timeless or unparsable items are skipped and counted, not fatal.
func (c *Client) DayEvents(ctx context.Context, cal Descriptor, day time.Time) ([]Event, error) {
	timeMin := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	timeMax := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())

	var result *gcal.Events
	err := c.withAuthRetry(ctx, func(svc *gcal.Service) error {
		var err error
		result, err = svc.Events.List(cal.ID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events for calendar %s: %w", cal.ID, err)
	}

	events := make([]Event, 0, len(result.Items))
	skipped := 0
	for _, item := range result.Items {
		ev, err := toEvent(item, cal)
		if err != nil {
			skipped++
			c.logger.Debug("skipping event", logging.Error(err))
			continue
		}
		events = append(events, ev)
	}
	if skipped > 0 {
		c.logger.Warn("skipped events without usable timestamps",
			slog.String(logging.KeyCalendar, cal.ID),
			slog.Int(logging.KeySkipped, skipped),
			slog.Int(logging.KeyCount, len(events)))
	}

	return events, nil
}

// Calendars lists the calendars accessible to the authenticated account,
// with the same refresh-and-retry policy as event fetches.
func (c *Client) Calendars(ctx context.Context) ([]Info, error) {
	var result *gcal.CalendarList
	err := c.withAuthRetry(ctx, func(svc *gcal.Service) error {
		var err error
		result, err = svc.CalendarList.List().Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	infos := make([]Info, 0, len(result.Items))
	for _, entry := range result.Items {
		infos = append(infos, toInfo(entry))
	}
	return infos, nil
}

func isUnauthorized(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized
}
