package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/daygrid/daygrid/internal/logging"
)

// Manager owns the live token pair for the process. It bootstraps from the
// store (validating the stored refresh token) or from the interactive flow,
// and exposes Refresh for callers that observe an expired access token.
// Retry policy lives with those callers, not here.
type Manager struct {
	conf   *oauth2.Config
	store  *Store
	flow   *Flow
	logger *slog.Logger

	mu   sync.Mutex
	pair TokenPair
}

// NewManager wires a manager from its collaborators.
func NewManager(conf *oauth2.Config, store *Store, flow *Flow) *Manager {
	return &Manager{
		conf:   conf,
		store:  store,
		flow:   flow,
		logger: logging.WithOperation(slog.Default(), "token_manager"),
	}
}

// Bootstrap establishes a valid token pair. A stored pair is refreshed
// immediately so a stale refresh token is caught here instead of on the
// first fetch. When no pair is stored, the interactive flow runs. Either
// way the resulting pair is persisted before returning.
func (m *Manager) Bootstrap(ctx context.Context) error {
	pair, err := m.store.Load()
	switch {
	case err == nil:
		m.mu.Lock()
		m.pair = pair
		m.mu.Unlock()
		m.logger.Debug("loaded stored credentials, validating refresh token")
		if err := m.Refresh(ctx); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		return nil

	case errors.Is(err, ErrNoCredentials):
		m.logger.Debug("no stored credentials, starting authorization flow")
		pair, err := m.flow.Run(ctx)
		if err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		m.mu.Lock()
		m.pair = pair
		m.mu.Unlock()
		if err := m.store.Save(pair); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("bootstrap failed: %w", err)
	}
}

// Refresh exchanges the refresh token for a new access token and persists
// the updated pair. The refresh token is kept unless the provider rotates
// it. A failed refresh leaves the stored pair untouched.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pair.RefreshToken == "" {
		return errors.New("token refresh failed: no refresh token")
	}

	src := m.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: m.pair.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}

	m.pair.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		m.pair.RefreshToken = tok.RefreshToken
	}

	if err := m.store.Save(m.pair); err != nil {
		return fmt.Errorf("failed to persist refreshed credentials: %w", err)
	}

	m.logger.Debug("access token refreshed")
	return nil
}

// AccessToken returns the current access token.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair.AccessToken
}
