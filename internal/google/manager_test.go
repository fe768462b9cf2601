package google

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRefreshServer fakes the token endpoint for refresh-token exchanges.
// An empty accessToken makes the endpoint reject the request.
func newRefreshServer(t *testing.T, refreshes *atomic.Int32, accessToken, rotatedRefresh string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if accessToken == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		if rotatedRefresh != "" {
			fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":3600,"refresh_token":%q}`, accessToken, rotatedRefresh)
			return
		}
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":3600}`, accessToken)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(t *testing.T, tokenURL string) (*Manager, *Store) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "tokens.json"))
	conf := testFlowConfig(tokenURL, 0)
	return NewManager(conf, store, nil), store
}

func TestManagerBootstrapRefreshesStoredPair(t *testing.T) {
	var refreshes atomic.Int32
	srv := newRefreshServer(t, &refreshes, "fresh-access", "")

	mgr, store := newTestManager(t, srv.URL)
	require.NoError(t, store.Save(TokenPair{AccessToken: "stale-access", RefreshToken: "stored-refresh"}))

	require.NoError(t, mgr.Bootstrap(context.Background()))

	assert.Equal(t, "fresh-access", mgr.AccessToken())
	assert.Equal(t, int32(1), refreshes.Load(), "a stored pair is validated by refreshing immediately")

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", persisted.AccessToken)
	assert.Equal(t, "stored-refresh", persisted.RefreshToken, "refresh token is stable unless rotated")
}

func TestManagerRefreshAdoptsRotatedToken(t *testing.T) {
	var refreshes atomic.Int32
	srv := newRefreshServer(t, &refreshes, "fresh-access", "rotated-refresh")

	mgr, store := newTestManager(t, srv.URL)
	require.NoError(t, store.Save(TokenPair{AccessToken: "stale-access", RefreshToken: "stored-refresh"}))

	require.NoError(t, mgr.Bootstrap(context.Background()))

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "rotated-refresh", persisted.RefreshToken)
}

func TestManagerBootstrapStaleRefreshToken(t *testing.T) {
	var refreshes atomic.Int32
	srv := newRefreshServer(t, &refreshes, "", "")

	mgr, store := newTestManager(t, srv.URL)
	require.NoError(t, store.Save(TokenPair{AccessToken: "stale-access", RefreshToken: "revoked"}))

	err := mgr.Bootstrap(context.Background())
	assert.Error(t, err, "a dead refresh token must surface at bootstrap, not on the first fetch")

	// A failed refresh never clears the stored pair.
	persisted, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, "revoked", persisted.RefreshToken)
}

func TestManagerBootstrapCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	mgr := NewManager(testFlowConfig("https://unused.example.com/token", 0), NewStore(path), nil)

	err := mgr.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrCorruptCredentials, "corrupt credentials propagate instead of triggering the flow")
}

func TestManagerBootstrapRunsFlowWhenEmpty(t *testing.T) {
	var exchanges atomic.Int32
	srv := newExchangeServer(t, &exchanges, "flow-refresh")

	port := freePort(t)
	out := newNotifyWriter()
	conf := testFlowConfig(srv.URL, port)
	flow := NewFlow(conf, port).WithTimeout(5 * time.Second).WithOutput(out)
	store := NewStore(filepath.Join(t.TempDir(), "tokens.json"))
	mgr := NewManager(conf, store, flow)

	done := make(chan error, 1)
	go func() {
		done <- mgr.Bootstrap(context.Background())
	}()

	<-out.ch
	state := authURLState(t, out.String())
	sendRedirect(t, fmt.Sprintf("127.0.0.1:%d", port), "/?code=authcode&state="+state)

	require.NoError(t, <-done)
	assert.Equal(t, "flow-access", mgr.AccessToken())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, TokenPair{AccessToken: "flow-access", RefreshToken: "flow-refresh"}, persisted)
}

func TestManagerRefreshWithoutToken(t *testing.T) {
	mgr, _ := newTestManager(t, "https://unused.example.com/token")

	err := mgr.Refresh(context.Background())
	assert.Error(t, err)
}
