package google

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultFlowTimeout bounds how long the flow waits for the browser
// redirect. An abandoned browser tab must not hang the process forever.
const DefaultFlowTimeout = 5 * time.Minute

// Flow performs the one-time interactive Authorization-Code + PKCE handshake.
// It prints the authorization URL, waits for exactly one redirect on a
// loopback listener, and exchanges the captured code for a token pair.
type Flow struct {
	conf    *oauth2.Config
	addr    string
	timeout time.Duration
	out     io.Writer
}

// NewFlow creates a flow bound to the loopback port of the config's
// registered redirect URI.
func NewFlow(conf *oauth2.Config, redirectPort int) *Flow {
	return &Flow{
		conf:    conf,
		addr:    fmt.Sprintf("127.0.0.1:%d", redirectPort),
		timeout: DefaultFlowTimeout,
		out:     os.Stdout,
	}
}

// WithTimeout overrides how long the flow waits for the redirect.
func (f *Flow) WithTimeout(d time.Duration) *Flow {
	f.timeout = d
	return f
}

// WithOutput overrides where the authorization URL is printed.
func (f *Flow) WithOutput(w io.Writer) *Flow {
	f.out = w
	return f
}

// Run executes the handshake and returns a fresh token pair. A missing
// refresh token in the exchange response is an error; the stored pair must
// survive access-token expiry.
func (f *Flow) Run(ctx context.Context) (TokenPair, error) {
	verifier := oauth2.GenerateVerifier()

	state, err := randomState()
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate CSRF token: %w", err)
	}

	authURL := f.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	fmt.Fprintf(f.out, "Open this URL in your browser:\n%s\n\n", authURL)

	code, err := f.captureRedirect(ctx, state)
	if err != nil {
		return TokenPair{}, err
	}

	tok, err := f.conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return TokenPair{}, fmt.Errorf("code exchange failed: %w", err)
	}
	if tok.RefreshToken == "" {
		return TokenPair{}, ErrNoRefreshToken
	}

	return TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}, nil
}

// captureRedirect waits for exactly one inbound connection on the loopback
// address, parses code and state from the request line, verifies the state
// against the CSRF token, and answers with a minimal 200 page. The listener
// is one-shot: it is torn down after the single accept.
func (f *Flow) captureRedirect(ctx context.Context, expectedState string) (string, error) {
	lis, err := net.Listen("tcp", f.addr)
	if err != nil {
		return "", fmt.Errorf("failed to bind redirect listener on %s: %w", f.addr, err)
	}
	defer lis.Close()

	if tcp, ok := lis.(*net.TCPListener); ok && f.timeout > 0 {
		if err := tcp.SetDeadline(time.Now().Add(f.timeout)); err != nil {
			return "", fmt.Errorf("failed to set accept deadline: %w", err)
		}
	}

	// Unblock the accept when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			lis.Close()
		case <-done:
		}
	}()

	conn, err := lis.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("authorization canceled: %w", ctx.Err())
		}
		return "", fmt.Errorf("no redirect received: %w", err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return "", fmt.Errorf("failed to set read deadline: %w", err)
	}

	requestLine, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read redirect request: %w", err)
	}

	code, gotState, err := parseRedirect(requestLine)
	if err != nil {
		return "", err
	}

	if subtle.ConstantTimeCompare([]byte(gotState), []byte(expectedState)) != 1 {
		return "", ErrStateMismatch
	}

	const body = "Authorized. Go back to your terminal :)"
	fmt.Fprintf(conn, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: %d\r\n\r\n%s", len(body), body)

	return code, nil
}

// parseRedirect extracts the code and state query parameters from the first
// line of the redirect's HTTP request.
func parseRedirect(requestLine string) (code, state string, err error) {
	fields := strings.Fields(requestLine)
	if len(fields) < 2 {
		return "", "", fmt.Errorf("malformed redirect request line %q", strings.TrimSpace(requestLine))
	}

	target, err := url.ParseRequestURI(fields[1])
	if err != nil {
		return "", "", fmt.Errorf("malformed redirect target: %w", err)
	}

	query := target.Query()
	code = query.Get("code")
	if code == "" {
		return "", "", ErrMissingCode
	}
	state = query.Get("state")
	if state == "" {
		return "", "", ErrMissingState
	}

	return code, state, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
