package google

import (
	"fmt"

	"golang.org/x/oauth2"
)

// Google OAuth2 endpoints. The revocation endpoint is part of the registered
// client configuration but is not exercised by any flow here.
const (
	AuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	TokenURL  = "https://www.googleapis.com/oauth2/v3/token"
	RevokeURL = "https://oauth2.googleapis.com/revoke"
)

// CalendarReadonlyScope grants read-only access to calendars and events.
const CalendarReadonlyScope = "https://www.googleapis.com/auth/calendar.readonly"

// NewOAuthConfig builds the OAuth2 client configuration. The redirect URI
// must match the loopback URI registered for the client, so the port is part
// of the configuration rather than chosen at runtime.
func NewOAuthConfig(clientID, clientSecret string, redirectPort int) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d", redirectPort),
		Scopes:       []string{CalendarReadonlyScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
	}
}
