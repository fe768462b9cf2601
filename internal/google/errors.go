package google

import "errors"

var (
	// ErrNoCredentials is returned by Store.Load when no credential record
	// exists yet. It triggers the interactive authorization flow.
	ErrNoCredentials = errors.New("no stored credentials")

	// ErrCorruptCredentials is returned by Store.Load when the stored record
	// cannot be parsed into the two required token fields.
	ErrCorruptCredentials = errors.New("stored credentials are corrupt")

	// ErrMissingCode is returned when the captured redirect carries no
	// authorization code.
	ErrMissingCode = errors.New("redirect is missing 'code' parameter")

	// ErrMissingState is returned when the captured redirect carries no
	// state parameter.
	ErrMissingState = errors.New("redirect is missing 'state' parameter")

	// ErrStateMismatch is returned when the state echoed by the redirect does
	// not match the CSRF token generated for this flow. The token exchange
	// must not be attempted in that case.
	ErrStateMismatch = errors.New("redirect state does not match CSRF token")

	// ErrNoRefreshToken is returned when the code exchange succeeds but the
	// provider omits a refresh token. A pair without one is usable only once,
	// so the flow fails instead.
	ErrNoRefreshToken = errors.New("token response contains no refresh token")
)
