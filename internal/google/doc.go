// Package google manages the OAuth2 credential lifecycle for the Google
// Calendar API.
//
// It covers three concerns:
//
//   - Store: a flat JSON record of exactly the access and refresh token,
//     written atomically with 0600 permissions.
//   - Flow: the one-time interactive Authorization-Code grant with PKCE
//     (S256). The flow prints the authorization URL, blocks on a one-shot
//     loopback listener for the redirect, verifies the CSRF state before any
//     exchange, and requires a refresh token in the exchange response.
//   - Manager: the single owner of the live token pair. Bootstrap validates
//     a stored refresh token by refreshing immediately, or runs the flow
//     when nothing is stored. Refresh is not retried here; the fetch layer
//     decides when to trigger it.
//
// The flow runs at most once per process lifetime, and only when no valid
// stored credential exists.
package google
