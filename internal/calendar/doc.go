// Package calendar fetches a day's events from the Google Calendar API.
//
// The client authenticates each request with the token manager's current
// access token. When the API answers 401 it refreshes the token exactly once
// and retries the identical request; if the retry also fails, the call fails
// without a second refresh so a revoked credential cannot cause a refresh
// loop. Non-401 failures never trigger a refresh.
//
// All-day events carry a date but no dateTime and are outside the scope of
// the day grid; the conversion skips them with a counted, logged warning.
package calendar
