// aviation/errors.go
package aviation

import "errors"

// Every failure of a lookup wraps exactly one of these. Callers should treat
// all of them as "no usable data was obtained".
var (
	// ErrUpstreamUnavailable means the provider could not be reached or
	// answered with a non-2xx status and no structured error.
	ErrUpstreamUnavailable = errors.New("flight data provider unavailable")

	// ErrUpstreamError means the provider returned an error payload.
	ErrUpstreamError = errors.New("flight data provider returned an error")

	// ErrNotFound means the provider returned no matching records.
	ErrNotFound = errors.New("flight not found")

	// ErrNoData means a record was returned but none of its descriptive
	// fields were populated.
	ErrNoData = errors.New("no flight data available for this flight number")

	// ErrMalformedRecord means the response or record had an unexpected shape.
	ErrMalformedRecord = errors.New("malformed flight record")
)
