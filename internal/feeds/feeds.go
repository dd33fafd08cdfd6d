// Package feeds holds the external data provider clients: small, stateless
// request/response collaborators invoked synchronously per user turn.
package feeds

import "errors"

var (
	// ErrUnavailable reports a transport failure or non-2xx status from a
	// provider. No retry happens; the handler reports and moves on.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrNotFound means the provider answered but has no matching entity
	// (unknown location, undefined word).
	ErrNotFound = errors.New("not found")
)
