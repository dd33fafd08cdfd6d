package model

import (
	"errors"

	"github.com/palaverbot/palaver/internal/store"
)

var (
	// ErrRateLimited means the model provider throttled the request.
	ErrRateLimited = errors.New("model provider rate limited")
	// ErrQuotaExceeded means the account's usage quota is exhausted.
	ErrQuotaExceeded = errors.New("model provider quota exceeded")
)

// Provider produces a completion for an ordered conversation history.
type Provider interface {
	Complete(history []store.Turn) (string, error)
}
