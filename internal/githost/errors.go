package githost

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

var (
	// ErrUnauthenticated means no credential was supplied
	ErrUnauthenticated = eris.New("not connected to a hosting account")

	// ErrInvalidCredential means the server rejected the credential
	ErrInvalidCredential = eris.New("hosting account credential was rejected")
)

// RateLimitedError means the server refused the request due to rate
// limiting; ResetAt is when the limit resets
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, try again in %s", time.Until(e.ResetAt).Round(time.Second))
}

// ServerError means the server answered with an unexpected status
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Status)
}
