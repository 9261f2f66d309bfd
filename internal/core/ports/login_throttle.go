package ports

import "context"

// LoginThrottle limits repeated failed login attempts per username.
type LoginThrottle interface {
	// Allowed reports whether another attempt for username may proceed.
	Allowed(ctx context.Context, username string) (bool, error)
	// RecordFailure counts a failed attempt against username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
