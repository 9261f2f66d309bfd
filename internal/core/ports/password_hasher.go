package ports

import "context"

// PasswordHasher provides one-way hashing of credentials. Hashing is
// CPU-bound and intentionally slow, so implementations may bound their
// concurrency; both methods honour ctx cancellation while waiting.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. The comparison must not
	// leak timing correlated to the mismatch position.
	Verify(ctx context.Context, plaintext, hash string) bool
}
