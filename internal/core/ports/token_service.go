package ports

// TokenService issues and validates signed, time-bounded bearer tokens.
type TokenService interface {
	// Issue creates a signed token whose subject is username.
	Issue(username string) (string, error)
	// ExtractSubject parses and verifies the token, returning its subject
	// claim. Returns domain.ErrExpiredToken for expired tokens and
	// domain.ErrMalformedToken for anything else that fails verification.
	ExtractSubject(token string) (string, error)
	// Validate reports whether token is currently valid for expectedUsername.
	// It fails closed: any parse, signature, expiry, or subject mismatch
	// yields false.
	Validate(token, expectedUsername string) bool
}
