package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether role is one of the known authorization labels.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// RoleSatisfies reports whether an identity holding have meets a route
// requirement of want. ADMIN subsumes USER.
func RoleSatisfies(have, want string) bool {
	if have == want {
		return true
	}
	return have == RoleAdmin && want == RoleUser
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated principal attached to a request after its
// bearer token has been verified. Scoped to the request lifetime only.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
