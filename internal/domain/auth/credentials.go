package auth

import "fmt"

const redacted = "[REDACTED]"

// Credentials is the identifier/secret pair handed to an authenticator.
// It only lives for the duration of a single submission.
type Credentials struct {
	Identifier string
	Secret     string
}

// String redacts the secret so credentials can be passed to fmt safely.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Identifier:%q, Secret:%s}", c.Identifier, redacted)
}

// GoString redacts the secret for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

// Role is the authorisation level attached to a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal describes the authenticated account. Callers hand it on to
// session handling; the sign-in form never keeps it.
type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
