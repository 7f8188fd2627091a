package ports

import (
	"context"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

// Authenticator verifies a credential pair. A nil error means the attempt was
// accepted; failures should be *auth.Error values so the caller can surface
// the kind. Implementations must honour ctx cancellation.
type Authenticator interface {
	Authenticate(ctx context.Context, creds auth.Credentials) (auth.Principal, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, creds auth.Credentials) (auth.Principal, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, creds auth.Credentials) (auth.Principal, error) {
	return f(ctx, creds)
}
