package authn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/infrastructure/store"
	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
)

// Lookups that fail on lock contention are retried this many times after
// the first attempt, one second apart.
const (
	DefaultRetryAttempts = 4
	DefaultRetryWait     = time.Second
)

// UserFinder looks users up by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*store.User, error)
}

// LocalOptions configures a Local authenticator.
type LocalOptions struct {
	Logger        ports.Logger
	RetryAttempts int
	RetryWait     time.Duration
}

// Local authenticates against password hashes in the user store.
type Local struct {
	users    UserFinder
	logger   ports.Logger
	attempts int
	wait     time.Duration
}

var _ ports.Authenticator = (*Local)(nil)

// NewLocal returns a Local authenticator reading from users. A negative
// RetryAttempts disables retries; zero selects the default.
func NewLocal(users UserFinder, opts LocalOptions) *Local {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	attempts := opts.RetryAttempts
	switch {
	case attempts == 0:
		attempts = DefaultRetryAttempts
	case attempts < 0:
		attempts = 0
	}
	wait := opts.RetryWait
	if wait <= 0 {
		wait = DefaultRetryWait
	}
	return &Local{
		users:    users,
		logger:   log.With("component", "authn.local"),
		attempts: attempts,
		wait:     wait,
	}
}

// dummyHash is compared against when the user does not exist so that
// unknown usernames cost as much as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("signin-timing-equaliser"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// Authenticate implements ports.Authenticator.
func (l *Local) Authenticate(ctx context.Context, creds auth.Credentials) (auth.Principal, error) {
	if err := ctx.Err(); err != nil {
		return auth.Principal{}, auth.NewError(auth.KindOf(err), "authentication aborted", err)
	}

	user, err := l.lookup(ctx, creds.Identifier)
	if errors.Is(err, store.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(creds.Secret))
		l.logger.Info(ctx, "unknown user", "username", creds.Identifier)
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		kind := auth.KindOf(err)
		l.logger.Error(ctx, "user lookup failed", "username", creds.Identifier, "error", err)
		return auth.Principal{}, auth.NewError(kind, "user lookup failed", err)
	}

	ok, err := Verify(user.PasswordHash, creds.Secret)
	if err != nil {
		l.logger.Error(ctx, "stored hash unusable", "username", creds.Identifier, "error", err)
		return auth.Principal{}, auth.NewError(auth.KindServerError, "stored credentials unusable", err)
	}
	if !ok {
		l.logger.Info(ctx, "password mismatch", "username", creds.Identifier)
		return auth.Principal{}, auth.ErrInvalidCredentials
	}

	return user.Principal(), nil
}

func (l *Local) lookup(ctx context.Context, username string) (*store.User, error) {
	var user *store.User
	attempt := 0

	op := func() error {
		attempt++
		u, err := l.users.FindByUsername(ctx, username)
		if err == nil {
			user = u
			return nil
		}
		if store.IsTransient(err) {
			l.logger.Warn(ctx, "user lookup contended", "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.wait), uint64(l.attempts)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return user, nil
}
