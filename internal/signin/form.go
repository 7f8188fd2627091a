package signin

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/ports"
)

// Form owns one FormState and serialises access to it. Field changes are
// accepted at any time, including while Submit is waiting on the
// authenticator; a second Submit during that wait returns
// StatusAlreadySubmitting without side effects.
type Form struct {
	mu    sync.Mutex
	state FormState

	authenticator ports.Authenticator
	logger        ports.Logger
}

// NewForm creates an idle form bound to authenticator.
func NewForm(authenticator ports.Authenticator, logger ports.Logger) *Form {
	if logger != nil {
		logger = logger.With("component", "signin.form")
	}
	return &Form{authenticator: authenticator, logger: logger}
}

// State returns a snapshot of the current form state.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.state
	snapshot.Violations = append([]auth.ErrorKind(nil), f.state.Violations...)
	return snapshot
}

// SetField applies a field change and returns the resulting state.
func (f *Form) SetField(field Field, value string) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = OnFieldChange(f.state, field, value)
	return f.state
}

// Reset discards any entered values. An in-flight submission keeps its
// guard so it can still settle.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	inFlight := f.state.SubmissionInFlight
	f.state = Cleared()
	f.state.SubmissionInFlight = inFlight
}

// Submit runs one submission attempt and blocks until it settles. The form
// returns to Idle on every path, including a panicking authenticator.
func (f *Form) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	next, attempt := BeginSubmit(f.state)
	f.state = next
	f.mu.Unlock()

	if !attempt.Started {
		f.logOutcome(ctx, attempt.Credentials.Identifier, attempt.Outcome)
		return attempt.Outcome
	}

	if f.logger != nil {
		f.logger.Debug(ctx, "submission started", "identifier", attempt.Credentials.Identifier)
	}

	settled := false
	defer func() {
		if settled {
			return
		}
		f.mu.Lock()
		f.state, _ = CompleteSubmit(f.state, auth.Principal{}, auth.ErrServer)
		f.mu.Unlock()
	}()

	principal, err := f.authenticate(ctx, attempt.Credentials)

	f.mu.Lock()
	var outcome Outcome
	f.state, outcome = CompleteSubmit(f.state, principal, err)
	settled = true
	f.mu.Unlock()

	f.logOutcome(ctx, attempt.Credentials.Identifier, outcome)
	return outcome
}

func (f *Form) authenticate(ctx context.Context, creds auth.Credentials) (auth.Principal, error) {
	if f.authenticator == nil {
		return auth.Principal{}, auth.NewError(auth.KindServerError, "no authenticator configured", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return f.authenticator.Authenticate(ctx, creds)
}

func (f *Form) logOutcome(ctx context.Context, identifier string, outcome Outcome) {
	if f.logger == nil {
		return
	}
	switch outcome.Status {
	case StatusAccepted:
		f.logger.Info(ctx, "sign-in accepted", "identifier", identifier, "role", string(outcome.Principal.Role))
	case StatusFailed:
		f.logger.Warn(ctx, "sign-in failed", "identifier", identifier, "kind", string(outcome.Kind()))
	case StatusRejected:
		f.logger.Debug(ctx, "sign-in rejected by validation", "kinds", outcome.Kinds)
	case StatusAlreadySubmitting:
		f.logger.Debug(ctx, "submission ignored while another is in flight")
	}
}
