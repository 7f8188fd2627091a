package signin

import (
	"strings"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

// Status is the result class of a submission attempt.
type Status int

const (
	StatusAccepted Status = iota + 1
	StatusFailed
	StatusRejected
	StatusAlreadySubmitting
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusFailed:
		return "failed"
	case StatusRejected:
		return "rejected"
	case StatusAlreadySubmitting:
		return "already_submitting"
	default:
		return "unknown"
	}
}

// Outcome reports how a submission attempt ended. Kinds is set for Failed
// (one submission kind) and Rejected (validation kinds). Principal is only
// set for Accepted and is handed on, never stored by the form.
type Outcome struct {
	Status    Status
	Kinds     []auth.ErrorKind
	Principal auth.Principal
}

// Kind returns the first kind of the outcome, or "" when there is none.
func (o Outcome) Kind() auth.ErrorKind {
	if len(o.Kinds) == 0 {
		return ""
	}
	return o.Kinds[0]
}

// Attempt describes what BeginSubmit decided. When Started is true the
// caller must hand Credentials to the authenticator exactly once and report
// the result through CompleteSubmit. Otherwise Outcome is final.
type Attempt struct {
	Started     bool
	Credentials auth.Credentials
	Outcome     Outcome
}

// NormalizeIdentifier returns the identifier as handed to an authenticator.
func NormalizeIdentifier(identifier string) string {
	return strings.TrimSpace(identifier)
}

// BeginSubmit moves the form from Idle through Validating. An attempt made
// while another is in flight is a no-op.
func BeginSubmit(state FormState) (FormState, Attempt) {
	if state.SubmissionInFlight {
		return state, Attempt{Outcome: Outcome{Status: StatusAlreadySubmitting}}
	}

	result := Validate(state)
	if !result.Valid() {
		next := state
		next.Violations = append([]auth.ErrorKind(nil), result.Kinds...)
		return next, Attempt{Outcome: Outcome{Status: StatusRejected, Kinds: result.Kinds}}
	}

	next := state
	next.SubmissionInFlight = true
	next.Violations = nil
	next.LastError = ""
	return next, Attempt{
		Started: true,
		Credentials: auth.Credentials{
			Identifier: NormalizeIdentifier(state.Identifier),
			Secret:     state.Secret,
		},
	}
}

// CompleteSubmit settles an in-flight submission with the authenticator's
// answer. Success clears the form; failure records the kind and keeps the
// entered values so the user does not retype them.
func CompleteSubmit(state FormState, principal auth.Principal, err error) (FormState, Outcome) {
	if err == nil {
		return Cleared(), Outcome{Status: StatusAccepted, Principal: principal}
	}

	kind := auth.KindOf(err)
	if !kind.IsSubmission() {
		// Validation kinds belong to the form, not the authenticator.
		kind = auth.KindServerError
	}
	next := state
	next.SubmissionInFlight = false
	next.LastError = kind
	return next, Outcome{Status: StatusFailed, Kinds: []auth.ErrorKind{kind}}
}
