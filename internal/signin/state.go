package signin

import (
	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

// Field names one of the two inputs of the form.
type Field int

const (
	FieldIdentifier Field = iota
	FieldSecret
)

func (f Field) String() string {
	switch f {
	case FieldIdentifier:
		return "identifier"
	case FieldSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// EmptyKind returns the validation kind raised when the field is empty.
func (f Field) EmptyKind() auth.ErrorKind {
	if f == FieldSecret {
		return auth.KindEmptySecret
	}
	return auth.KindEmptyIdentifier
}

// FieldOf returns the field a validation kind belongs to.
func FieldOf(kind auth.ErrorKind) (Field, bool) {
	switch kind {
	case auth.KindEmptyIdentifier:
		return FieldIdentifier, true
	case auth.KindEmptySecret:
		return FieldSecret, true
	default:
		return 0, false
	}
}

// FormState is the transient data held by a sign-in form.
//
// LastError carries the kind reported by the authenticator for the last
// failed submission (empty when none). Violations lists the validation kinds
// of the last rejected attempt, one per failing field.
type FormState struct {
	Identifier         string
	Secret             string
	SubmissionInFlight bool
	LastError          auth.ErrorKind
	Violations         []auth.ErrorKind
}

// Value returns the current value of field.
func (s FormState) Value(field Field) string {
	if field == FieldSecret {
		return s.Secret
	}
	return s.Identifier
}

// OnFieldChange returns the state after the user set field to value. The
// violation belonging to that field is dropped, and so is a submission error,
// since the user is now correcting the input.
func OnFieldChange(state FormState, field Field, value string) FormState {
	next := state
	switch field {
	case FieldIdentifier:
		next.Identifier = value
	case FieldSecret:
		next.Secret = value
	default:
		return state
	}

	next.Violations = withoutKind(state.Violations, field.EmptyKind())
	if next.LastError != "" {
		if owner, ok := FieldOf(next.LastError); !ok || owner == field {
			next.LastError = ""
		}
	}
	return next
}

// Cleared returns the idle, empty state.
func Cleared() FormState {
	return FormState{}
}

func withoutKind(kinds []auth.ErrorKind, drop auth.ErrorKind) []auth.ErrorKind {
	if len(kinds) == 0 {
		return nil
	}
	out := make([]auth.ErrorKind, 0, len(kinds))
	for _, k := range kinds {
		if k != drop {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
