package signin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

func TestBeginSubmit_RejectsInvalidState(t *testing.T) {
	t.Parallel()

	state, attempt := BeginSubmit(FormState{Identifier: "", Secret: "pw123"})

	require.False(t, attempt.Started)
	assert.Equal(t, StatusRejected, attempt.Outcome.Status)
	assert.Equal(t, []auth.ErrorKind{auth.KindEmptyIdentifier}, attempt.Outcome.Kinds)
	assert.False(t, state.SubmissionInFlight)
	assert.Equal(t, []auth.ErrorKind{auth.KindEmptyIdentifier}, state.Violations)
	assert.Equal(t, "pw123", state.Secret)
}

func TestBeginSubmit_StartsWithTrimmedIdentifier(t *testing.T) {
	t.Parallel()

	state, attempt := BeginSubmit(FormState{Identifier: "  alice@example.com ", Secret: " pw "})

	require.True(t, attempt.Started)
	assert.True(t, state.SubmissionInFlight)
	assert.Equal(t, "alice@example.com", attempt.Credentials.Identifier)
	assert.Equal(t, " pw ", attempt.Credentials.Secret)
}

func TestBeginSubmit_NoOpWhileInFlight(t *testing.T) {
	t.Parallel()

	inFlight := FormState{Identifier: "alice", Secret: "pw", SubmissionInFlight: true}
	state, attempt := BeginSubmit(inFlight)

	assert.False(t, attempt.Started)
	assert.Equal(t, StatusAlreadySubmitting, attempt.Outcome.Status)
	assert.Equal(t, inFlight, state)
}

func TestCompleteSubmit_AcceptedClearsForm(t *testing.T) {
	t.Parallel()

	state, attempt := BeginSubmit(FormState{Identifier: "alice@example.com", Secret: "correct-pw"})
	require.True(t, attempt.Started)

	principal := auth.Principal{Username: "alice@example.com", Role: auth.RoleUser}
	state, outcome := CompleteSubmit(state, principal, nil)

	assert.Equal(t, StatusAccepted, outcome.Status)
	assert.Equal(t, principal, outcome.Principal)
	assert.Equal(t, FormState{}, state)
}

func TestCompleteSubmit_FailureRetainsValues(t *testing.T) {
	t.Parallel()

	before := FormState{Identifier: "alice@example.com", Secret: "wrong-pw"}
	state, attempt := BeginSubmit(before)
	require.True(t, attempt.Started)

	state, outcome := CompleteSubmit(state, auth.Principal{}, auth.ErrInvalidCredentials)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, auth.KindInvalidCredentials, outcome.Kind())
	assert.Equal(t, FormState{
		Identifier: "alice@example.com",
		Secret:     "wrong-pw",
		LastError:  auth.KindInvalidCredentials,
	}, state)
}

func TestCompleteSubmit_UntypedErrorIsServerError(t *testing.T) {
	t.Parallel()

	state, _ := BeginSubmit(FormState{Identifier: "a", Secret: "b"})
	state, outcome := CompleteSubmit(state, auth.Principal{}, errors.New("boom"))

	assert.Equal(t, auth.KindServerError, outcome.Kind())
	assert.Equal(t, auth.KindServerError, state.LastError)
	assert.False(t, state.SubmissionInFlight)
}

func TestCompleteSubmit_ValidationKindFromAuthenticatorIsServerError(t *testing.T) {
	t.Parallel()

	state, _ := BeginSubmit(FormState{Identifier: "a", Secret: "b"})
	state, outcome := CompleteSubmit(state, auth.Principal{}, auth.NewError(auth.KindEmptySecret, "odd", nil))

	assert.Equal(t, auth.KindServerError, outcome.Kind())
	assert.Equal(t, auth.KindServerError, state.LastError)
	assert.Nil(t, state.Violations)
}

func TestBeginSubmit_RetryClearsPreviousError(t *testing.T) {
	t.Parallel()

	state := FormState{Identifier: "a", Secret: "b", LastError: auth.KindNetworkUnavailable}
	state, attempt := BeginSubmit(state)

	require.True(t, attempt.Started)
	assert.Equal(t, auth.ErrorKind(""), state.LastError)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "accepted", StatusAccepted.String())
	assert.Equal(t, "already_submitting", StatusAlreadySubmitting.String())
	assert.Equal(t, "unknown", Status(0).String())
	assert.Equal(t, auth.ErrorKind(""), Outcome{}.Kind())
}
