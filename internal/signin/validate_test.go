package signin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

func TestValidate_WhitespaceIdentifierIsEmpty(t *testing.T) {
	t.Parallel()

	for _, identifier := range []string{"", " ", "\t", "\n\r ", " ", "  \t"} {
		result := Validate(FormState{Identifier: identifier, Secret: "x"})
		require.False(t, result.Valid(), "identifier %q should be rejected", identifier)
		assert.Equal(t, []auth.ErrorKind{auth.KindEmptyIdentifier}, result.Kinds)
	}
}

func TestValidate_AcceptsNonBlankValues(t *testing.T) {
	t.Parallel()

	cases := []FormState{
		{Identifier: "alice@example.com", Secret: "correct-pw"},
		{Identifier: "  bob ", Secret: "x"},
		{Identifier: "c", Secret: " "},
		{Identifier: "ünïcødé", Secret: "\t"},
	}

	for _, state := range cases {
		result := Validate(state)
		assert.True(t, result.Valid(), "state %+v should validate", state)
		assert.Empty(t, result.Kinds)
	}
}

func TestValidate_SecretIsNotTrimmed(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(FormState{Identifier: "alice", Secret: "   "}).Valid())
	assert.True(t, Validate(FormState{Identifier: "alice", Secret: ""}).Has(auth.KindEmptySecret))
}

func TestValidate_ReportsOneKindPerField(t *testing.T) {
	t.Parallel()

	result := Validate(FormState{})
	assert.Equal(t, []auth.ErrorKind{auth.KindEmptyIdentifier, auth.KindEmptySecret}, result.Kinds)
	assert.True(t, result.Has(auth.KindEmptySecret))
	assert.False(t, result.Has(auth.KindInvalidCredentials))
}

func TestValidate_IsDeterministic(t *testing.T) {
	t.Parallel()

	state := FormState{Identifier: " ", Secret: ""}
	first := Validate(state)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Validate(state))
	}
}
