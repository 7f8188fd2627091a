package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("signin.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "signin.yaml", parseErr.Source)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "parse signin.yaml:12: unexpected token", err.Error())
}

func TestParseErrorRecoversYAMLLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("users.yaml", 0, stdErrors.New("yaml: line 7: did not find expected key"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 7, parseErr.Line)
}

func TestValidationErrorNamesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("users[1].role", "must be one of admin user", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "users[1].role", validationErr.Field)
	require.Equal(t, "invalid users[1].role: must be one of admin user", err.Error())
	require.Equal(t, "invalid value: empty", NewValidationError("", "empty", nil).Error())
}

func TestStoreErrorIncludesOperation(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("database is locked")
	err := NewStoreError("find user", underlying)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, "find user", storeErr.Op)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "store find user: database is locked", err.Error())

	require.NoError(t, NewStoreError("noop", nil))
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var p *ParseError
	var v *ValidationError
	var s *StoreError
	require.Empty(t, p.Error())
	require.Nil(t, p.Unwrap())
	require.Empty(t, v.Error())
	require.Nil(t, v.Unwrap())
	require.Empty(t, s.Error())
	require.Nil(t, s.Unwrap())
}
