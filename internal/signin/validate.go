package signin

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// credentialInput mirrors the form fields for struct validation. The secret
// is deliberately not trimmed: surrounding whitespace may be part of it.
type credentialInput struct {
	Identifier string `validate:"notblank"`
	Secret     string `validate:"required"`
}

var kindByField = map[string]auth.ErrorKind{
	"Identifier": auth.KindEmptyIdentifier,
	"Secret":     auth.KindEmptySecret,
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		validateInst = v
	})

	return validateInst
}

// ValidationResult is either valid (no kinds) or the set of failing kinds,
// one per field, in field order.
type ValidationResult struct {
	Kinds []auth.ErrorKind
}

// Valid reports whether no field failed.
func (r ValidationResult) Valid() bool {
	return len(r.Kinds) == 0
}

// Has reports whether kind is part of the result.
func (r ValidationResult) Has(kind auth.ErrorKind) bool {
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Validate checks the two fields of state. It is deterministic and has no
// side effects.
func Validate(state FormState) ValidationResult {
	return ValidateCredentials(auth.Credentials{Identifier: state.Identifier, Secret: state.Secret})
}

// ValidateCredentials applies the form rules to a raw credential pair. The
// HTTP login endpoint shares it with the form.
func ValidateCredentials(creds auth.Credentials) ValidationResult {
	err := validatorInstance().Struct(credentialInput{Identifier: creds.Identifier, Secret: creds.Secret})
	if err == nil {
		return ValidationResult{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable on programmer error (invalid struct passed).
		return ValidationResult{Kinds: []auth.ErrorKind{auth.KindEmptyIdentifier, auth.KindEmptySecret}}
	}

	result := ValidationResult{}
	for _, fe := range verrs {
		kind, ok := kindByField[fe.Field()]
		if !ok || result.Has(kind) {
			continue
		}
		result.Kinds = append(result.Kinds, kind)
	}
	return result
}
