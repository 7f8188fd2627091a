package config

import (
	"errors"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/signin/internal/i18n"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
	apperrors "github.com/alexisbeaulieu97/signin/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		_ = v.RegisterValidation("theme_name", func(fl validator.FieldLevel) bool {
			_, err := components.ThemeByName(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("supported_language", func(fl validator.FieldLevel) bool {
			return slices.Contains(i18n.Supported(), fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks cfg and returns the first problem as a
// *errors.ValidationError naming the dotted config key.
func Validate(cfg *Config) error {
	if cfg == nil {
		return apperrors.NewValidationError("", "config is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewValidationError(fieldKey(fe.Namespace()), describe(fe), err)
		}
		return apperrors.NewValidationError("", err.Error(), err)
	}

	if cfg.Backend == BackendRemote {
		if cfg.Remote.URL == "" {
			return apperrors.NewValidationError("remote.url", "is required when backend is remote", nil)
		}
		if u, err := url.Parse(cfg.Remote.URL); err != nil || u.Host == "" {
			return apperrors.NewValidationError("remote.url", "must be an absolute http(s) URL", err)
		}
	}
	return nil
}

// fieldKey turns "Config.log.level" into "log.level".
func fieldKey(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of " + fe.Param()
	case "notblank", "required":
		return "must not be empty"
	case "theme_name":
		return "must be one of " + strings.Join(components.ThemeNames(), " ")
	case "supported_language":
		return "must be one of " + strings.Join(i18n.Supported(), " ")
	case "http_url":
		return "must be an absolute http(s) URL"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
