package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	apperrors "github.com/alexisbeaulieu97/signin/pkg/errors"
)

// SeedUser is one entry of a seed file. Password is plain text and is hashed
// before it reaches the database.
type SeedUser struct {
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	Role     string `yaml:"role" validate:"omitempty,oneof=admin user"`
}

// Seed is the document read by ImportSeed:
//
//	users:
//	  - username: admin
//	    password: change-me
//	    role: admin
type Seed struct {
	Users []SeedUser `yaml:"users" validate:"required,min=1,dive"`
}

// PasswordHasher turns a plain password into a storable hash.
type PasswordHasher interface {
	Hash(secret string) (string, error)
}

// UserCreator is the part of Users that ImportSeed needs.
type UserCreator interface {
	Create(ctx context.Context, user *User) error
}

// ImportResult reports which seed users were inserted and which already
// existed.
type ImportResult struct {
	Created []string
	Skipped []string
}

var (
	seedValidatorOnce sync.Once
	seedValidator     *validator.Validate
)

func seedValidatorInstance() *validator.Validate {
	seedValidatorOnce.Do(func() {
		seedValidator = validator.New()
	})
	return seedValidator
}

// ParseSeed decodes and validates a seed document. source names the input
// in errors.
func ParseSeed(source string, data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, apperrors.NewParseError(source, 0, err)
	}

	if err := seedValidatorInstance().Struct(seed); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, apperrors.NewValidationError(seedFieldPath(fe.Namespace()), describeTag(fe), err)
		}
		return nil, apperrors.NewValidationError("", err.Error(), err)
	}

	seen := make(map[string]int, len(seed.Users))
	for i := range seed.Users {
		seed.Users[i].Username = strings.TrimSpace(seed.Users[i].Username)
		name := seed.Users[i].Username
		if name == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("users[%d].username", i), "must not be blank", nil)
		}
		if first, dup := seen[name]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("users[%d].username", i),
				fmt.Sprintf("duplicates users[%d]", first), nil)
		}
		seen[name] = i
	}
	return &seed, nil
}

// LoadSeed reads and parses the seed file at path.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewParseError(path, 0, err)
	}
	return ParseSeed(path, data)
}

// ImportSeed loads the seed file at path and creates every user in it.
// Usernames that already exist are skipped, not overwritten.
func ImportSeed(ctx context.Context, path string, users UserCreator, hasher PasswordHasher) (ImportResult, error) {
	seed, err := LoadSeed(path)
	if err != nil {
		return ImportResult{}, err
	}
	return Import(ctx, seed, users, hasher)
}

// Import creates the users of an already parsed seed.
func Import(ctx context.Context, seed *Seed, users UserCreator, hasher PasswordHasher) (ImportResult, error) {
	var result ImportResult
	for _, su := range seed.Users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		hash, err := hasher.Hash(su.Password)
		if err != nil {
			return result, fmt.Errorf("hash password for %s: %w", su.Username, err)
		}

		user := &User{Username: su.Username, PasswordHash: hash, Role: auth.Role(su.Role)}
		switch err := users.Create(ctx, user); {
		case errors.Is(err, ErrDuplicateUser):
			result.Skipped = append(result.Skipped, su.Username)
		case err != nil:
			return result, err
		default:
			result.Created = append(result.Created, su.Username)
		}
	}
	return result, nil
}

// seedFieldPath turns "Seed.Users[1].Role" into "users[1].role".
func seedFieldPath(namespace string) string {
	namespace = strings.TrimPrefix(namespace, "Seed.")
	return strings.ToLower(namespace)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must contain at least " + fe.Param() + " entry"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
