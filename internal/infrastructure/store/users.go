package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	apperrors "github.com/alexisbeaulieu97/signin/pkg/errors"
)

// User is a stored account. PasswordHash is a bcrypt hash and never leaves
// the process.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
}

// Principal returns the public view of the user.
func (u User) Principal() auth.Principal {
	return auth.Principal{Username: u.Username, Role: u.Role}
}

type userModel struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

func (m userModel) toUser() *User {
	return &User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         auth.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

// Users is the user repository.
type Users struct {
	db     bun.IDB
	logger ports.Logger
}

// FindByUsername returns the user with the exact username, or
// ErrUserNotFound.
func (u *Users) FindByUsername(ctx context.Context, username string) (*User, error) {
	var m userModel
	err := u.db.NewSelect().Model(&m).Where("username = ?", username).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("find user", err)
	}
	return m.toUser(), nil
}

// Create inserts user and sets its ID and CreatedAt. An empty role defaults
// to RoleUser.
func (u *Users) Create(ctx context.Context, user *User) error {
	if user == nil {
		return apperrors.NewValidationError("user", "must not be nil", nil)
	}
	username := strings.TrimSpace(user.Username)
	if username == "" {
		return apperrors.NewValidationError("username", "must not be blank", nil)
	}
	if user.PasswordHash == "" {
		return apperrors.NewValidationError("password_hash", "must not be empty", nil)
	}
	role := user.Role
	if role == "" {
		role = auth.RoleUser
	}
	if !role.Valid() {
		return apperrors.NewValidationError("role", "must be admin or user", nil)
	}

	m := &userModel{
		Username:     username,
		PasswordHash: user.PasswordHash,
		Role:         string(role),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := u.db.NewInsert().Model(m).
		Column("username", "password_hash", "role", "created_at").
		Returning("id").Exec(ctx); err != nil {
		if mapped := mapInsertError(err); errors.Is(mapped, ErrDuplicateUser) {
			return ErrDuplicateUser
		}
		return apperrors.NewStoreError("create user", err)
	}

	user.ID = m.ID
	user.Username = m.Username
	user.Role = role
	user.CreatedAt = m.CreatedAt
	if u.logger != nil {
		u.logger.Info(ctx, "user created", "username", m.Username, "role", m.Role)
	}
	return nil
}

// List returns every user ordered by username.
func (u *Users) List(ctx context.Context) ([]User, error) {
	var models []userModel
	if err := u.db.NewSelect().Model(&models).OrderExpr("username ASC").Scan(ctx); err != nil {
		return nil, apperrors.NewStoreError("list users", err)
	}
	out := make([]User, 0, len(models))
	for _, m := range models {
		out = append(out, *m.toUser())
	}
	return out, nil
}

// Count returns the number of stored users.
func (u *Users) Count(ctx context.Context) (int, error) {
	n, err := u.db.NewSelect().Model((*userModel)(nil)).Count(ctx)
	if err != nil {
		return 0, apperrors.NewStoreError("count users", err)
	}
	return n, nil
}

// Delete removes the user with username. It returns ErrUserNotFound when no
// such user exists.
func (u *Users) Delete(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	res, err := u.db.NewDelete().Model((*userModel)(nil)).Where("username = ?", username).Exec(ctx)
	if err != nil {
		return apperrors.NewStoreError("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("delete user", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	if u.logger != nil {
		u.logger.Info(ctx, "user deleted", "username", username)
	}
	return nil
}
