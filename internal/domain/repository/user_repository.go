package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by Insert when the email is already taken.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// Insert assigns ID and timestamps on u.
	Insert(ctx context.Context, u *entity.User) error
	UpdateSettings(ctx context.Context, id string, settings entity.UserSettings) error
}
