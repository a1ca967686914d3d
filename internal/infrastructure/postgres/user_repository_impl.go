package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
)

// userRecord mirrors a users row. It never leaves this package.
type userRecord struct {
	ID             string
	Email          string
	HashedPassword string
	Name           string
	Timezone       string
	IsActive       bool
	IsVerified     bool
	Settings       []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *userRecord) toEntity() (*entity.User, error) {
	u := &entity.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.HashedPassword,
		Name:         r.Name,
		Timezone:     r.Timezone,
		IsActive:     r.IsActive,
		IsVerified:   r.IsVerified,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Settings) > 0 {
		if err := json.Unmarshal(r.Settings, &u.Settings); err != nil {
			return nil, fmt.Errorf("decode settings for user %s: %w", r.ID, err)
		}
	}
	return u, nil
}

const userColumns = `id::text, email, hashed_password, name, timezone, is_active, is_verified, settings, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	var rec userRecord
	if err := row.Scan(&rec.ID, &rec.Email, &rec.HashedPassword, &rec.Name, &rec.Timezone,
		&rec.IsActive, &rec.IsVerified, &rec.Settings, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec.toEntity()
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	settings, err := json.Marshal(u.Settings)
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, hashed_password, name, timezone, is_active, is_verified, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.PasswordHash, u.Name, u.Timezone, u.IsActive, u.IsVerified, settings)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateSettings(ctx context.Context, id string, settings entity.UserSettings) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, `UPDATE users SET settings = $1, updated_at = now() WHERE id = $2`, b, id)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
