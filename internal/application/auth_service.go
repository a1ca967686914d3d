package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	TokenVerifier
	GenerateAccessToken(userID string) (string, time.Time, error)
	GenerateRefreshToken(userID string) (string, time.Time, error)
}

const TokenTypeBearer = "bearer"

// PublicUser is the client-facing projection of a user.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPublicUser(u *entity.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Timezone:  u.Timezone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Timezone string
}

type AuthService struct {
	Users            UserStore
	Hasher           PasswordHasher
	Tokens           TokenIssuer
	EnforceTokenType bool
	Logger           *logrus.Logger

	// dummyHash is verified against when the email is unknown so both login
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, enforceTokenType bool, logger *logrus.Logger) *AuthService {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		panic(fmt.Sprintf("auth: hashing the login timing placeholder failed: %v", err))
	}
	return &AuthService{
		Users:            users,
		Hasher:           hasher,
		Tokens:           tokens,
		EnforceTokenType: enforceTokenType,
		Logger:           logger,
		dummyHash:        dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (PublicUser, error) {
	existing, err := s.Users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return PublicUser{}, err
	}
	if existing != nil {
		return PublicUser{}, ErrEmailAlreadyRegistered
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return PublicUser{}, err
	}
	tz := in.Timezone
	if tz == "" {
		tz = entity.DefaultTimezone
	}
	u := &entity.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Timezone:     tz,
		IsActive:     true,
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return PublicUser{}, ErrEmailAlreadyRegistered
		}
		return PublicUser{}, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return NewPublicUser(u), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, err
		}
		s.Hasher.Verify(password, s.dummyHash)
		return TokenPair{}, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, _, err := s.Tokens.GenerateAccessToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	refresh, _, err := s.Tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate refresh token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: TokenTypeBearer}, nil
}

// Refresh issues a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AccessToken, error) {
	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		return AccessToken{}, ErrInvalidRefreshToken
	}
	if s.EnforceTokenType && !claims.IsRefresh() {
		return AccessToken{}, ErrInvalidRefreshToken
	}
	u, err := s.Users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AccessToken{}, ErrInvalidRefreshToken
		}
		return AccessToken{}, err
	}
	access, _, err := s.Tokens.GenerateAccessToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return AccessToken{}, err
	}
	return AccessToken{AccessToken: access, TokenType: TokenTypeBearer}, nil
}

func (s *AuthService) Me(u *entity.User) PublicUser {
	return NewPublicUser(u)
}
