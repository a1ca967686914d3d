package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// UserStore is the narrow identity storage the auth core needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Insert(ctx context.Context, u *entity.User) error
}

// TokenVerifier decodes bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// IdentityResolver turns a bearer token into the user it names.
type IdentityResolver struct {
	Users  UserStore
	Tokens TokenVerifier
	// EnforceTokenType rejects refresh tokens presented as access tokens.
	EnforceTokenType bool
	Logger           *logrus.Logger
}

func NewIdentityResolver(users UserStore, tokens TokenVerifier, enforceTokenType bool, logger *logrus.Logger) *IdentityResolver {
	return &IdentityResolver{Users: users, Tokens: tokens, EnforceTokenType: enforceTokenType, Logger: logger}
}

// Resolve returns ErrInvalidToken or ErrUserNotFound on rejection. It does not
// check the active flag; see Authorize.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := r.Tokens.Verify(token)
	if err != nil {
		r.debug(err, "", "token rejected")
		return nil, ErrInvalidToken
	}
	if r.EnforceTokenType && claims.IsRefresh() {
		r.debug(nil, claims.Subject, "refresh token used as access token")
		return nil, ErrInvalidToken
	}
	u, err := r.Users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			r.debug(nil, claims.Subject, "token subject not found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Authorize gates a resolved identity on its active flag.
func Authorize(u *entity.User) error {
	if !u.IsActive {
		return ErrInactiveUser
	}
	return nil
}

func (r *IdentityResolver) debug(err error, subject, msg string) {
	if r.Logger == nil {
		return
	}
	e := r.Logger.WithField("component", "identity")
	if subject != "" {
		e = e.WithField("sub", subject)
	}
	if err != nil {
		e = e.WithError(err)
	}
	e.Debug(msg)
}
