package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeRefresh marks refresh tokens. Access tokens carry no type claim.
const TokenTypeRefresh = "refresh"

// ErrInvalidToken is matched by every error returned from JWTManager.Verify.
var ErrInvalidToken = errors.New("invalid token")

// InvalidReason is a coarse classification of a rejected token. It is meant
// for logs, not for clients.
type InvalidReason string

const (
	ReasonMalformed InvalidReason = "malformed"
	ReasonSignature InvalidReason = "signature"
	ReasonExpired   InvalidReason = "expired"
	ReasonClaims    InvalidReason = "claims"
)

// InvalidTokenError is the only error shape Verify returns. The underlying
// library error is intentionally dropped.
type InvalidTokenError struct {
	Reason InvalidReason
}

func (e *InvalidTokenError) Error() string { return "invalid token: " + string(e.Reason) }

func (e *InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

// Claims is the signed payload of both access and refresh tokens.
type Claims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the token was issued as a refresh token.
func (c *Claims) IsRefresh() bool { return c.Type == TokenTypeRefresh }

// JWTManager signs and verifies tokens with one HMAC secret shared by both token classes.
type JWTManager struct {
	secret     []byte
	method     jwt.SigningMethod
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	now        func() time.Time
}

func NewJWTManager(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	return &JWTManager{
		secret:     []byte(secret),
		method:     method,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Issue signs a token for subject that expires ttl from now. tokenType is
// omitted from the claims when empty. The returned expiry is the signed one.
func (m *JWTManager) Issue(subject string, ttl time.Duration, tokenType string) (string, time.Time, error) {
	now := m.now()
	exp := signedExpiry(now, ttl)
	claims := &Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// signedExpiry truncates now+ttl to the whole seconds a NumericDate carries.
// A positive ttl always yields an expiry strictly after now.
func signedExpiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl).Truncate(jwt.TimePrecision)
	if ttl > 0 && !exp.After(now) {
		exp = exp.Add(jwt.TimePrecision)
	}
	return exp
}

func (m *JWTManager) GenerateAccessToken(userID string) (string, time.Time, error) {
	return m.Issue(userID, m.AccessTTL, "")
}

func (m *JWTManager) GenerateRefreshToken(userID string) (string, time.Time, error) {
	return m.Issue(userID, m.RefreshTTL, TokenTypeRefresh)
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, &InvalidTokenError{Reason: classify(err)}
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, &InvalidTokenError{Reason: ReasonClaims}
	}
	return claims, nil
}

func classify(err error) InvalidReason {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	default:
		return ReasonClaims
	}
}
