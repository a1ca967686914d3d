package helpers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("super-secret", "HS256", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return m
}

func requireInvalid(t *testing.T, err error, reason InvalidReason) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	var ite *InvalidTokenError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, reason, ite.Reason)
}

func TestNewJWTManager_RejectsBadConfig(t *testing.T) {
	_, err := NewJWTManager("s", "RS256", time.Minute, time.Hour)
	assert.Error(t, err)
	_, err = NewJWTManager("s", "none", time.Minute, time.Hour)
	assert.Error(t, err)
	_, err = NewJWTManager("", "HS256", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	tok, exp, err := m.Issue("user-123", time.Hour, "")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.False(t, claims.IsRefresh())
	assert.Empty(t, claims.Type)
}

func TestGenerateTokens_ClassMarker(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	access, aexp, err := m.GenerateAccessToken("u1")
	require.NoError(t, err)
	refresh, rexp, err := m.GenerateRefreshToken("u1")
	require.NoError(t, err)
	assert.True(t, rexp.After(aexp))

	ac, err := m.Verify(access)
	require.NoError(t, err)
	assert.False(t, ac.IsRefresh())

	rc, err := m.Verify(refresh)
	require.NoError(t, err)
	assert.True(t, rc.IsRefresh())
	assert.Equal(t, "u1", rc.Subject)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	for _, ttl := range []time.Duration{0, -time.Second, -time.Hour} {
		tok, _, err := m.Issue("u1", ttl, "")
		require.NoError(t, err)

		_, err = m.Verify(tok)
		requireInvalid(t, err, ReasonExpired)
	}
}

func TestVerify_ExpiresWhenClockPassesExp(t *testing.T) {
	m := newTestManager(t)
	base := time.Now()
	m.now = func() time.Time { return base }

	tok, exp, err := m.Issue("u1", 10*time.Second, "")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	require.NoError(t, err)

	m.now = func() time.Time { return exp.Add(time.Second) }
	_, err = m.Verify(tok)
	requireInvalid(t, err, ReasonExpired)
}

func TestIssue_SubSecondTTL(t *testing.T) {
	m := newTestManager(t)
	issuedAt := time.Date(2024, 5, 20, 12, 0, 20, 300*int(time.Millisecond), time.UTC)
	m.now = func() time.Time { return issuedAt }

	tok, exp, err := m.Issue("u1", 500*time.Millisecond, "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 20, 12, 0, 21, 0, time.UTC), exp)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp), "returned expiry must be the signed one")

	m.now = func() time.Time { return exp }
	_, err = m.Verify(tok)
	requireInvalid(t, err, ReasonExpired)
}

func TestSignedExpiry(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 20, 300*int(time.Millisecond), time.UTC)
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Time
	}{
		{"whole minutes", time.Minute, time.Date(2024, 5, 20, 12, 1, 20, 0, time.UTC)},
		{"crosses a second", 800 * time.Millisecond, time.Date(2024, 5, 20, 12, 0, 21, 0, time.UTC)},
		{"within the second", time.Millisecond, time.Date(2024, 5, 20, 12, 0, 21, 0, time.UTC)},
		{"zero", 0, time.Date(2024, 5, 20, 12, 0, 20, 0, time.UTC)},
		{"negative", -time.Hour, time.Date(2024, 5, 20, 11, 0, 20, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := signedExpiry(now, tt.ttl)
			assert.Equal(t, tt.want, got)
			if tt.ttl > 0 {
				assert.True(t, got.After(now))
			}
		})
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)
	tok, _, err := m.Issue("u1", time.Hour, "")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = m.Verify(tampered)
	requireInvalid(t, err, ReasonSignature)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)
	other, err := NewJWTManager("another-secret", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)

	tok, _, err := other.Issue("u1", time.Hour, "")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	requireInvalid(t, err, ReasonSignature)
}

func TestVerify_AlgorithmIsPinned(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)
	_, err = m.Verify(hs512)
	requireInvalid(t, err, ReasonSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(none)
	requireInvalid(t, err, ReasonSignature)
}

func TestVerify_MissingClaims(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"}).
		SignedString([]byte("super-secret"))
	require.NoError(t, err)
	_, err = m.Verify(noExp)
	requireInvalid(t, err, ReasonClaims)

	noSub, _, err := m.Issue("", time.Hour, "")
	require.NoError(t, err)
	_, err = m.Verify(noSub)
	requireInvalid(t, err, ReasonClaims)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b"} {
		_, err := m.Verify(tok)
		requireInvalid(t, err, ReasonMalformed)
	}
}

func TestInvalidTokenError_HidesCause(t *testing.T) {
	err := &InvalidTokenError{Reason: ReasonSignature}
	assert.Equal(t, "invalid token: signature", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
