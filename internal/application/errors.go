package application

import "errors"

var (
	// Unauthorized family. Handlers must not reveal which one occurred.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUserNotFound        = errors.New("user not found")
	ErrInactiveUser        = errors.New("inactive user")

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrNotFound               = errors.New("not found")
	ErrSessionAlreadyEnded    = errors.New("session already ended")

	ErrAIKeyMissing      = errors.New("openai api key not configured")
	ErrAIKeyInvalid      = errors.New("openai api key rejected")
	ErrAIRateLimited     = errors.New("ai provider rate limit exceeded")
	ErrAIUnavailable     = errors.New("ai provider unavailable")
	ErrExportUnavailable = errors.New("export storage not configured")
)
