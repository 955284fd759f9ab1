package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid employee code, email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrForbiddenRole       = errors.New("insufficient role for this operation")
)
