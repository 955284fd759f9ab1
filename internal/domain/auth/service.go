package auth

import (
	"context"
)

type AuthService interface {
	// Login accepts an employee code or an email as identifier
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
}
