package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", tokenResponse)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshReq auth.RefreshTokenRequest

	if err := json.NewDecoder(r.Body).Decode(&refreshReq); err != nil {
		slog.Error("RefreshToken decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	accessToken, err := a.authService.RefreshToken(r.Context(), refreshReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, accessToken)
}

// Logout implements AuthHandler. It runs behind the JWT verifier, so the
// access token in the header is already known to be valid.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var logoutReq auth.LogoutRequest

	// The body is optional; it may carry a refresh token to revoke as well.
	if err := json.NewDecoder(r.Body).Decode(&logoutReq); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Logout decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	logoutReq.AccessToken = jwtauth.TokenFromHeader(r)
	logoutReq.AccessTokenExpiresAt = token.Expiration().Unix()

	if err := a.authService.Logout(r.Context(), logoutReq); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout successful", nil)
}
