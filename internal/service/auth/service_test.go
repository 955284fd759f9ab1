package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret-key-for-jwt"
	testPassword = "password123"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	roster := memory.NewRosterRepository([]employee.Employee{
		{ID: "e-1", EmployeeCode: "EMP001", FullName: "Alice", Email: "alice@example.com", Department: "Engineering", Role: employee.RoleEmployee, PasswordHash: &hashed},
		{ID: "m-1", EmployeeCode: "MGR001", FullName: "Maya", Email: "maya@example.com", Department: "Management", Role: employee.RoleManager, PasswordHash: &hashed},
		{ID: "e-2", EmployeeCode: "EMP002", FullName: "Bob", Email: "bob@example.com", Department: "Sales", Role: employee.RoleEmployee},
	})
	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour)
	return NewAuthService(roster, jwtService), jwtService
}

func claimsOf(t *testing.T, svc jwt.Service, token string) map[string]interface{} {
	t.Helper()
	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	return claims
}

func TestLogin(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	t.Run("by employee code", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Identifier: "EMP001", Password: testPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "EMP001", resp.Employee.EmployeeCode)

		claims := claimsOf(t, jwtService, resp.AccessToken)
		assert.Equal(t, "e-1", claims["employee_id"])
		assert.Equal(t, "employee", claims["role"])
	})

	t.Run("by email", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Identifier: "maya@example.com", Password: testPassword})
		require.NoError(t, err)
		assert.Equal(t, "manager", claimsOf(t, jwtService, resp.AccessToken)["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "EMP001", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "EMP999", Password: testPassword})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("no password on roster", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "EMP002", Password: testPassword})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "not a code", Password: ""})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
	})
}

func TestRefreshToken(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Identifier: "EMP001", Password: testPassword})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "e-1", claimsOf(t, jwtService, refreshed.AccessToken)["employee_id"])

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestLogout(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Identifier: "EMP001", Password: testPassword})
	require.NoError(t, err)

	err = svc.Logout(ctx, auth.LogoutRequest{
		AccessToken:          login.AccessToken,
		AccessTokenExpiresAt: login.AccessTokenExpiresIn,
		RefreshToken:         login.RefreshToken,
	})
	require.NoError(t, err)

	assert.True(t, jwtService.IsTokenRevoked(login.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(login.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	assert.ErrorIs(t, svc.Logout(ctx, auth.LogoutRequest{}), auth.ErrInvalidToken)
}
