package auth

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Identifier string `json:"identifier"` // employee code or email
	Password   string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Identifier = strings.TrimSpace(r.Identifier)

	if validator.IsEmpty(r.Identifier) {
		errs = append(errs, validator.ValidationError{
			Field:   "identifier",
			Message: "identifier is required",
		})
	} else if !r.IsEmail() && !validator.IsValidEmployeeCode(r.Identifier) {
		errs = append(errs, validator.ValidationError{
			Field:   "identifier",
			Message: "identifier must be an email address or an employee code such as EMP001",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}
	if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsEmail reports whether the identifier should be looked up by email.
func (r *LoginRequest) IsEmail() bool {
	return strings.Contains(r.Identifier, "@") && validator.IsValidEmail(r.Identifier)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	if validator.IsEmpty(r.RefreshToken) {
		return validator.ValidationErrors{{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		}}
	}
	return nil
}

// LogoutRequest carries the tokens to revoke. The access token comes from
// the Authorization header, the refresh token is optional.
type LogoutRequest struct {
	AccessToken          string `json:"-"`
	AccessTokenExpiresAt int64  `json:"-"`
	RefreshToken         string `json:"refresh_token,omitempty"`
}

type TokenResponse struct {
	AccessToken           string                    `json:"access_token"`
	AccessTokenExpiresIn  int64                     `json:"access_token_expires_in"`
	RefreshToken          string                    `json:"refresh_token"`
	RefreshTokenExpiresIn int64                     `json:"refresh_token_expires_in"`
	Employee              employee.EmployeeResponse `json:"employee"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
