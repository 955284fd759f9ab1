package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

// RequireRole admits only callers whose token carries exactly role, and
// stores the caller's identity in the request context.
func RequireRole(role employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			employeeID, ok := claims["employee_id"].(string)
			if !ok || employeeID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok || employee.Role(roleStr) != role {
				response.HandleError(w, auth.ErrForbiddenRole)
				return
			}

			identity := employee.Identity{EmployeeID: employeeID, Role: role}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func RequireEmployee(next http.Handler) http.Handler {
	return RequireRole(employee.RoleEmployee)(next)
}

func RequireManager(next http.Handler) http.Handler {
	return RequireRole(employee.RoleManager)(next)
}

func WithIdentity(ctx context.Context, identity employee.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller stored by RequireRole.
func IdentityFrom(ctx context.Context) (employee.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(employee.Identity)
	return identity, ok
}
