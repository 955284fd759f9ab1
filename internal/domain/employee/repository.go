package employee

import "context"

// RosterRepository is the read-only view of the roster used by the attendance core.
type RosterRepository interface {
	// ListRoster returns every employee, or only those with the given role.
	// Results are ordered by employee code.
	ListRoster(ctx context.Context, role *Role) ([]Employee, error)

	// GetByID returns ErrEmployeeNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByCode returns ErrEmployeeNotFound for an unknown employee code.
	GetByCode(ctx context.Context, code string) (Employee, error)

	// GetByEmail returns ErrEmployeeNotFound for an unknown email.
	GetByEmail(ctx context.Context, email string) (Employee, error)
}
