package employee

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Records their own attendance
	RoleManager  Role = "manager"  // Reads organization-wide attendance
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleManager
}

// Employee is roster reference data. The attendance core never mutates it.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	Department   string
	Role         Role
	PasswordHash *string
	CreatedAt    time.Time
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	EmployeeID string
	Role       Role
}

// IsManager checks if the caller may read organization-wide data
func (i Identity) IsManager() bool {
	return i.Role == RoleManager
}
