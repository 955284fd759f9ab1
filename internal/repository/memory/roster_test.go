package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const rosterYAML = `
employees:
  - id: e-2
    employee_code: EMP002
    full_name: Bob Builder
    email: bob@example.com
    department: Sales
    password: secret123
  - id: e-1
    employee_code: EMP001
    full_name: Alice Smith
    email: alice@example.com
    department: Engineering
    role: employee
  - id: m-1
    employee_code: MGR001
    full_name: Maya Manager
    email: maya@example.com
    department: Management
    role: manager
`

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rosterYAML), 0o600))

	roster, err := LoadRoster(path)
	require.NoError(t, err)
	ctx := context.Background()

	all, err := roster.ListRoster(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "EMP001", all[0].EmployeeCode)
	assert.Equal(t, "MGR001", all[2].EmployeeCode)

	role := employee.RoleEmployee
	employees, err := roster.ListRoster(ctx, &role)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	bob, err := roster.GetByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, employee.RoleEmployee, bob.Role)
	require.NotNil(t, bob.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*bob.PasswordHash), []byte("secret123")))

	alice, err := roster.GetByCode(ctx, "EMP001")
	require.NoError(t, err)
	assert.Nil(t, alice.PasswordHash)

	_, err = roster.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestLoadRoster_MissingFile(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRoster_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "employees: [",
		"missing code":   "employees:\n  - id: e-1\n",
		"duplicate code": "employees:\n  - {id: e-1, employee_code: EMP001}\n  - {id: e-2, employee_code: EMP001}\n",
		"unknown role":   "employees:\n  - {id: e-1, employee_code: EMP001, role: admin}\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoster([]byte(data))
			assert.Error(t, err)
		})
	}
}
