package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// rosterRepository is immutable after construction.
type rosterRepository struct {
	employees []employee.Employee
}

// NewRosterRepository serves a fixed roster, e.g. a synthetic one in tests.
func NewRosterRepository(employees []employee.Employee) employee.RosterRepository {
	sorted := slices.Clone(employees)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EmployeeCode < sorted[j].EmployeeCode
	})
	return &rosterRepository{employees: sorted}
}

// ListRoster implements employee.RosterRepository.
func (r *rosterRepository) ListRoster(ctx context.Context, role *employee.Role) ([]employee.Employee, error) {
	result := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if role != nil && e.Role != *role {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// GetByID implements employee.RosterRepository.
func (r *rosterRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return e.ID == id })
}

// GetByCode implements employee.RosterRepository.
func (r *rosterRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return e.EmployeeCode == code })
}

// GetByEmail implements employee.RosterRepository.
func (r *rosterRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return strings.EqualFold(e.Email, email) })
}

func (r *rosterRepository) find(match func(employee.Employee) bool) (employee.Employee, error) {
	for _, e := range r.employees {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type rosterFile struct {
	Employees []rosterEntry `yaml:"employees"`
}

type rosterEntry struct {
	ID           string `yaml:"id"`
	EmployeeCode string `yaml:"employee_code"`
	FullName     string `yaml:"full_name"`
	Email        string `yaml:"email"`
	Department   string `yaml:"department"`
	Role         string `yaml:"role"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

// LoadRoster reads a YAML roster file. Plain passwords are hashed with bcrypt on load.
func LoadRoster(path string) (employee.RosterRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	employees, err := ParseRoster(data)
	if err != nil {
		return nil, err
	}
	return NewRosterRepository(employees), nil
}

// ParseRoster decodes and validates roster YAML.
func ParseRoster(data []byte) ([]employee.Employee, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}

	seenID := make(map[string]bool)
	seenCode := make(map[string]bool)
	employees := make([]employee.Employee, 0, len(file.Employees))
	now := time.Now()

	for i, entry := range file.Employees {
		if entry.ID == "" || entry.EmployeeCode == "" {
			return nil, fmt.Errorf("roster entry %d: id and employee_code are required", i)
		}
		if seenID[entry.ID] || seenCode[entry.EmployeeCode] {
			return nil, fmt.Errorf("roster entry %d: duplicate id or employee_code %q", i, entry.EmployeeCode)
		}
		seenID[entry.ID] = true
		seenCode[entry.EmployeeCode] = true

		role := employee.Role(entry.Role)
		if role == "" {
			role = employee.RoleEmployee
		}
		if !role.IsValid() {
			return nil, fmt.Errorf("roster entry %d: %w %q", i, employee.ErrInvalidRole, entry.Role)
		}

		var hash *string
		switch {
		case entry.PasswordHash != "":
			h := entry.PasswordHash
			hash = &h
		case entry.Password != "":
			hashed, err := bcrypt.GenerateFromPassword([]byte(entry.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("roster entry %d: hash password: %w", i, err)
			}
			h := string(hashed)
			hash = &h
		}

		employees = append(employees, employee.Employee{
			ID:           entry.ID,
			EmployeeCode: entry.EmployeeCode,
			FullName:     entry.FullName,
			Email:        entry.Email,
			Department:   entry.Department,
			Role:         role,
			PasswordHash: hash,
			CreatedAt:    now,
		})
	}

	return employees, nil
}
