package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, employee_code, full_name, email, department, role, password_hash, created_at`

// EmployeeRepository is the roster stored in PostgreSQL.
type EmployeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ employee.RosterRepository = (*EmployeeRepository)(nil)

// ListRoster implements employee.RosterRepository.
func (e *EmployeeRepository) ListRoster(ctx context.Context, role *employee.Role) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []interface{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*role))
	}
	query += ` ORDER BY employee_code ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster: %w", err)
	}

	return employees, nil
}

// GetByID implements employee.RosterRepository.
func (e *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "id = $1", id)
}

// GetByCode implements employee.RosterRepository.
func (e *EmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return e.getOne(ctx, "employee_code = $1", code)
}

// GetByEmail implements employee.RosterRepository.
func (e *EmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// where is always a literal from this file.
func (e *EmployeeRepository) getOne(ctx context.Context, where, value string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + where

	emp, err := scanEmployee(q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee (%s): %w", where, err)
	}
	return emp, nil
}

// ImportRoster upserts employees by id inside a single transaction, so a
// roster file can be synced into the database at startup.
func (e *EmployeeRepository) ImportRoster(ctx context.Context, employees []employee.Employee) error {
	return WithTransaction(ctx, e.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, e.db)

		query := `
			INSERT INTO employees (` + employeeColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET employee_code = EXCLUDED.employee_code,
			    full_name = EXCLUDED.full_name,
			    email = EXCLUDED.email,
			    department = EXCLUDED.department,
			    role = EXCLUDED.role,
			    password_hash = COALESCE(EXCLUDED.password_hash, employees.password_hash)`

		for _, emp := range employees {
			if _, err := q.Exec(txCtx, query,
				emp.ID,
				emp.EmployeeCode,
				emp.FullName,
				emp.Email,
				emp.Department,
				string(emp.Role),
				emp.PasswordHash,
				emp.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to import employee %s: %w", emp.EmployeeCode, err)
			}
		}
		return nil
	})
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp  employee.Employee
		role string
	)
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
		&emp.Department, &role, &emp.PasswordHash, &emp.CreatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.Role = employee.Role(role)
	return emp, nil
}
