package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// total_hours is read as text so the NUMERIC value reaches decimal without a float.
const recordColumns = `id, employee_id, day, check_in, check_out, status, total_hours::text, created_at, updated_at`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns a record store on PostgreSQL. Days are
// stored as DATE and read back as midnight in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.RecordRepository {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceRepository{db: db, loc: loc}
}

// CheckIn implements attendance.RecordRepository.
func (a *attendanceRepository) CheckIn(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	// The conflict branch only fires for a record without a check-in, so an
	// existing check-in produces no row.
	query := `
		INSERT INTO attendances (id, employee_id, day, check_in, status, total_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)
		ON CONFLICT (employee_id, day) DO UPDATE
		SET check_in = EXCLUDED.check_in,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
		WHERE attendances.check_in IS NULL
		RETURNING ` + recordColumns

	row := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		dateOnly(rec.Day),
		rec.CheckIn,
		string(rec.Status),
		rec.CreatedAt,
	)

	saved, err := a.scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		if pgErrCode(err) == pgForeignKeyViolation {
			return attendance.Record{}, employee.ErrEmployeeNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to check in: %w", err)
	}

	return saved, nil
}

// CheckOut implements attendance.RecordRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, employeeID string, day time.Time, mutate func(*attendance.Record) error) (attendance.Record, error) {
	var result attendance.Record

	err := WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, a.db)

		query := `SELECT ` + recordColumns + `
			FROM attendances
			WHERE employee_id = $1 AND day = $2
			FOR UPDATE`

		rec, err := a.scanRecord(q.QueryRow(txCtx, query, employeeID, dateOnly(day)))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrNoCheckInFound
			}
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		if err := mutate(&rec); err != nil {
			return err
		}

		update := `
			UPDATE attendances
			SET check_out = $1, status = $2, total_hours = $3, updated_at = $4
			WHERE id = $5`
		if _, err := q.Exec(txCtx, update,
			rec.CheckOut,
			string(rec.Status),
			rec.TotalHours.StringFixed(2),
			rec.UpdatedAt,
			rec.ID,
		); err != nil {
			if pgErrCode(err) == pgCheckViolation {
				return attendance.ErrCheckOutBeforeCheckIn
			}
			return fmt.Errorf("failed to check out: %w", err)
		}

		result = rec
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}

	return result, nil
}

// GetForDay implements attendance.RecordRepository.
func (a *attendanceRepository) GetForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendances
		WHERE employee_id = $1 AND day = $2`

	rec, err := a.scanRecord(q.QueryRow(ctx, query, employeeID, dateOnly(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for day: %w", err)
	}

	return &rec, nil
}

// Find implements attendance.RecordRepository.
func (a *attendanceRepository) Find(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if len(filter.EmployeeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("employee_id = ANY($%d)", argIdx))
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("day >= $%d", argIdx))
		args = append(args, dateOnly(*filter.From))
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("day <= $%d", argIdx))
		args = append(args, dateOnly(*filter.To))
		argIdx++
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + recordColumns + ` FROM attendances`)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	if filter.Ascending {
		sb.WriteString(" ORDER BY day ASC, employee_id ASC")
	} else {
		sb.WriteString(" ORDER BY day DESC, employee_id ASC")
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := a.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

func (a *attendanceRepository) scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec        attendance.Record
		day        time.Time
		status     string
		totalHours string
	)

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &day, &rec.CheckIn, &rec.CheckOut,
		&status, &totalHours, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	hours, err := decimal.NewFromString(totalHours)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("invalid total_hours %q: %w", totalHours, err)
	}

	rec.Day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, a.loc)
	rec.Status = attendance.Status(status)
	rec.TotalHours = hours
	if rec.CheckIn != nil {
		in := rec.CheckIn.In(a.loc)
		rec.CheckIn = &in
	}
	if rec.CheckOut != nil {
		out := rec.CheckOut.In(a.loc)
		rec.CheckOut = &out
	}

	return rec, nil
}

// dateOnly strips the location so pgx encodes the calendar date of t as seen
// in t's own zone.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
