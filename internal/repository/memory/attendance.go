package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
)

type recordKey struct {
	employeeID string
	day        string
}

func keyOf(employeeID string, day time.Time) recordKey {
	return recordKey{employeeID: employeeID, day: calendar.StartOfDay(day).Format(calendar.DateLayout)}
}

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[recordKey]attendance.Record
}

func NewAttendanceRepository() attendance.RecordRepository {
	return &attendanceRepository{records: make(map[recordKey]attendance.Record)}
}

// CheckIn implements attendance.RecordRepository.
func (a *attendanceRepository) CheckIn(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := keyOf(rec.EmployeeID, rec.Day)
	existing, ok := a.records[key]
	if ok {
		if existing.HasCheckedIn() {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckIn = rec.CheckIn
		existing.Status = rec.Status
		existing.UpdatedAt = rec.UpdatedAt
		a.records[key] = existing
		return clone(existing), nil
	}

	a.records[key] = clone(rec)
	return clone(rec), nil
}

// CheckOut implements attendance.RecordRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, employeeID string, day time.Time, mutate func(*attendance.Record) error) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := keyOf(employeeID, day)
	existing, ok := a.records[key]
	if !ok {
		return attendance.Record{}, attendance.ErrNoCheckInFound
	}

	working := clone(existing)
	if err := mutate(&working); err != nil {
		return attendance.Record{}, err
	}

	a.records[key] = working
	return clone(working), nil
}

// GetForDay implements attendance.RecordRepository.
func (a *attendanceRepository) GetForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	rec, ok := a.records[keyOf(employeeID, day)]
	if !ok {
		return nil, nil
	}
	found := clone(rec)
	return &found, nil
}

// Find implements attendance.RecordRepository.
func (a *attendanceRepository) Find(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var from, to time.Time
	if filter.From != nil {
		from = calendar.StartOfDay(*filter.From)
	}
	if filter.To != nil {
		to = calendar.StartOfDay(*filter.To)
	}

	a.mu.RLock()
	result := make([]attendance.Record, 0)
	for _, rec := range a.records {
		if len(filter.EmployeeIDs) > 0 && !slices.Contains(filter.EmployeeIDs, rec.EmployeeID) {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		day := calendar.StartOfDay(rec.Day)
		if filter.From != nil && day.Before(from) {
			continue
		}
		if filter.To != nil && day.After(to) {
			continue
		}
		result = append(result, clone(rec))
	}
	a.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		di, dj := result[i].Day, result[j].Day
		if !di.Equal(dj) {
			if filter.Ascending {
				return di.Before(dj)
			}
			return di.After(dj)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})

	return result, nil
}

// Put stores a record as-is, bypassing the check-in path. Used to load
// imported history such as explicit absences.
func (a *attendanceRepository) Put(rec attendance.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[keyOf(rec.EmployeeID, rec.Day)] = clone(rec)
}

// clone copies the pointer fields so callers never share state with the store.
func clone(r attendance.Record) attendance.Record {
	if r.CheckIn != nil {
		in := *r.CheckIn
		r.CheckIn = &in
	}
	if r.CheckOut != nil {
		out := *r.CheckOut
		r.CheckOut = &out
	}
	return r
}
