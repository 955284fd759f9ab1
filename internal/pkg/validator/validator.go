package validator

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	return slices.Contains(slice, value)
}

// Employee codes are an uppercase prefix followed by digits, e.g. EMP001 or MGR001.
var employeeCodeRegex = regexp.MustCompile(`^[A-Z]{2,5}\d{3,6}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// IsValidMonth reports whether m is a calendar month number.
func IsValidMonth(m int) bool {
	return m >= 1 && m <= 12
}

// IsValidYear bounds years to a four-digit range.
func IsValidYear(y int) bool {
	return y >= 1970 && y <= 9999
}

// ParseOptionalInt parses s when non-empty. ok is false on a malformed value.
func ParseOptionalInt(s string) (value *int, ok bool) {
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, false
	}
	return &n, true
}
