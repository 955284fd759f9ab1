package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestPassword = "password123"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type testServer struct {
	router  http.Handler
	jwt     jwt.Service
	clock   *manualClock
	records attendance.RecordRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)

	roster := memory.NewRosterRepository([]employee.Employee{
		{ID: "e-1", EmployeeCode: "EMP001", FullName: "Alice", Email: "alice@example.com", Department: "Engineering", Role: employee.RoleEmployee, PasswordHash: &h},
		{ID: "e-2", EmployeeCode: "EMP002", FullName: "Bob", Email: "bob@example.com", Department: "Sales", Role: employee.RoleEmployee, PasswordHash: &h},
		{ID: "m-1", EmployeeCode: "MGR001", FullName: "Maya", Email: "maya@example.com", Department: "Management", Role: employee.RoleManager, PasswordHash: &h},
	})
	records := memory.NewAttendanceRepository()
	clock := &manualClock{t: time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)}
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour)

	router := NewRouter(jwtService, Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(roster, jwtService)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(records, roster, clock, attendance.DefaultPolicy())),
		Report:     NewReportHandler(reportService.NewReportService(records, roster, clock)),
	}, RouterOptions{Env: "test", Version: "test"})

	return &testServer{router: router, jwt: jwtService, clock: clock, records: records}
}

// tokenFor mints an access token directly, bypassing login.
func (s *testServer) tokenFor(t *testing.T, employeeID string, role employee.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
