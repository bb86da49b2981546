package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/storage"
	attendanceService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/attendance"
	authService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/auth"
	fileService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/file"
	hourService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/hour"
	leaveService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/leave"
	statsService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/stats"
	userService "github.com/cmlabs-hris/leave-attendance-backend/internal/service/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/testutil/memstore"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret  = "test-secret-key-for-jwt"
	handlerTestBaseURL = "http://api.example.com/uploads"
)

// Monday 2 June 2025
var handlerTestNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

type capturedEmail struct {
	to, link string
}

type capturingMailer struct {
	sent []capturedEmail
}

func (m *capturingMailer) SendPasswordSetup(to, name, setupLink, expiresAt string) error {
	m.sent = append(m.sent, capturedEmail{to: to, link: setupLink})
	return nil
}

type testServer struct {
	t       *testing.T
	router  *chi.Mux
	store   *memstore.Store
	jwt     jwt.Service
	mailer  *capturingMailer
	uploads string
	admin   user.User
	alice   user.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	c := clock.Fixed(handlerTestNow)
	store := memstore.New(c)
	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, "1h")
	require.NoError(t, err)

	leaveSvc := leaveService.NewLeaveService(store.Transactor(), store.Leaves(), store.Users(),
		leaveService.NewRequestValidator(store.Leaves(), c))
	hourSvc := hourService.NewHourService(store.Transactor(), store.Hours(), store.Users(),
		hourService.NewRequestValidator(store.Hours(), c), c)
	attendanceSvc := attendanceService.NewAttendanceService(store.Attendance(), c,
		attendanceService.NewLeaveProcessor(store.Leaves(), store.Attendance()),
		attendanceService.NewPermissionProcessor(store.Hours(), store.Attendance()),
		attendanceService.NewDefaultProcessor(store.Users(), store.Attendance()),
	)

	uploads := t.TempDir()
	localStorage, err := storage.NewLocalStorage(uploads, handlerTestBaseURL)
	require.NoError(t, err)
	mailer := &capturingMailer{}
	passwordSvc := authService.NewPasswordService(store.Users(), jwtSvc, mailer, "http://app.example.com")
	userSvc := userService.NewUserService(store.Users(), store.Departments(),
		fileService.NewFileService(localStorage), passwordSvc, c)

	opts := RouterOptions{AllowedOrigins: []string{"*"}, Env: "test", UploadsDir: uploads}
	router := NewRouter(opts, jwtSvc, Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(store.Users(), jwtSvc)),
		Password:   NewPasswordHandler(passwordSvc),
		User:       NewUserHandler(userSvc),
		Leave:      NewLeaveHandler(leaveSvc),
		Hour:       NewHourHandler(hourSvc),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Stats:      NewStatsHandler(statsService.NewStatsService(store.Leaves(), store.Hours())),
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	s := &testServer{t: t, router: router, store: store, jwt: jwtSvc, mailer: mailer, uploads: uploads}
	s.admin = store.AddUser(user.User{
		Name:         "HR Admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	})
	s.alice = store.AddUser(user.User{
		Name:               "Alice",
		Email:              "alice@example.com",
		PasswordHash:       string(hash),
		AnnualLeaveBalance: decimal.NewFromInt(21),
		MonthlyHourBalance: decimal.NewFromInt(3),
		HiringDate:         time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	return s
}

func (s *testServer) tokenFor(u user.User) string {
	token, _, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestRouter_Login_Success(t *testing.T) {
	// Setup
	s := newTestServer(t)

	// Act
	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "Alice@Example.com",
		"password": "password123",
	})

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var token struct {
		AccessToken string            `json:"access_token"`
		User        user.UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &token))
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, s.alice.ID, token.User.ID)

	// The issued token opens authenticated routes.
	rec, _ = s.do(http.MethodGet, "/api/v1/leave-requests/me", token.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Login_Failures(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", env.Error.Message)

	rec, env = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", env.Error.Message)

	rec, env = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")
}

func TestRouter_Authorization(t *testing.T) {
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)
	adminToken := s.tokenFor(s.admin)
	foreign, err := jwt.NewJWTService("another-secret", "1h")
	require.NoError(t, err)
	forged, _, err := foreign.GenerateAccessToken(s.admin.ID, s.admin.Email, user.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/leave-requests/me", "", http.StatusUnauthorized},
		{"forged token", http.MethodGet, "/api/v1/leave-requests/pending", forged, http.StatusUnauthorized},
		{"user on admin route", http.MethodGet, "/api/v1/leave-requests/pending", userToken, http.StatusForbidden},
		{"user lists users", http.MethodGet, "/api/v1/users", userToken, http.StatusForbidden},
		{"admin submits leave", http.MethodPost, "/api/v1/leave-requests", adminToken, http.StatusForbidden},
		{"admin updates own profile", http.MethodPut, "/api/v1/users/me", adminToken, http.StatusForbidden},
		{"departments for any role", http.MethodGet, "/api/v1/users/departments", userToken, http.StatusOK},
		{"admin stats", http.MethodGet, "/api/v1/stats/requests", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_LeaveLifecycle(t *testing.T) {
	// Setup
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)
	adminToken := s.tokenFor(s.admin)

	// Act: submit Sunday 8 June to Thursday 12 June
	rec, env := s.do(http.MethodPost, "/api/v1/leave-requests", userToken, map[string]string{
		"start_date": "2025-06-08",
		"end_date":   "2025-06-12",
	})

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 5, created.RequestedDays)
	assert.Equal(t, string(leave.StatusPending), created.Status)

	rec, env = s.do(http.MethodGet, "/api/v1/leave-requests/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "Alice", pending[0].UserName)

	rec, _ = s.do(http.MethodPatch, "/api/v1/leave-requests/"+created.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodPatch, "/api/v1/leave-requests/"+created.ID+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request has already been processed", env.Error.Message)

	rec, env = s.do(http.MethodGet, "/api/v1/users/"+s.alice.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "16", profile.AnnualLeaveBalance.String())

	rec, _ = s.do(http.MethodDelete, "/api/v1/leave-requests/"+created.ID, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LeaveErrors(t *testing.T) {
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)
	adminToken := s.tokenFor(s.admin)

	rec, env := s.do(http.MethodPost, "/api/v1/leave-requests", userToken, map[string]string{
		"start_date": "2025-06-12",
		"end_date":   "2025-06-08",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "end_date")

	rec, _ = s.do(http.MethodPost, "/api/v1/leave-requests", userToken, map[string]string{
		"start_date": "2025-05-26",
		"end_date":   "2025-05-27",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPatch, "/api/v1/leave-requests/does-not-exist/approve", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Leave request not found", env.Error.Message)

	other := s.store.AddLeave(leave.LeaveRequest{
		UserID:        s.admin.ID,
		StartDate:     time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		RequestedDays: 1,
	})
	rec, _ = s.do(http.MethodDelete, "/api/v1/leave-requests/"+other.ID, userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_MalformedPathIDs(t *testing.T) {
	// Setup
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)
	adminToken := s.tokenFor(s.admin)

	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		body    any
		message string
	}{
		{"approve leave", http.MethodPatch, "/api/v1/leave-requests/abc/approve", adminToken, nil, "Leave request not found"},
		{"reject leave", http.MethodPatch, "/api/v1/leave-requests/123/reject", adminToken, nil, "Leave request not found"},
		{"update own leave", http.MethodPut, "/api/v1/leave-requests/abc", userToken, map[string]string{"reason": "trip"}, "Leave request not found"},
		{"delete own leave", http.MethodDelete, "/api/v1/leave-requests/abc", userToken, nil, "Leave request not found"},
		{"approve hour", http.MethodPatch, "/api/v1/hour-requests/abc/approve", adminToken, nil, "Hour request not found"},
		{"delete own hour", http.MethodDelete, "/api/v1/hour-requests/not-a-uuid", userToken, nil, "Hour request not found"},
		{"get user", http.MethodGet, "/api/v1/users/abc", adminToken, nil, "User not found"},
		{"user history", http.MethodGet, "/api/v1/users/abc/requests", adminToken, nil, "User not found"},
		{"leave balance", http.MethodPatch, "/api/v1/users/abc/leave-balance", adminToken, map[string]any{"amount": 3}, "User not found"},
		{"delete user", http.MethodDelete, "/api/v1/users/abc", adminToken, nil, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec, env := s.do(tt.method, tt.path, tt.token, tt.body)

			// Assert
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestRouter_HourLifecycle(t *testing.T) {
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)
	adminToken := s.tokenFor(s.admin)

	rec, env := s.do(http.MethodPost, "/api/v1/hour-requests", userToken, map[string]any{
		"date":            "2025-06-03",
		"requested_hours": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created hour.HourRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = s.do(http.MethodPost, "/api/v1/hour-requests", userToken, map[string]any{
		"date":            "2025-06-03",
		"requested_hours": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Hour request already exists for this date", env.Error.Message)

	rec, _ = s.do(http.MethodPut, "/api/v1/hour-requests/"+created.ID, userToken, map[string]any{"requested_hours": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(http.MethodPatch, "/api/v1/hour-requests/"+created.ID+"/reject", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	h, ok := s.store.Hour(created.ID)
	require.True(t, ok)
	assert.Equal(t, hour.StatusRejected, h.Status)
	assert.Equal(t, 3, h.RequestedHours)
}

func TestRouter_Attendance(t *testing.T) {
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)
	adminToken := s.tokenFor(s.admin)

	rec, _ := s.do(http.MethodGet, "/api/v1/attendance/me", userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/v1/attendance/process", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var run attendance.RunResultResponse
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, "2025-06-02", run.Date)
	assert.False(t, run.Skipped)
	assert.Equal(t, 1, run.Processed)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/me", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Equal(t, string(attendance.StatusPresent), mine.Status)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/daily?page=1&limit=5", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.TotalItems)
	assert.Equal(t, 1, env.Meta.TotalPages)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/daily?limit=101", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "limit")
}

func TestRouter_Users(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.tokenFor(s.admin)
	dept := s.store.AddDepartment("Engineering")

	rec, env := s.do(http.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"name":          "Bob",
		"email":         "bob@example.com",
		"password":      "password123",
		"department_id": dept.ID,
		"hiring_date":   "2021-03-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var bob user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &bob))
	assert.Equal(t, "21", bob.AnnualLeaveBalance.String())

	rec, _ = s.do(http.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"name":        "Bob Again",
		"email":       "BOB@example.com",
		"password":    "password123",
		"hiring_date": "2021-03-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/users?page=1&limit=1", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), env.Meta.TotalItems)
	assert.Equal(t, 2, env.Meta.TotalPages)

	rec, _ = s.do(http.MethodGet, "/api/v1/users/email/bob@example.com", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPatch, "/api/v1/users/"+bob.ID+"/hour-balance", adminToken, map[string]any{"amount": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, _ := s.store.User(bob.ID)
	assert.Equal(t, "5", stored.MonthlyHourBalance.String())

	rec, _ = s.do(http.MethodPatch, "/api/v1/users/"+bob.ID+"/leave-balance", adminToken, map[string]any{"amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/users/"+bob.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/v1/users/"+bob.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UpdateMeAndChangePassword(t *testing.T) {
	s := newTestServer(t)
	userToken := s.tokenFor(s.alice)

	rec, env := s.do(http.MethodPut, "/api/v1/users/me", userToken, map[string]any{"name": "Alice Smith"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Alice Smith", me.Name)

	rec, _ = s.do(http.MethodPatch, "/api/v1/auth/change-password", userToken, map[string]string{
		"current_password": "password123",
		"new_password":     "password456",
		"confirm_password": "password456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
