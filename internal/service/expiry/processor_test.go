package expiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func setupSweep(t *testing.T) (*PendingRequestProcessor, *memstore.Store, user.User) {
	t.Helper()
	c := clock.Fixed(testNow)
	store := memstore.New(c)
	u := store.AddUser(user.User{Name: "Jane", Email: "jane@example.com"})
	return NewPendingRequestProcessor(store.Leaves(), store.Hours(), c, 0), store, u
}

func TestPendingRequestProcessor_RejectsOnlyExpired(t *testing.T) {
	// Setup
	p, store, u := setupSweep(t)
	date := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	oldHour := store.AddHour(hour.HourRequest{UserID: u.ID, Date: date, RequestedHours: 1, CreatedAt: testNow.Add(-49 * time.Hour)})
	freshHour := store.AddHour(hour.HourRequest{UserID: u.ID, Date: date.AddDate(0, 0, 1), RequestedHours: 1, CreatedAt: testNow.Add(-47 * time.Hour)})
	oldLeave := store.AddLeave(leave.LeaveRequest{UserID: u.ID, StartDate: date, EndDate: date, RequestedDays: 1, CreatedAt: testNow.Add(-72 * time.Hour)})
	approvedLeave := store.AddLeave(leave.LeaveRequest{UserID: u.ID, StartDate: date.AddDate(0, 0, 3), EndDate: date.AddDate(0, 0, 3), RequestedDays: 1, Status: leave.StatusApproved, CreatedAt: testNow.Add(-72 * time.Hour)})

	// Act
	result, err := p.ProcessPendingRequests(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, KindResult{Found: 1, Rejected: 1}, result.Hour)
	assert.Equal(t, KindResult{Found: 1, Rejected: 1}, result.Leave)
	assert.True(t, result.Cutoff.Equal(testNow.Add(-48*time.Hour)))

	h, _ := store.Hour(oldHour.ID)
	assert.Equal(t, hour.StatusRejected, h.Status)
	h, _ = store.Hour(freshHour.ID)
	assert.Equal(t, hour.StatusPending, h.Status)
	l, _ := store.Leave(oldLeave.ID)
	assert.Equal(t, leave.StatusRejected, l.Status)
	l, _ = store.Leave(approvedLeave.ID)
	assert.Equal(t, leave.StatusApproved, l.Status)
}

func TestPendingRequestProcessor_ContinuesAfterRowFailure(t *testing.T) {
	// Setup
	p, store, u := setupSweep(t)
	created := testNow.Add(-50 * time.Hour)
	failing := store.AddHour(hour.HourRequest{UserID: u.ID, Date: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), RequestedHours: 1, CreatedAt: created})
	next := store.AddHour(hour.HourRequest{UserID: u.ID, Date: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), RequestedHours: 1, CreatedAt: created.Add(time.Minute)})
	l := store.AddLeave(leave.LeaveRequest{UserID: u.ID, StartDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), RequestedDays: 1, CreatedAt: created})
	store.FailWith("hour.UpdateStatus", failing.ID, errors.New("deadlock detected"))

	// Act
	result, err := p.ProcessPendingRequests(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, KindResult{Found: 2, Rejected: 1, Failed: 1}, result.Hour)
	assert.Equal(t, 1, result.Leave.Rejected)

	h, _ := store.Hour(failing.ID)
	assert.Equal(t, hour.StatusPending, h.Status)
	h, _ = store.Hour(next.ID)
	assert.Equal(t, hour.StatusRejected, h.Status)
	got, _ := store.Leave(l.ID)
	assert.Equal(t, leave.StatusRejected, got.Status)
}

func TestPendingRequestProcessor_RerunIsNoop(t *testing.T) {
	p, store, u := setupSweep(t)
	store.AddHour(hour.HourRequest{UserID: u.ID, Date: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), RequestedHours: 1, CreatedAt: testNow.Add(-49 * time.Hour)})

	_, err := p.ProcessPendingRequests(context.Background())
	require.NoError(t, err)
	result, err := p.ProcessPendingRequests(context.Background())

	require.NoError(t, err)
	assert.Zero(t, result.Hour.Found)
}

func TestNewPendingRequestProcessor_CustomMaxAge(t *testing.T) {
	c := clock.Fixed(testNow)
	store := memstore.New(c)
	u := store.AddUser(user.User{Name: "Jane", Email: "jane@example.com"})
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), RequestedHours: 1, CreatedAt: testNow.Add(-2 * time.Hour)})

	_, err := NewPendingRequestProcessor(store.Leaves(), store.Hours(), c, time.Hour).ProcessPendingRequests(context.Background())

	require.NoError(t, err)
	h, _ := store.Hour(r.ID)
	assert.Equal(t, hour.StatusRejected, h.Status)
}
