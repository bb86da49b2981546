package stats

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/stats"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_GetRequestStats(t *testing.T) {
	// Setup
	store := memstore.New(clock.Fixed(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)))
	u := store.AddUser(user.User{Name: "Jane", Email: "jane@example.com"})
	d := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	store.AddLeave(leave.LeaveRequest{UserID: u.ID, StartDate: d, EndDate: d, RequestedDays: 1})
	store.AddLeave(leave.LeaveRequest{UserID: u.ID, StartDate: d.AddDate(0, 0, 1), EndDate: d.AddDate(0, 0, 1), RequestedDays: 1})
	store.AddLeave(leave.LeaveRequest{UserID: u.ID, StartDate: d.AddDate(0, 0, 2), EndDate: d.AddDate(0, 0, 2), RequestedDays: 1, Status: leave.StatusApproved})
	store.AddHour(hour.HourRequest{UserID: u.ID, Date: d, RequestedHours: 1})
	svc := NewStatsService(store.Leaves(), store.Hours())

	// Act
	got, err := svc.GetRequestStats(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, stats.RequestStats{PendingLeaveRequests: 2, PendingHourRequests: 1}, got)
}
