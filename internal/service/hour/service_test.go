package hour

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/testutil/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2 June 2025, 09:00 UTC.
var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func setupHourService(t *testing.T, balance string) (hour.HourService, *memstore.Store, user.User) {
	t.Helper()
	c := clock.Fixed(testNow)
	store := memstore.New(c)
	u := store.AddUser(user.User{
		Name:               "Jane Doe",
		Email:              "jane@example.com",
		AnnualLeaveBalance: decimal.NewFromInt(21),
		MonthlyHourBalance: decimal.RequireFromString(balance),
	})
	svc := NewHourService(store.Transactor(), store.Hours(), store.Users(), NewRequestValidator(store.Hours(), c), c)
	return svc, store, u
}

func TestHourService_Submit_Success(t *testing.T) {
	// Setup
	svc, _, u := setupHourService(t, "3")

	// Act
	created, err := svc.SubmitHourRequest(context.Background(), u.ID, hour.SubmitHourRequest{Date: "2025-06-03", RequestedHours: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, hour.StatusPending, created.Status)
	assert.Equal(t, 2, created.RequestedHours)
	assert.True(t, created.Date.Equal(day(3)))
}

func TestHourService_Submit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		date    string
		hours   int
		wantErr error
	}{
		{"past date", "3", "2025-06-01", 1, hour.ErrPastDate},
		{"insufficient balance", "1.5", "2025-06-03", 2, hour.ErrInsufficientBalance},
		{"zero hours", "3", "2025-06-03", 0, hour.ErrInvalidRequestedHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, u := setupHourService(t, tt.balance)

			_, err := svc.SubmitHourRequest(context.Background(), u.ID, hour.SubmitHourRequest{Date: tt.date, RequestedHours: tt.hours})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestHourService_Submit_DuplicateDate(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1, Status: hour.StatusRejected})

	_, err := svc.SubmitHourRequest(context.Background(), u.ID, hour.SubmitHourRequest{Date: "2025-06-03", RequestedHours: 1})

	assert.ErrorIs(t, err, hour.ErrDuplicateDate)
}

func TestHourService_Approve_RoundsBalance(t *testing.T) {
	// Setup
	svc, store, u := setupHourService(t, "2.755")
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1})

	// Act
	approved, err := svc.ApproveHourRequest(context.Background(), r.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, hour.StatusApproved, approved.Status)
	stored, _ := store.User(u.ID)
	assert.Equal(t, "1.76", stored.MonthlyHourBalance.String())

	_, err = svc.ApproveHourRequest(context.Background(), r.ID)
	assert.ErrorIs(t, err, hour.ErrHourRequestAlreadyProcessed)
}

func TestHourService_Approve_RevalidatesBalance(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 3})
	require.NoError(t, store.Users().UpdateMonthlyHourBalance(context.Background(), u.ID, decimal.NewFromInt(2)))

	_, err := svc.ApproveHourRequest(context.Background(), r.ID)

	assert.ErrorIs(t, err, hour.ErrInsufficientBalance)
	stored, _ := store.Hour(r.ID)
	assert.Equal(t, hour.StatusPending, stored.Status)
}

func TestHourService_Approve_ConcurrentSameRequest(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1})

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApproveHourRequest(context.Background(), r.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	stored, _ := store.User(u.ID)
	assert.Equal(t, "2", stored.MonthlyHourBalance.String())
}

func TestHourService_Reject(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 2})

	rejected, err := svc.RejectHourRequest(context.Background(), r.ID)

	require.NoError(t, err)
	assert.Equal(t, hour.StatusRejected, rejected.Status)
	stored, _ := store.User(u.ID)
	assert.Equal(t, "3", stored.MonthlyHourBalance.String())

	_, err = svc.RejectHourRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, hour.ErrHourRequestNotFound)
}

func TestHourService_UpdateOwn_SameDateSkipsDuplicateCheck(t *testing.T) {
	// Setup
	svc, store, u := setupHourService(t, "3")
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1})
	hours := 3

	// Act
	updated, err := svc.UpdateOwnHourRequest(context.Background(), u.ID, r.ID, hour.UpdateHourRequest{RequestedHours: &hours})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, updated.RequestedHours)
	assert.True(t, updated.Date.Equal(day(3)))
}

func TestHourService_UpdateOwn_MoveDate(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	r := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1})
	store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(5), RequestedHours: 1})

	taken := "2025-06-05"
	_, err := svc.UpdateOwnHourRequest(context.Background(), u.ID, r.ID, hour.UpdateHourRequest{Date: &taken})
	assert.ErrorIs(t, err, hour.ErrDuplicateDate)

	free := "2025-06-04"
	updated, err := svc.UpdateOwnHourRequest(context.Background(), u.ID, r.ID, hour.UpdateHourRequest{Date: &free})
	require.NoError(t, err)
	assert.True(t, updated.Date.Equal(day(4)))

	past := "2025-05-30"
	_, err = svc.UpdateOwnHourRequest(context.Background(), u.ID, r.ID, hour.UpdateHourRequest{Date: &past})
	assert.ErrorIs(t, err, hour.ErrPastDate)
}

func TestHourService_UpdateOwn_Preconditions(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	other := store.AddUser(user.User{Name: "John", Email: "john@example.com", MonthlyHourBalance: decimal.NewFromInt(3)})
	approved := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1, Status: hour.StatusApproved})
	hours := 2

	_, err := svc.UpdateOwnHourRequest(context.Background(), other.ID, approved.ID, hour.UpdateHourRequest{RequestedHours: &hours})
	assert.ErrorIs(t, err, hour.ErrNotRequestOwner)

	_, err = svc.UpdateOwnHourRequest(context.Background(), u.ID, approved.ID, hour.UpdateHourRequest{RequestedHours: &hours})
	assert.ErrorIs(t, err, hour.ErrHourRequestNotPending)
}

func TestHourService_DeleteOwn(t *testing.T) {
	svc, store, u := setupHourService(t, "3")
	other := store.AddUser(user.User{Name: "John", Email: "john@example.com"})
	future := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(3), RequestedHours: 1})
	past := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(1), RequestedHours: 1})
	approved := store.AddHour(hour.HourRequest{UserID: u.ID, Date: day(4), RequestedHours: 1, Status: hour.StatusApproved})

	assert.ErrorIs(t, svc.DeleteOwnHourRequest(context.Background(), u.ID, "missing"), hour.ErrHourRequestNotFound)
	assert.ErrorIs(t, svc.DeleteOwnHourRequest(context.Background(), other.ID, future.ID), hour.ErrNotRequestOwner)
	assert.ErrorIs(t, svc.DeleteOwnHourRequest(context.Background(), u.ID, approved.ID), hour.ErrHourRequestNotPending)
	assert.ErrorIs(t, svc.DeleteOwnHourRequest(context.Background(), u.ID, past.ID), hour.ErrDeletePastRequest)

	require.NoError(t, svc.DeleteOwnHourRequest(context.Background(), u.ID, future.ID))
	_, ok := store.Hour(future.ID)
	assert.False(t, ok)
}
