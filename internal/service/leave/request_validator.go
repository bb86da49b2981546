package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

// RequestValidator holds the date and balance rules shared by submit and update.
type RequestValidator struct {
	leaveRequestRepo leave.LeaveRequestRepository
	clock            clock.Clock
}

func NewRequestValidator(leaveRequestRepo leave.LeaveRequestRepository, c clock.Clock) *RequestValidator {
	return &RequestValidator{
		leaveRequestRepo: leaveRequestRepo,
		clock:            c,
	}
}

// ValidateRequestDates rejects reversed ranges, ranges starting before today and
// ranges intersecting the user's pending or approved requests. excludeID skips
// the request being edited.
func (v *RequestValidator) ValidateRequestDates(ctx context.Context, userID string, start, end time.Time, excludeID string) error {
	start, end = workday.Date(start), workday.Date(end)

	if start.After(end) {
		return leave.ErrInvalidDateRange
	}
	if start.Before(workday.Today(v.clock)) {
		return leave.ErrPastDate
	}

	overlapping, err := v.leaveRequestRepo.FindOverlapping(ctx, userID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to find overlapping leave requests: %w", err)
	}
	if len(overlapping) > 0 {
		return leave.ErrOverlappingRequest
	}

	return nil
}

func (v *RequestValidator) ValidateLeaveBalance(requestedDays int, balance decimal.Decimal) error {
	if requestedDays <= 0 {
		return leave.ErrNoBusinessDays
	}
	if decimal.NewFromInt(int64(requestedDays)).GreaterThan(balance) {
		return leave.ErrInsufficientBalance
	}
	return nil
}
