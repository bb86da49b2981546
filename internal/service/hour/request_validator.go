package hour

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

type RequestValidator struct {
	hourRequestRepo hour.HourRequestRepository
	clock           clock.Clock
}

func NewRequestValidator(hourRequestRepo hour.HourRequestRepository, c clock.Clock) *RequestValidator {
	return &RequestValidator{
		hourRequestRepo: hourRequestRepo,
		clock:           c,
	}
}

// ValidateRequestDate rejects past dates and dates on which the user already
// has a request other than excludeID.
func (v *RequestValidator) ValidateRequestDate(ctx context.Context, userID string, date time.Time, excludeID string) error {
	date = workday.Date(date)
	if date.Before(workday.Today(v.clock)) {
		return hour.ErrPastDate
	}

	existing, err := v.hourRequestRepo.FindByUserIDAndDate(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("failed to find hour requests for date: %w", err)
	}
	for _, r := range existing {
		if excludeID == "" || r.ID != excludeID {
			return hour.ErrDuplicateDate
		}
	}

	return nil
}

func (v *RequestValidator) ValidateHourBalance(requestedHours int, balance decimal.Decimal) error {
	if requestedHours <= 0 {
		return hour.ErrInvalidRequestedHours
	}
	if decimal.NewFromInt(int64(requestedHours)).GreaterThan(balance) {
		return hour.ErrInsufficientBalance
	}
	return nil
}
