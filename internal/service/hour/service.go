package hour

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

type hourServiceImpl struct {
	db              database.Transactor
	hourRequestRepo hour.HourRequestRepository
	userRepo        user.UserRepository
	validator       *RequestValidator
	clock           clock.Clock
}

func NewHourService(
	db database.Transactor,
	hourRequestRepo hour.HourRequestRepository,
	userRepo user.UserRepository,
	validator *RequestValidator,
	c clock.Clock,
) hour.HourService {
	return &hourServiceImpl{
		db:              db,
		hourRequestRepo: hourRequestRepo,
		userRepo:        userRepo,
		validator:       validator,
		clock:           c,
	}
}

// SubmitHourRequest implements hour.HourService.
func (s *hourServiceImpl) SubmitHourRequest(ctx context.Context, userID string, req hour.SubmitHourRequest) (hour.HourRequest, error) {
	date := req.ParsedDate()
	hours := req.RequestedHours

	date, hours, err := s.prepare(ctx, userID, &date, &hours, nil)
	if err != nil {
		return hour.HourRequest{}, err
	}

	created, err := s.hourRequestRepo.Create(ctx, hour.HourRequest{
		UserID:         userID,
		Date:           date,
		RequestedHours: hours,
		Status:         hour.StatusPending,
	})
	if err != nil {
		return hour.HourRequest{}, fmt.Errorf("failed to create hour request: %w", err)
	}
	return created, nil
}

// prepare resolves the effective date and hours from the payload, falling back
// to existing when updating. The date rules are re-checked only when the date
// changes, so an update never collides with its own row. Balance is always re-checked.
func (s *hourServiceImpl) prepare(ctx context.Context, userID string, date *time.Time, hours *int, existing *hour.HourRequest) (time.Time, int, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("failed to get user: %w", err)
	}

	var finalDate time.Time
	var finalHours int
	excludeID := ""
	if existing != nil {
		finalDate, finalHours, excludeID = existing.Date, existing.RequestedHours, existing.ID
	}
	if date != nil {
		finalDate = workday.Date(*date)
	}
	if hours != nil {
		finalHours = *hours
	}

	if existing == nil || !finalDate.Equal(existing.Date) {
		if err := s.validator.ValidateRequestDate(ctx, userID, finalDate, excludeID); err != nil {
			return time.Time{}, 0, err
		}
	}
	if err := s.validator.ValidateHourBalance(finalHours, u.MonthlyHourBalance); err != nil {
		return time.Time{}, 0, err
	}

	return finalDate, finalHours, nil
}

// ApproveHourRequest implements hour.HourService.
func (s *hourServiceImpl) ApproveHourRequest(ctx context.Context, requestID string) (hour.HourRequest, error) {
	var approved hour.HourRequest

	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.hourRequestRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get hour request: %w", err)
		}
		if !request.IsPending() {
			return hour.ErrHourRequestAlreadyProcessed
		}

		u, err := s.userRepo.GetByIDForUpdate(ctx, request.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if err := s.validator.ValidateHourBalance(request.RequestedHours, u.MonthlyHourBalance); err != nil {
			return err
		}

		newBalance := u.MonthlyHourBalance.Sub(decimal.NewFromInt(int64(request.RequestedHours))).Round(2)
		if err := s.hourRequestRepo.ApproveWithTransaction(ctx, request.ID, u.ID, newBalance); err != nil {
			return fmt.Errorf("failed to approve hour request: %w", err)
		}

		request.Status = hour.StatusApproved
		approved = request
		return nil
	})
	if err != nil {
		return hour.HourRequest{}, err
	}

	slog.Info("Hour request approved", "request_id", approved.ID, "user_id", approved.UserID, "requested_hours", approved.RequestedHours)
	return approved, nil
}

// RejectHourRequest implements hour.HourService.
func (s *hourServiceImpl) RejectHourRequest(ctx context.Context, requestID string) (hour.HourRequest, error) {
	request, err := s.hourRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return hour.HourRequest{}, fmt.Errorf("failed to get hour request: %w", err)
	}
	if !request.IsPending() {
		return hour.HourRequest{}, hour.ErrHourRequestAlreadyProcessed
	}

	if err := s.hourRequestRepo.UpdateStatus(ctx, request.ID, hour.StatusRejected); err != nil {
		return hour.HourRequest{}, fmt.Errorf("failed to reject hour request: %w", err)
	}

	request.Status = hour.StatusRejected
	return request, nil
}

// UpdateOwnHourRequest implements hour.HourService.
func (s *hourServiceImpl) UpdateOwnHourRequest(ctx context.Context, userID, requestID string, req hour.UpdateHourRequest) (hour.HourRequest, error) {
	existing, err := s.getOwnPending(ctx, userID, requestID)
	if err != nil {
		return hour.HourRequest{}, err
	}

	var date *time.Time
	if req.Date != nil {
		d, _ := validator.IsValidDate(*req.Date)
		date = &d
	}

	finalDate, finalHours, err := s.prepare(ctx, userID, date, req.RequestedHours, &existing)
	if err != nil {
		return hour.HourRequest{}, err
	}

	existing.Date = finalDate
	existing.RequestedHours = finalHours
	updated, err := s.hourRequestRepo.Update(ctx, existing)
	if err != nil {
		return hour.HourRequest{}, fmt.Errorf("failed to update hour request: %w", err)
	}
	return updated, nil
}

// DeleteOwnHourRequest implements hour.HourService.
func (s *hourServiceImpl) DeleteOwnHourRequest(ctx context.Context, userID, requestID string) error {
	request, err := s.getOwnPending(ctx, userID, requestID)
	if err != nil {
		return err
	}
	if request.Date.Before(workday.Today(s.clock)) {
		return hour.ErrDeletePastRequest
	}

	if err := s.hourRequestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete hour request: %w", err)
	}
	return nil
}

// GetPendingRequests implements hour.HourService.
func (s *hourServiceImpl) GetPendingRequests(ctx context.Context) ([]hour.HourRequest, error) {
	requests, err := s.hourRequestRepo.GetByStatus(ctx, hour.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending hour requests: %w", err)
	}
	return requests, nil
}

// GetUserRequests implements hour.HourService.
func (s *hourServiceImpl) GetUserRequests(ctx context.Context, userID string) ([]hour.HourRequest, error) {
	requests, err := s.hourRequestRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user hour requests: %w", err)
	}
	return requests, nil
}

func (s *hourServiceImpl) getOwnPending(ctx context.Context, userID, requestID string) (hour.HourRequest, error) {
	request, err := s.hourRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return hour.HourRequest{}, fmt.Errorf("failed to get hour request: %w", err)
	}
	if request.UserID != userID {
		return hour.HourRequest{}, hour.ErrNotRequestOwner
	}
	if !request.IsPending() {
		return hour.HourRequest{}, hour.ErrHourRequestNotPending
	}
	return request, nil
}
