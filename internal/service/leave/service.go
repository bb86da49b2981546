package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

type leaveServiceImpl struct {
	db               database.Transactor
	leaveRequestRepo leave.LeaveRequestRepository
	userRepo         user.UserRepository
	validator        *RequestValidator
}

func NewLeaveService(
	db database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	userRepo user.UserRepository,
	validator *RequestValidator,
) leave.LeaveService {
	return &leaveServiceImpl{
		db:               db,
		leaveRequestRepo: leaveRequestRepo,
		userRepo:         userRepo,
		validator:        validator,
	}
}

// SubmitLeaveRequest implements leave.LeaveService.
func (s *leaveServiceImpl) SubmitLeaveRequest(ctx context.Context, userID string, req leave.SubmitLeaveRequest) (leave.LeaveRequest, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get user: %w", err)
	}

	start, end := req.Dates()
	if err := s.validator.ValidateRequestDates(ctx, userID, start, end, ""); err != nil {
		return leave.LeaveRequest{}, err
	}

	requestedDays := workday.BusinessDays(start, end)
	if err := s.validator.ValidateLeaveBalance(requestedDays, u.AnnualLeaveBalance); err != nil {
		return leave.LeaveRequest{}, err
	}

	created, err := s.leaveRequestRepo.Create(ctx, leave.LeaveRequest{
		UserID:        userID,
		StartDate:     workday.Date(start),
		EndDate:       workday.Date(end),
		RequestedDays: requestedDays,
		Status:        leave.StatusPending,
		Reason:        req.Reason,
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

// ApproveLeaveRequest implements leave.LeaveService.
// The request and the user row are locked so concurrent approvals serialize
// and the balance is re-checked against its value at decision time.
func (s *leaveServiceImpl) ApproveLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	var approved leave.LeaveRequest

	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.leaveRequestRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		u, err := s.userRepo.GetByIDForUpdate(ctx, request.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if err := s.validator.ValidateLeaveBalance(request.RequestedDays, u.AnnualLeaveBalance); err != nil {
			return err
		}

		newBalance := u.AnnualLeaveBalance.Sub(decimal.NewFromInt(int64(request.RequestedDays)))
		if err := s.leaveRequestRepo.ApproveWithTransaction(ctx, request.ID, u.ID, newBalance); err != nil {
			return fmt.Errorf("failed to approve leave request: %w", err)
		}

		request.Status = leave.StatusApproved
		approved = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request approved", "request_id", approved.ID, "user_id", approved.UserID, "requested_days", approved.RequestedDays)
	return approved, nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *leaveServiceImpl) RejectLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	request, err := s.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	if err := s.leaveRequestRepo.UpdateStatus(ctx, request.ID, leave.StatusRejected); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to reject leave request: %w", err)
	}

	request.Status = leave.StatusRejected
	return request, nil
}

// UpdateOwnLeaveRequest implements leave.LeaveService.
func (s *leaveServiceImpl) UpdateOwnLeaveRequest(ctx context.Context, userID, requestID string, req leave.UpdateLeaveRequest) (leave.LeaveRequest, error) {
	existing, err := s.getOwnPending(ctx, userID, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	start, end := req.ResolveDates(existing)
	if err := s.validator.ValidateRequestDates(ctx, userID, start, end, requestID); err != nil {
		return leave.LeaveRequest{}, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get user: %w", err)
	}
	requestedDays := workday.BusinessDays(start, end)
	if err := s.validator.ValidateLeaveBalance(requestedDays, u.AnnualLeaveBalance); err != nil {
		return leave.LeaveRequest{}, err
	}

	existing.StartDate = workday.Date(start)
	existing.EndDate = workday.Date(end)
	existing.RequestedDays = requestedDays
	if req.Reason != nil {
		existing.Reason = req.Reason
	}

	updated, err := s.leaveRequestRepo.Update(ctx, existing)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return updated, nil
}

// DeleteOwnLeaveRequest implements leave.LeaveService.
func (s *leaveServiceImpl) DeleteOwnLeaveRequest(ctx context.Context, userID, requestID string) error {
	if _, err := s.getOwnPending(ctx, userID, requestID); err != nil {
		return err
	}
	if err := s.leaveRequestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// GetPendingRequests implements leave.LeaveService.
func (s *leaveServiceImpl) GetPendingRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	requests, err := s.leaveRequestRepo.GetByStatus(ctx, leave.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending leave requests: %w", err)
	}
	return requests, nil
}

// GetUserRequests implements leave.LeaveService.
func (s *leaveServiceImpl) GetUserRequests(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	requests, err := s.leaveRequestRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user leave requests: %w", err)
	}
	return requests, nil
}

func (s *leaveServiceImpl) getOwnPending(ctx context.Context, userID, requestID string) (leave.LeaveRequest, error) {
	request, err := s.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.UserID != userID {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotPending
	}
	return request, nil
}
