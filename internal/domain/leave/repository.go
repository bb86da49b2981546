package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	Update(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the request row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	GetByUserID(ctx context.Context, userID string) ([]LeaveRequest, error)
	GetByStatus(ctx context.Context, status Status) ([]LeaveRequest, error)
	// FindOverlapping returns the user's pending or approved requests intersecting
	// [start, end]. excludeID, when not empty, is left out of the result.
	FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]LeaveRequest, error)
	FindApprovedCovering(ctx context.Context, date time.Time) ([]LeaveRequest, error)
	FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error)
	// UpdateStatus moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the row is no longer pending.
	UpdateStatus(ctx context.Context, id string, status Status) error
	// ApproveWithTransaction sets the user's annual leave balance to newBalance
	// and marks the request approved as one atomic unit.
	ApproveWithTransaction(ctx context.Context, requestID, userID string, newBalance decimal.Decimal) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
