package hour

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type HourRequestRepository interface {
	Create(ctx context.Context, request HourRequest) (HourRequest, error)
	Update(ctx context.Context, request HourRequest) (HourRequest, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (HourRequest, error)
	// GetByIDForUpdate locks the request row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (HourRequest, error)
	GetByUserID(ctx context.Context, userID string) ([]HourRequest, error)
	GetByStatus(ctx context.Context, status Status) ([]HourRequest, error)
	// FindByUserIDAndDate returns any request of the user on date regardless of status.
	FindByUserIDAndDate(ctx context.Context, userID string, date time.Time) ([]HourRequest, error)
	// FindApprovedOn returns approved requests on date belonging to non-admin users.
	FindApprovedOn(ctx context.Context, date time.Time) ([]HourRequest, error)
	FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]HourRequest, error)
	// UpdateStatus moves a pending request to status. It returns
	// ErrHourRequestAlreadyProcessed when the row is no longer pending.
	UpdateStatus(ctx context.Context, id string, status Status) error
	// ApproveWithTransaction sets the user's monthly hour balance to newBalance
	// and marks the request approved as one atomic unit.
	ApproveWithTransaction(ctx context.Context, requestID, userID string, newBalance decimal.Decimal) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
