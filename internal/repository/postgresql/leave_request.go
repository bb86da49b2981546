package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const leaveRequestSelect = `
	SELECT lr.id, lr.user_id, lr.start_date, lr.end_date, lr.requested_days, lr.status, lr.reason,
		   lr.created_at, lr.updated_at, u.name, u.email, d.name
	FROM leave_requests lr
	INNER JOIN users u ON u.id = lr.user_id
	LEFT JOIN departments d ON d.id = u.department_id`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.RequestedDays,
		&lr.Status,
		&lr.Reason,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.UserName,
		&lr.UserEmail,
		&lr.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, leaveRequestSelect+" WHERE "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("generate leave request id: %w", err)
	}

	query := `
		INSERT INTO leave_requests (
			id, user_id, start_date, end_date, requested_days, status, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err = q.Exec(ctx, query,
		id.String(),
		request.UserID,
		request.StartDate,
		request.EndDate,
		request.RequestedDays,
		request.Status,
		request.Reason,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return r.GetByID(ctx, id.String())
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET start_date = $1, end_date = $2, requested_days = $3, reason = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, request.StartDate, request.EndDate, request.RequestedDays, request.Reason, request.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.GetByID(ctx, request.ID)
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+" WHERE lr.id = $1", id))
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+" WHERE lr.id = $1 FOR UPDATE OF lr", id))
}

// GetByUserID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "lr.user_id = $1 ORDER BY lr.created_at DESC", userID)
}

// GetByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "lr.status = $1 ORDER BY lr.created_at ASC", status)
}

// FindOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	where := `lr.user_id = $1
		AND lr.status IN ('pending', 'approved')
		AND lr.start_date <= $3
		AND lr.end_date >= $2`
	args := []interface{}{userID, start, end}
	if excludeID != "" {
		where += " AND lr.id <> $4"
		args = append(args, excludeID)
	}
	return r.list(ctx, where, args...)
}

// FindApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "lr.status = 'approved' AND lr.start_date <= $1 AND lr.end_date >= $1", date)
}

// FindPendingCreatedBefore implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "lr.status = 'pending' AND lr.created_at < $1 ORDER BY lr.created_at ASC", cutoff)
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	q := GetQuerier(ctx, r.db)
	return leaveStatusTransition(ctx, q, id, status)
}

func leaveStatusTransition(ctx context.Context, q database.Querier, id string, status leave.Status) error {
	tag, err := q.Exec(ctx, `
		UPDATE leave_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return leave.ErrLeaveRequestNotFound
		}
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}

// ApproveWithTransaction implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ApproveWithTransaction(ctx context.Context, requestID, userID string, newBalance decimal.Decimal) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		tag, err := q.Exec(ctx, `UPDATE users SET annual_leave_balance = $1, updated_at = NOW() WHERE id = $2`, newBalance, userID)
		if err != nil {
			return fmt.Errorf("update annual leave balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}

		return leaveStatusTransition(ctx, q, requestID, leave.StatusApproved)
	})
}

// CountByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context, status leave.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = $1`, status).Scan(&total)
	return total, err
}
