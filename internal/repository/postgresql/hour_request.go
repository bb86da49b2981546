package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const hourRequestSelect = `
	SELECT hr.id, hr.user_id, hr.date, hr.requested_hours, hr.status,
		   hr.created_at, hr.updated_at, u.name, u.email, d.name
	FROM hour_requests hr
	INNER JOIN users u ON u.id = hr.user_id
	LEFT JOIN departments d ON d.id = u.department_id`

type hourRequestRepositoryImpl struct {
	db *database.DB
}

func NewHourRequestRepository(db *database.DB) hour.HourRequestRepository {
	return &hourRequestRepositoryImpl{db: db}
}

func scanHourRequest(row pgx.Row) (hour.HourRequest, error) {
	var hr hour.HourRequest
	err := row.Scan(
		&hr.ID,
		&hr.UserID,
		&hr.Date,
		&hr.RequestedHours,
		&hr.Status,
		&hr.CreatedAt,
		&hr.UpdatedAt,
		&hr.UserName,
		&hr.UserEmail,
		&hr.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hour.HourRequest{}, hour.ErrHourRequestNotFound
		}
		return hour.HourRequest{}, err
	}
	return hr, nil
}

func (r *hourRequestRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]hour.HourRequest, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, hourRequestSelect+" WHERE "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []hour.HourRequest{}
	for rows.Next() {
		hr, err := scanHourRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, hr)
	}
	return requests, rows.Err()
}

// Create implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) Create(ctx context.Context, request hour.HourRequest) (hour.HourRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return hour.HourRequest{}, fmt.Errorf("generate hour request id: %w", err)
	}

	query := `
		INSERT INTO hour_requests (id, user_id, date, requested_hours, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err = q.Exec(ctx, query, id.String(), request.UserID, request.Date, request.RequestedHours, request.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return hour.HourRequest{}, hour.ErrDuplicateDate
		}
		return hour.HourRequest{}, err
	}

	return r.GetByID(ctx, id.String())
}

// Update implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) Update(ctx context.Context, request hour.HourRequest) (hour.HourRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE hour_requests
		SET date = $1, requested_hours = $2, updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, request.Date, request.RequestedHours, request.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return hour.HourRequest{}, hour.ErrDuplicateDate
		}
		return hour.HourRequest{}, err
	}
	if tag.RowsAffected() == 0 {
		return hour.HourRequest{}, hour.ErrHourRequestNotFound
	}
	return r.GetByID(ctx, request.ID)
}

// Delete implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM hour_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return hour.ErrHourRequestNotFound
	}
	return nil
}

// GetByID implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) GetByID(ctx context.Context, id string) (hour.HourRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanHourRequest(q.QueryRow(ctx, hourRequestSelect+" WHERE hr.id = $1", id))
}

// GetByIDForUpdate implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (hour.HourRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanHourRequest(q.QueryRow(ctx, hourRequestSelect+" WHERE hr.id = $1 FOR UPDATE OF hr", id))
}

// GetByUserID implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]hour.HourRequest, error) {
	return r.list(ctx, "hr.user_id = $1 ORDER BY hr.date DESC", userID)
}

// GetByStatus implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) GetByStatus(ctx context.Context, status hour.Status) ([]hour.HourRequest, error) {
	return r.list(ctx, "hr.status = $1 ORDER BY hr.created_at ASC", status)
}

// FindByUserIDAndDate implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) FindByUserIDAndDate(ctx context.Context, userID string, date time.Time) ([]hour.HourRequest, error) {
	return r.list(ctx, "hr.user_id = $1 AND hr.date = $2", userID, date)
}

// FindApprovedOn implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) FindApprovedOn(ctx context.Context, date time.Time) ([]hour.HourRequest, error) {
	return r.list(ctx, "hr.status = 'approved' AND hr.date = $1 AND u.role <> 'admin'", date)
}

// FindPendingCreatedBefore implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]hour.HourRequest, error) {
	return r.list(ctx, "hr.status = 'pending' AND hr.created_at < $1 ORDER BY hr.created_at ASC", cutoff)
}

// UpdateStatus implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status hour.Status) error {
	return hourStatusTransition(ctx, GetQuerier(ctx, r.db), id, status)
}

func hourStatusTransition(ctx context.Context, q database.Querier, id string, status hour.Status) error {
	tag, err := q.Exec(ctx, `
		UPDATE hour_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM hour_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return hour.ErrHourRequestNotFound
		}
		return hour.ErrHourRequestAlreadyProcessed
	}
	return nil
}

// ApproveWithTransaction implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) ApproveWithTransaction(ctx context.Context, requestID, userID string, newBalance decimal.Decimal) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		tag, err := q.Exec(ctx, `UPDATE users SET monthly_hour_balance = $1, updated_at = NOW() WHERE id = $2`, newBalance, userID)
		if err != nil {
			return fmt.Errorf("update monthly hour balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}

		return hourStatusTransition(ctx, q, requestID, hour.StatusApproved)
	})
}

// CountByStatus implements hour.HourRequestRepository.
func (r *hourRequestRepositoryImpl) CountByStatus(ctx context.Context, status hour.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM hour_requests WHERE status = $1`, status).Scan(&total)
	return total, err
}
