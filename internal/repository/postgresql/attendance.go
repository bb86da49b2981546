package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, userID string, date time.Time, status attendance.Status) error {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance (id, user_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`
	_, err = q.Exec(ctx, query, id.String(), userID, date, status)
	return err
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, status, created_at, updated_at
		FROM attendance
		WHERE user_id = $1 AND date = $2
	`
	var a attendance.Attendance
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return a, nil
}

// GetDailyStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetDailyStatus(ctx context.Context, date time.Time, limit, offset int) ([]attendance.DailyStatus, int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.email, d.name,
			   COALESCE(a.status, 'present') AS status,
			   hr.requested_hours::int,
			   lr.start_date, lr.end_date
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		LEFT JOIN attendance a ON a.user_id = u.id AND a.date = $1
		LEFT JOIN LATERAL (
			SELECT requested_hours FROM hour_requests
			WHERE user_id = u.id AND date = $1 AND status = 'approved'
			LIMIT 1
		) hr ON TRUE
		LEFT JOIN LATERAL (
			SELECT start_date, end_date FROM leave_requests
			WHERE user_id = u.id AND status = 'approved' AND start_date <= $1 AND end_date >= $1
			LIMIT 1
		) lr ON TRUE
		WHERE u.role <> 'admin'
		ORDER BY u.name, u.id
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, date, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []attendance.DailyStatus{}
	for rows.Next() {
		var s attendance.DailyStatus
		if err := rows.Scan(
			&s.UserID,
			&s.Name,
			&s.Email,
			&s.DepartmentName,
			&s.Status,
			&s.RequestedHours,
			&s.LeaveStart,
			&s.LeaveEnd,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role <> 'admin'`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
