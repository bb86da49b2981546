package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert writes status for (userID, date), replacing any existing row.
	Upsert(ctx context.Context, userID string, date time.Time, status Status) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)
	// GetDailyStatus lists non-admin users by name with their attendance, approved
	// hours and approved leave on date. Users without a row report StatusPresent.
	GetDailyStatus(ctx context.Context, date time.Time, limit, offset int) ([]DailyStatus, int64, error)
}
