package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/pagination"
)

// Processor claims users for date and records their attendance. Users already
// in processed are skipped; claimed users are added to it.
type Processor interface {
	Name() string
	Process(ctx context.Context, date time.Time, processed map[string]struct{}) error
}

type AttendanceService interface {
	ProcessDailyAttendance(ctx context.Context) (RunResult, error)
	GetCurrentAttendance(ctx context.Context, userID string) (Attendance, error)
	GetDailyStatus(ctx context.Context, page pagination.Params) ([]DailyStatus, int64, error)
}

// RunResult summarises one pass of the processor chain.
type RunResult struct {
	Date      time.Time
	Skipped   bool
	Processed int
}
