package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/workday"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	processors     []attendance.Processor
	clock          clock.Clock
}

// NewAttendanceService runs processors in the given order. Earlier processors
// take precedence: a user claimed by one is skipped by the rest.
func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, c clock.Clock, processors ...attendance.Processor) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		processors:     processors,
		clock:          c,
	}
}

// ProcessDailyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ProcessDailyAttendance(ctx context.Context) (attendance.RunResult, error) {
	today := workday.Today(s.clock)
	result := attendance.RunResult{Date: today}

	if workday.IsWeekend(today) {
		slog.Info("Skipping attendance processing on weekend", "date", today.Format("2006-01-02"))
		result.Skipped = true
		return result, nil
	}

	processed := make(map[string]struct{})
	for _, p := range s.processors {
		before := len(processed)
		if err := p.Process(ctx, today, processed); err != nil {
			return result, fmt.Errorf("attendance processor %s failed: %w", p.Name(), err)
		}
		slog.Info("Attendance processor finished", "processor", p.Name(), "date", today.Format("2006-01-02"), "recorded", len(processed)-before)
	}

	result.Processed = len(processed)
	return result, nil
}

// GetCurrentAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCurrentAttendance(ctx context.Context, userID string) (attendance.Attendance, error) {
	a, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, workday.Today(s.clock))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get current attendance: %w", err)
	}
	return a, nil
}

// GetDailyStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDailyStatus(ctx context.Context, page pagination.Params) ([]attendance.DailyStatus, int64, error) {
	items, total, err := s.attendanceRepo.GetDailyStatus(ctx, workday.Today(s.clock), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get daily attendance status: %w", err)
	}
	return items, total, nil
}
