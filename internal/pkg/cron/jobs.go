package cron

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/service/expiry"
)

const (
	JobProcessDailyAttendance = "process_daily_attendance"
	JobRejectExpiredRequests  = "reject_expired_requests"
)

// DailyAttendanceSchedule fires once a day at midnight UTC.
const DailyAttendanceSchedule = "0 0 * * *"

type LeaveAttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	sweeper       *expiry.PendingRequestProcessor
	sweepSchedule string
}

func NewLeaveAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	sweeper *expiry.PendingRequestProcessor,
	sweepSchedule string,
) *LeaveAttendanceJobs {
	return &LeaveAttendanceJobs{
		attendanceSvc: attendanceSvc,
		sweeper:       sweeper,
		sweepSchedule: sweepSchedule,
	}
}

func (j *LeaveAttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	if err := scheduler.AddJob(JobProcessDailyAttendance, DailyAttendanceSchedule, j.ProcessDailyAttendance); err != nil {
		return err
	}
	return scheduler.AddJob(JobRejectExpiredRequests, j.sweepSchedule, j.RejectExpiredRequests)
}

// ProcessDailyAttendance records today's attendance. Reruns on the same day
// rewrite the same rows.
func (j *LeaveAttendanceJobs) ProcessDailyAttendance(ctx context.Context) error {
	slog.Info("Cron: Starting daily attendance processing")
	result, err := j.attendanceSvc.ProcessDailyAttendance(ctx)
	if err != nil {
		return err
	}

	slog.Info("Cron: Daily attendance processed",
		"date", result.Date.Format("2006-01-02"),
		"skipped", result.Skipped,
		"processed", result.Processed,
	)
	return nil
}

func (j *LeaveAttendanceJobs) RejectExpiredRequests(ctx context.Context) error {
	slog.Info("Cron: Starting expired pending request sweep")
	_, err := j.sweeper.ProcessPendingRequests(ctx)
	return err
}
