package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
)

// LeaveProcessor marks users on approved leave as absent.
type LeaveProcessor struct {
	leaveRequestRepo leave.LeaveRequestRepository
	attendanceRepo   attendance.AttendanceRepository
}

func NewLeaveProcessor(leaveRequestRepo leave.LeaveRequestRepository, attendanceRepo attendance.AttendanceRepository) *LeaveProcessor {
	return &LeaveProcessor{leaveRequestRepo: leaveRequestRepo, attendanceRepo: attendanceRepo}
}

func (p *LeaveProcessor) Name() string { return "leave" }

func (p *LeaveProcessor) Process(ctx context.Context, date time.Time, processed map[string]struct{}) error {
	requests, err := p.leaveRequestRepo.FindApprovedCovering(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to find approved leave requests: %w", err)
	}

	userIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.UserID)
	}
	return record(ctx, p.attendanceRepo, date, userIDs, attendance.StatusAbsent, processed)
}

// PermissionProcessor marks users with an approved hour request on the date.
type PermissionProcessor struct {
	hourRequestRepo hour.HourRequestRepository
	attendanceRepo  attendance.AttendanceRepository
}

func NewPermissionProcessor(hourRequestRepo hour.HourRequestRepository, attendanceRepo attendance.AttendanceRepository) *PermissionProcessor {
	return &PermissionProcessor{hourRequestRepo: hourRequestRepo, attendanceRepo: attendanceRepo}
}

func (p *PermissionProcessor) Name() string { return "permission" }

func (p *PermissionProcessor) Process(ctx context.Context, date time.Time, processed map[string]struct{}) error {
	requests, err := p.hourRequestRepo.FindApprovedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to find approved hour requests: %w", err)
	}

	userIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.UserID)
	}
	return record(ctx, p.attendanceRepo, date, userIDs, attendance.StatusPermission, processed)
}

// DefaultProcessor marks every remaining non-admin user as present.
type DefaultProcessor struct {
	userRepo       user.UserRepository
	attendanceRepo attendance.AttendanceRepository
}

func NewDefaultProcessor(userRepo user.UserRepository, attendanceRepo attendance.AttendanceRepository) *DefaultProcessor {
	return &DefaultProcessor{userRepo: userRepo, attendanceRepo: attendanceRepo}
}

func (p *DefaultProcessor) Name() string { return "default" }

func (p *DefaultProcessor) Process(ctx context.Context, date time.Time, processed map[string]struct{}) error {
	users, err := p.userRepo.ListNonAdmin(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	return record(ctx, p.attendanceRepo, date, userIDs, attendance.StatusPresent, processed)
}

func record(ctx context.Context, repo attendance.AttendanceRepository, date time.Time, userIDs []string, status attendance.Status, processed map[string]struct{}) error {
	for _, userID := range userIDs {
		if _, done := processed[userID]; done {
			continue
		}
		if err := repo.Upsert(ctx, userID, date, status); err != nil {
			return fmt.Errorf("failed to upsert attendance for user %s: %w", userID, err)
		}
		processed[userID] = struct{}{}
		slog.Debug("Attendance recorded", "user_id", userID, "date", date.Format("2006-01-02"), "status", status)
	}
	return nil
}
