package memstore

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
)

type attendanceRepo struct {
	s *Store
}

func (r *attendanceRepo) Upsert(ctx context.Context, userID string, date time.Time, status attendance.Status) error {
	defer r.s.lockWrite(ctx)()
	if err := r.s.fault("attendance.Upsert", userID); err != nil {
		return err
	}

	now := r.s.now()
	key := keyFor(userID, date)
	a, ok := r.s.data.attendance[key]
	if !ok {
		a = attendance.Attendance{ID: newID(), UserID: userID, Date: date, CreatedAt: now}
	}
	a.Status = status
	a.UpdatedAt = now
	r.s.data.attendance[key] = a
	return nil
}

func (r *attendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.attendance[keyFor(userID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepo) GetDailyStatus(ctx context.Context, date time.Time, limit, offset int) ([]attendance.DailyStatus, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := (&userRepo{r.s}).nonAdminByName()
	var out []attendance.DailyStatus
	for _, u := range paginate(users, limit, offset) {
		row := attendance.DailyStatus{
			UserID:         u.ID,
			Name:           u.Name,
			Email:          u.Email,
			DepartmentName: u.DepartmentName,
			Status:         attendance.StatusPresent,
		}
		if a, ok := r.s.data.attendance[keyFor(u.ID, date)]; ok {
			row.Status = a.Status
		}
		for _, h := range r.s.data.hours {
			if h.UserID == u.ID && h.Status == hour.StatusApproved && h.Date.Equal(date) {
				hours := h.RequestedHours
				row.RequestedHours = &hours
			}
		}
		for _, l := range r.s.data.leaves {
			if l.UserID == u.ID && l.Status == leave.StatusApproved && l.Covers(date) {
				start, end := l.StartDate, l.EndDate
				row.LeaveStart, row.LeaveEnd = &start, &end
			}
		}
		out = append(out, row)
	}
	return out, int64(len(users)), nil
}
