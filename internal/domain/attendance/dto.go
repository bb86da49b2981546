package attendance

import (
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
)

type AttendanceResponse struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		UserID:    a.UserID,
		Date:      a.Date.Format(validator.DateLayout),
		Status:    string(a.Status),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

type DailyStatusResponse struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Department     *string `json:"department,omitempty"`
	Status         string  `json:"status"`
	RequestedHours *int    `json:"requested_hours,omitempty"`
	LeaveFrom      *string `json:"leave_from,omitempty"`
	LeaveTo        *string `json:"leave_to,omitempty"`
}

func NewDailyStatusResponses(items []DailyStatus) []DailyStatusResponse {
	out := make([]DailyStatusResponse, 0, len(items))
	for _, d := range items {
		out = append(out, DailyStatusResponse{
			UserID:         d.UserID,
			Name:           d.Name,
			Email:          d.Email,
			Department:     d.DepartmentName,
			Status:         string(d.Status),
			RequestedHours: d.RequestedHours,
			LeaveFrom:      formatDate(d.LeaveStart),
			LeaveTo:        formatDate(d.LeaveEnd),
		})
	}
	return out
}

type RunResultResponse struct {
	Date      string `json:"date"`
	Skipped   bool   `json:"skipped"`
	Processed int    `json:"processed"`
}

func NewRunResultResponse(r RunResult) RunResultResponse {
	return RunResultResponse{
		Date:      r.Date.Format(validator.DateLayout),
		Skipped:   r.Skipped,
		Processed: r.Processed,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validator.DateLayout)
	return &s
}
