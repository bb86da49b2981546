package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end date must be on or after start date")
	}
	validateReason(&errs, r.Reason)

	return errs.Err()
}

// Dates returns the parsed range. Call after Validate.
func (r *SubmitLeaveRequest) Dates() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type UpdateLeaveRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate == nil && r.EndDate == nil && r.Reason == nil {
		errs.Add("body", "at least one field must be provided for update")
	}

	var start, end time.Time
	var startOK, endOK bool
	if r.StartDate != nil {
		if start, startOK = validator.IsValidDate(*r.StartDate); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if end, endOK = validator.IsValidDate(*r.EndDate); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end date must be on or after start date")
	}
	validateReason(&errs, r.Reason)

	return errs.Err()
}

// ResolveDates falls back to the existing request for fields not in the payload.
func (r *UpdateLeaveRequest) ResolveDates(existing LeaveRequest) (time.Time, time.Time) {
	start, end := existing.StartDate, existing.EndDate
	if r.StartDate != nil {
		start, _ = validator.IsValidDate(*r.StartDate)
	}
	if r.EndDate != nil {
		end, _ = validator.IsValidDate(*r.EndDate)
	}
	return start, end
}

func validateReason(errs *validator.ValidationErrors, reason *string) {
	if reason == nil {
		return
	}
	if !validator.LengthBetween(strings.TrimSpace(*reason), 5, 500) {
		errs.Add("reason", "reason must be between 5 and 500 characters")
	}
}

type LeaveRequestResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	RequestedDays  int     `json:"requested_days"`
	Status         string  `json:"status"`
	Reason         *string `json:"reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		DepartmentName: r.DepartmentName,
		StartDate:      r.StartDate.Format(validator.DateLayout),
		EndDate:        r.EndDate.Format(validator.DateLayout),
		RequestedDays:  r.RequestedDays,
		Status:         string(r.Status),
		Reason:         r.Reason,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

func NewLeaveRequestResponses(items []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewLeaveRequestResponse(r))
	}
	return out
}
