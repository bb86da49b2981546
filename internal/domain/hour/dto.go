package hour

import (
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
)

type SubmitHourRequest struct {
	Date           string `json:"date"`
	RequestedHours int    `json:"requested_hours"`
}

func (r *SubmitHourRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	validateHours(&errs, r.RequestedHours)

	return errs.Err()
}

// ParsedDate returns the request date. Call after Validate.
func (r *SubmitHourRequest) ParsedDate() time.Time {
	d, _ := validator.IsValidDate(r.Date)
	return d
}

type UpdateHourRequest struct {
	Date           *string `json:"date,omitempty"`
	RequestedHours *int    `json:"requested_hours,omitempty"`
}

func (r *UpdateHourRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date == nil && r.RequestedHours == nil {
		errs.Add("body", "at least one field must be provided for update")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.RequestedHours != nil {
		validateHours(&errs, *r.RequestedHours)
	}

	return errs.Err()
}

func validateHours(errs *validator.ValidationErrors, hours int) {
	if !validator.IntBetween(hours, MinRequestedHours, MaxRequestedHours) {
		errs.Add("requested_hours", "requested_hours must be between 1 and 3")
	}
}

type HourRequestResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
	Date           string  `json:"date"`
	RequestedHours int     `json:"requested_hours"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

func NewHourRequestResponse(r HourRequest) HourRequestResponse {
	return HourRequestResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		DepartmentName: r.DepartmentName,
		Date:           r.Date.Format(validator.DateLayout),
		RequestedHours: r.RequestedHours,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

func NewHourRequestResponses(items []HourRequest) []HourRequestResponse {
	out := make([]HourRequestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewHourRequestResponse(r))
	}
	return out
}
