package user

import (
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Role               string          `json:"role"`
	DepartmentID       *int64          `json:"department_id,omitempty"`
	DepartmentName     *string         `json:"department_name,omitempty"`
	AnnualLeaveBalance decimal.Decimal `json:"annual_leave_balance"`
	MonthlyHourBalance decimal.Decimal `json:"monthly_hour_balance"`
	HiringDate         string          `json:"hiring_date"`
	ProfileImageURL    *string         `json:"profile_image_url,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               string(u.Role),
		DepartmentID:       u.DepartmentID,
		DepartmentName:     u.DepartmentName,
		AnnualLeaveBalance: u.AnnualLeaveBalance,
		MonthlyHourBalance: u.MonthlyHourBalance,
		HiringDate:         u.HiringDate.Format(validator.DateLayout),
		ProfileImageURL:    u.ProfileImageURL,
		CreatedAt:          u.CreatedAt.Format(time.RFC3339),
	}
}

type SummaryResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Department         *string         `json:"department,omitempty"`
	AnnualLeaveBalance decimal.Decimal `json:"annual_leave_balance"`
	MonthlyHourBalance decimal.Decimal `json:"monthly_hour_balance"`
	LeaveTaken         int             `json:"leave_taken"`
	HiringDate         string          `json:"hiring_date"`
}

func NewSummaryResponses(items []Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, SummaryResponse{
			ID:                 s.ID,
			Name:               s.Name,
			Email:              s.Email,
			Department:         s.DepartmentName,
			AnnualLeaveBalance: s.AnnualLeaveBalance,
			MonthlyHourBalance: s.MonthlyHourBalance,
			LeaveTaken:         s.LeaveTaken,
			HiringDate:         s.HiringDate.Format(validator.DateLayout),
		})
	}
	return out
}

type RequestHistoryResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	RequestDate    string  `json:"request_date"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	RequestedDays  *int    `json:"requested_days,omitempty"`
	Date           *string `json:"date,omitempty"`
	RequestedHours *int    `json:"requested_hours,omitempty"`
	Status         string  `json:"status"`
}

func NewRequestHistoryResponses(items []RequestHistoryItem) []RequestHistoryResponse {
	out := make([]RequestHistoryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, RequestHistoryResponse{
			ID:             it.ID,
			Type:           string(it.Kind),
			RequestDate:    it.CreatedAt.Format(time.RFC3339),
			StartDate:      formatDate(it.StartDate),
			EndDate:        formatDate(it.EndDate),
			RequestedDays:  it.RequestedDays,
			Date:           formatDate(it.Date),
			RequestedHours: it.RequestedHours,
			Status:         it.Status,
		})
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validator.DateLayout)
	return &s
}

type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Password           string           `json:"password"`
	Role               string           `json:"role,omitempty"`
	DepartmentID       *int64           `json:"department_id,omitempty"`
	HiringDate         string           `json:"hiring_date"`
	MonthlyHourBalance *decimal.Decimal `json:"monthly_hour_balance,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.LengthBetween(r.Name, 1, 50) {
		errs.Add("name", "name cannot exceed 50 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}

	if r.Role != "" && !Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of: user, admin")
	}

	if r.DepartmentID != nil && *r.DepartmentID <= 0 {
		errs.Add("department_id", "department_id must be positive")
	}

	if hiringDate, ok := validator.IsValidDate(r.HiringDate); !ok {
		errs.Add("hiring_date", "hiring_date must be in YYYY-MM-DD format")
	} else if hiringDate.After(time.Now().UTC()) {
		errs.Add("hiring_date", "hiring date cannot be in the future")
	}

	if r.MonthlyHourBalance != nil && r.MonthlyHourBalance.IsNegative() {
		errs.Add("monthly_hour_balance", "monthly_hour_balance cannot be negative")
	}

	return errs.Err()
}

// UpdateBalanceRequest sets a balance to an absolute amount.
type UpdateBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *UpdateBalanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Amount.IsPositive() {
		errs.Add("amount", "balance amount must be a positive number")
	}
	return errs.Err()
}

type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.DepartmentID == nil {
		errs.Add("body", "at least one field must be provided for update")
	}
	if r.Name != nil && !validator.LengthBetween(*r.Name, 2, 50) {
		errs.Add("name", "name must be between 2 and 50 characters")
	}
	if r.DepartmentID != nil && *r.DepartmentID <= 0 {
		errs.Add("department_id", "department_id must be positive")
	}

	return errs.Err()
}
