package leave

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// LeaveRequest spans StartDate..EndDate inclusive. Both are UTC dates.
type LeaveRequest struct {
	ID            string
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	RequestedDays int
	Status        Status
	Reason        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	UserName       string
	UserEmail      string
	DepartmentName *string
}

func (r *LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Covers reports whether date lies within the request's range.
func (r *LeaveRequest) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}
