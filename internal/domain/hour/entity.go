package hour

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

const (
	MinRequestedHours = 1
	MaxRequestedHours = 3
)

// HourRequest asks for intra-day permission hours on a single UTC date.
type HourRequest struct {
	ID             string
	UserID         string
	Date           time.Time
	RequestedHours int
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	UserName       string
	UserEmail      string
	DepartmentName *string
}

func (r *HourRequest) IsPending() bool {
	return r.Status == StatusPending
}
