package attendance

import "time"

type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusPermission Status = "permission"
)

// Attendance is unique per (UserID, Date).
type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyStatus is one employee's row in the admin overview for a date.
type DailyStatus struct {
	UserID         string
	Name           string
	Email          string
	DepartmentName *string
	Status         Status
	RequestedHours *int
	LeaveStart     *time.Time
	LeaveEnd       *time.Time
}
