package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"  // Employee - submits requests, gets attendance
	RoleAdmin Role = "admin" // HR - approves requests, manages users
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Role               Role
	DepartmentID       *int64
	AnnualLeaveBalance decimal.Decimal
	MonthlyHourBalance decimal.Decimal
	HiringDate         time.Time
	ProfileImageURL    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Join
	DepartmentName *string
}

// IsAdmin checks if user is HR admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Department struct {
	ID   int64
	Name string
}

// Summary is a row of the admin user listing.
type Summary struct {
	ID                 string
	Name               string
	Email              string
	DepartmentName     *string
	AnnualLeaveBalance decimal.Decimal
	MonthlyHourBalance decimal.Decimal
	LeaveTaken         int
	HiringDate         time.Time
}

type RequestKind string

const (
	RequestKindLeave RequestKind = "leave"
	RequestKindHour  RequestKind = "hour"
)

// RequestHistoryItem is an approved leave or hour request in a user's history.
// Leave items carry StartDate/EndDate/RequestedDays, hour items carry Date/RequestedHours.
type RequestHistoryItem struct {
	ID             string
	Kind           RequestKind
	StartDate      *time.Time
	EndDate        *time.Time
	RequestedDays  *int
	Date           *time.Time
	RequestedHours *int
	Status         string
	CreatedAt      time.Time
}
