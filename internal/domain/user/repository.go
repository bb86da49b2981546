package user

import (
	"context"

	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// GetByIDForUpdate locks the user row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListNonAdmin(ctx context.Context) ([]User, error)
	ListSummaries(ctx context.Context, limit, offset int) ([]Summary, error)
	CountNonAdmin(ctx context.Context) (int64, error)
	UpdateAnnualLeaveBalance(ctx context.Context, id string, balance decimal.Decimal) error
	UpdateMonthlyHourBalance(ctx context.Context, id string, balance decimal.Decimal) error
	UpdateProfile(ctx context.Context, id string, name *string, departmentID *int64) (User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id string, imageURL *string) (User, error)
	Delete(ctx context.Context, id string) error
	ListApprovedRequests(ctx context.Context, userID string, limit, offset int) ([]RequestHistoryItem, int64, error)
}

type DepartmentRepository interface {
	List(ctx context.Context) ([]Department, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
