package user

import (
	"context"
	"io"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/pagination"
	"github.com/shopspring/decimal"
)

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, page pagination.Params) ([]Summary, int64, error)
	UpdateLeaveBalance(ctx context.Context, id string, amount decimal.Decimal) error
	UpdateHourBalance(ctx context.Context, id string, amount decimal.Decimal) error
	GetDepartments(ctx context.Context) ([]Department, error)
	GetUserRequests(ctx context.Context, userID string, page pagination.Params) ([]RequestHistoryItem, int64, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (User, error)
	UpdateProfileImage(ctx context.Context, userID string, file io.Reader, filename string) (User, error)
}

// SetupLinkSender delivers a password setup link to a newly created user.
type SetupLinkSender interface {
	SendSetupLink(ctx context.Context, u User) error
}

// ImageStore keeps profile images and addresses them by public URL.
type ImageStore interface {
	UploadProfileImage(ctx context.Context, userID string, file io.Reader, filename string) (url string, err error)
	DeleteByURL(ctx context.Context, url string) error
}
