package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

var (
	// Employees hired this year start with a prorated allowance.
	newHireAnnualLeave  = decimal.NewFromInt(14)
	standardAnnualLeave = decimal.NewFromInt(21)
	defaultHourBalance  = decimal.NewFromInt(3)
)

type UserServiceImpl struct {
	userRepo       user.UserRepository
	departmentRepo user.DepartmentRepository
	images         user.ImageStore
	setupLinks     user.SetupLinkSender
	clock          clock.Clock
}

func NewUserService(
	userRepo user.UserRepository,
	departmentRepo user.DepartmentRepository,
	images user.ImageStore,
	setupLinks user.SetupLinkSender,
	c clock.Clock,
) user.UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		images:         images,
		setupLinks:     setupLinks,
		clock:          c,
	}
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user.User{}, user.ErrUserEmailExists
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return user.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	hiringDate, _ := validator.IsValidDate(req.HiringDate)
	annualLeave := standardAnnualLeave
	if hiringDate.Year() == s.clock.Now().UTC().Year() {
		annualLeave = newHireAnnualLeave
	}

	hourBalance := defaultHourBalance
	if req.MonthlyHourBalance != nil {
		hourBalance = *req.MonthlyHourBalance
	}

	role := user.RoleUser
	if req.Role != "" {
		role = user.Role(req.Role)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		PasswordHash:       string(hash),
		Role:               role,
		DepartmentID:       req.DepartmentID,
		AnnualLeaveBalance: annualLeave,
		MonthlyHourBalance: hourBalance,
		HiringDate:         hiringDate,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role)

	// A failed email does not undo the account.
	if err := s.setupLinks.SendSetupLink(ctx, created); err != nil {
		slog.Warn("Failed to send password setup link", "user_id", created.ID, "error", err)
	}
	return created, nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserService.
func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, page pagination.Params) ([]user.Summary, int64, error) {
	var (
		items []user.Summary
		total int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		items, err = s.userRepo.ListSummaries(gCtx, page.Limit, page.Offset())
		return err
	})

	g.Go(func() error {
		var err error
		total, err = s.userRepo.CountNonAdmin(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return items, total, nil
}

// UpdateLeaveBalance implements user.UserService.
func (s *UserServiceImpl) UpdateLeaveBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	if err := s.userRepo.UpdateAnnualLeaveBalance(ctx, id, amount); err != nil {
		return fmt.Errorf("failed to update annual leave balance: %w", err)
	}
	slog.Info("Annual leave balance set", "user_id", id, "amount", amount.String())
	return nil
}

// UpdateHourBalance implements user.UserService.
func (s *UserServiceImpl) UpdateHourBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	if err := s.userRepo.UpdateMonthlyHourBalance(ctx, id, amount); err != nil {
		return fmt.Errorf("failed to update monthly hour balance: %w", err)
	}
	slog.Info("Monthly hour balance set", "user_id", id, "amount", amount.String())
	return nil
}

// GetDepartments implements user.UserService.
func (s *UserServiceImpl) GetDepartments(ctx context.Context) ([]user.Department, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// GetUserRequests implements user.UserService.
func (s *UserServiceImpl) GetUserRequests(ctx context.Context, userID string, page pagination.Params) ([]user.RequestHistoryItem, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to get user: %w", err)
	}

	items, total, err := s.userRepo.ListApprovedRequests(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list user requests: %w", err)
	}
	return items, total, nil
}

// DeleteUser implements user.UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	slog.Info("User deleted", "user_id", id)
	return nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.User, error) {
	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return user.User{}, err
	}

	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		name = &trimmed
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, name, req.DepartmentID)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// UpdateProfileImage implements user.UserService. The previous image is
// removed once the new one is recorded.
func (s *UserServiceImpl) UpdateProfileImage(ctx context.Context, userID string, file io.Reader, filename string) (user.User, error) {
	existing, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	url, err := s.images.UploadProfileImage(ctx, userID, file, filename)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to store profile image: %w", err)
	}

	updated, err := s.userRepo.UpdateProfileImage(ctx, userID, &url)
	if err != nil {
		if delErr := s.images.DeleteByURL(ctx, url); delErr != nil {
			slog.Warn("Failed to clean up profile image", "user_id", userID, "url", url, "error", delErr)
		}
		return user.User{}, fmt.Errorf("failed to update profile image: %w", err)
	}

	if existing.ProfileImageURL != nil && *existing.ProfileImageURL != url {
		if err := s.images.DeleteByURL(ctx, *existing.ProfileImageURL); err != nil {
			slog.Warn("Failed to delete old profile image", "user_id", userID, "url", *existing.ProfileImageURL, "error", err)
		}
	}

	slog.Info("Profile image updated", "user_id", userID)
	return updated, nil
}

func (s *UserServiceImpl) ensureDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	exists, err := s.departmentRepo.Exists(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to check department: %w", err)
	}
	if !exists {
		return user.ErrDepartmentNotFound
	}
	return nil
}
