package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/auth"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/email"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const setupLinkPath = "/forget-password"

type PasswordServiceImpl struct {
	userRepo    user.UserRepository
	jwtService  jwt.Service
	email       email.EmailService
	frontendURL string
}

var (
	_ auth.PasswordService = (*PasswordServiceImpl)(nil)
	_ user.SetupLinkSender = (*PasswordServiceImpl)(nil)
)

func NewPasswordService(userRepo user.UserRepository, jwtService jwt.Service, emailService email.EmailService, frontendURL string) *PasswordServiceImpl {
	return &PasswordServiceImpl{
		userRepo:    userRepo,
		jwtService:  jwtService,
		email:       emailService,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// SendSetupLink implements user.SetupLinkSender.
func (s *PasswordServiceImpl) SendSetupLink(ctx context.Context, u user.User) error {
	token, expiresAt, err := s.jwtService.GeneratePasswordSetupToken(u.ID)
	if err != nil {
		return fmt.Errorf("failed to generate password setup token: %w", err)
	}

	link := s.frontendURL + setupLinkPath + "?token=" + url.QueryEscape(token)
	if err := s.email.SendPasswordSetup(u.Email, u.Name, link, expiresAt.UTC().Format("02 Jan 2006 15:04 MST")); err != nil {
		return fmt.Errorf("failed to send password setup email: %w", err)
	}
	return nil
}

// ForgotPassword implements auth.PasswordService.
func (s *PasswordServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := s.SendSetupLink(ctx, u); err != nil {
		slog.Error("forgot password email failed", "user_id", u.ID, "error", err)
	}
	return nil
}

// SetupPassword implements auth.PasswordService.
func (s *PasswordServiceImpl) SetupPassword(ctx context.Context, req auth.SetupPasswordRequest) error {
	userID, err := s.jwtService.ParsePasswordSetupToken(ctx, req.Token)
	if err != nil {
		return auth.ErrInvalidSetupToken
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidSetupToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
