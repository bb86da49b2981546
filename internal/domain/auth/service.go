package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

// PasswordService handles email-based password setup and recovery.
type PasswordService interface {
	// ForgotPassword sends a setup link when the email is registered and
	// reports success either way.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	SetupPassword(ctx context.Context, req SetupPasswordRequest) error
}
