package auth

import (
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}

	return errs.Err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.CurrentPassword) < 6 {
		errs.Add("current_password", "current password must be at least 6 characters")
	}
	if len(r.NewPassword) < 6 {
		errs.Add("new_password", "new password must be at least 6 characters")
	} else if r.NewPassword == r.CurrentPassword {
		errs.Add("new_password", "new password must be different from current password")
	}
	if r.ConfirmPassword != r.NewPassword {
		errs.Add("confirm_password", "password confirmation does not match")
	}

	return errs.Err()
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	return errs.Err()
}

// SetupPasswordRequest sets a password using a token delivered by email.
type SetupPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *SetupPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}
	if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}
	if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password confirmation does not match")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	ExpiresAt   int64             `json:"expires_at"`
	User        user.UserResponse `json:"user"`
}
