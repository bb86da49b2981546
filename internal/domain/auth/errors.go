package auth

import "github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"

var (
	ErrInvalidCredentials     = apperror.Unauthorized("Invalid email or password")
	ErrInvalidToken           = apperror.Unauthorized("Invalid or expired token")
	ErrCurrentPasswordInvalid = apperror.Validation("Current password is incorrect")
	ErrInvalidSetupToken      = apperror.BadRequest("Invalid or expired password setup token")
)
