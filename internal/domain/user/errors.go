package user

import "github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"

var (
	ErrUserNotFound           = apperror.NotFound("User not found")
	ErrUserEmailExists        = apperror.Validation("Email already exists")
	ErrDepartmentNotFound     = apperror.NotFound("Department not found")
	ErrAdminPrivilegeRequired = apperror.Forbidden("Admin privilege required")
	ErrUserRoleRequired       = apperror.Forbidden("Only employees can perform this action")
	ErrNotResourceOwner       = apperror.Forbidden("You can only access your own resources")
	ErrUnsupportedImage       = apperror.BadRequest("Only image files are allowed (JPEG, PNG, GIF, WEBP)")
	ErrImageTooLarge          = apperror.BadRequest("Image must not exceed 5MB")
)
