package hour

import "github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"

var (
	ErrHourRequestNotFound         = apperror.NotFound("Hour request not found")
	ErrPastDate                    = apperror.Validation("Cannot request or modify hours for past days")
	ErrDuplicateDate               = apperror.Validation("Hour request already exists for this date")
	ErrInvalidRequestedHours       = apperror.Validation("Requested hours must be greater than 0")
	ErrInsufficientBalance         = apperror.Validation("Insufficient hour balance")
	ErrHourRequestAlreadyProcessed = apperror.Validation("Request has already been processed")
	ErrNotRequestOwner             = apperror.Forbidden("You can only modify your own hour requests")
	ErrHourRequestNotPending       = apperror.BadRequest("Only pending hour requests can be modified")
	ErrDeletePastRequest           = apperror.BadRequest("Cannot delete past requests")
)
