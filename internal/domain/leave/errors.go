package leave

import "github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound         = apperror.NotFound("Leave request not found")
	ErrInvalidDateRange             = apperror.Validation("Start date must be before end date")
	ErrPastDate                     = apperror.Validation("Cannot modify past leave requests")
	ErrOverlappingRequest           = apperror.Validation("You already have a leave request for this date range")
	ErrNoBusinessDays               = apperror.Validation("Leave request must include at least one business day")
	ErrInsufficientBalance          = apperror.Validation("Insufficient leave balance")
	ErrLeaveRequestAlreadyProcessed = apperror.Validation("Request has already been processed")
	ErrNotRequestOwner              = apperror.Forbidden("You can only modify your own leave requests")
	ErrLeaveRequestNotPending       = apperror.BadRequest("Only pending leave requests can be modified")
)
