package attendance

import "github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"

var (
	ErrAttendanceNotFound = apperror.NotFound("Attendance record not found for today")
)
