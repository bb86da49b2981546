package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field-level DTO failures
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case apperror.KindValidation, apperror.KindBadRequest:
		BadRequest(w, appErr.Message, nil)
	case apperror.KindNotFound:
		NotFound(w, appErr.Message)
	case apperror.KindForbidden:
		Forbidden(w, appErr.Message)
	case apperror.KindUnauthorized:
		Unauthorized(w, appErr.Message)
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
