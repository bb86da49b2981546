package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/auth"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
)

type PasswordHandler interface {
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	SetupPassword(w http.ResponseWriter, r *http.Request)
}

type PasswordHandlerImpl struct {
	passwordService auth.PasswordService
}

func NewPasswordHandler(passwordService auth.PasswordService) PasswordHandler {
	return &PasswordHandlerImpl{passwordService: passwordService}
}

// ForgotPassword implements PasswordHandler.
func (p *PasswordHandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ForgotPasswordRequest
	if !decodeAndValidate(w, r, "ForgotPassword", &req) {
		return
	}

	if err := p.passwordService.ForgotPassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "If the email is registered, a password setup link has been sent", nil)
}

// SetupPassword implements PasswordHandler.
func (p *PasswordHandlerImpl) SetupPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.SetupPasswordRequest
	if !decodeAndValidate(w, r, "SetupPassword", &req) {
		return
	}

	if err := p.passwordService.SetupPassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password has been set successfully", nil)
}
