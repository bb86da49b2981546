package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	GetUserByEmail(w http.ResponseWriter, r *http.Request)
	GetUserRequests(w http.ResponseWriter, r *http.Request)
	UpdateLeaveBalance(w http.ResponseWriter, r *http.Request)
	UpdateHourBalance(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	UpdateProfileImage(w http.ResponseWriter, r *http.Request)
	GetDepartments(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &UserHandlerImpl{userService: userService}
}

// ListUsers implements UserHandler.
func (u *UserHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	users, total, err := u.userService.ListUsers(r.Context(), page)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, user.NewSummaryResponses(users), response.NewMeta(page, total))
}

// CreateUser implements UserHandler.
func (u *UserHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if !decodeAndValidate(w, r, "CreateUser", &req) {
		return
	}

	created, err := u.userService.CreateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", user.NewUserResponse(created))
}

// GetUser implements UserHandler.
func (u *UserHandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := idParam(w, r, "userID", user.ErrUserNotFound)
	if !ok {
		return
	}

	found, err := u.userService.GetByID(r.Context(), targetID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.NewUserResponse(found))
}

// GetUserByEmail implements UserHandler.
func (u *UserHandlerImpl) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	found, err := u.userService.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.NewUserResponse(found))
}

// GetUserRequests implements UserHandler.
func (u *UserHandlerImpl) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	targetID, ok := idParam(w, r, "userID", user.ErrUserNotFound)
	if !ok {
		return
	}

	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	items, total, err := u.userService.GetUserRequests(r.Context(), targetID, page)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, user.NewRequestHistoryResponses(items), response.NewMeta(page, total))
}

// UpdateLeaveBalance implements UserHandler.
func (u *UserHandlerImpl) UpdateLeaveBalance(w http.ResponseWriter, r *http.Request) {
	targetID, ok := idParam(w, r, "userID", user.ErrUserNotFound)
	if !ok {
		return
	}

	var req user.UpdateBalanceRequest
	if !decodeAndValidate(w, r, "UpdateLeaveBalance", &req) {
		return
	}

	if err := u.userService.UpdateLeaveBalance(r.Context(), targetID, req.Amount); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance updated successfully", nil)
}

// UpdateHourBalance implements UserHandler.
func (u *UserHandlerImpl) UpdateHourBalance(w http.ResponseWriter, r *http.Request) {
	targetID, ok := idParam(w, r, "userID", user.ErrUserNotFound)
	if !ok {
		return
	}

	var req user.UpdateBalanceRequest
	if !decodeAndValidate(w, r, "UpdateHourBalance", &req) {
		return
	}

	if err := u.userService.UpdateHourBalance(r.Context(), targetID, req.Amount); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour balance updated successfully", nil)
}

// DeleteUser implements UserHandler.
func (u *UserHandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := idParam(w, r, "userID", user.ErrUserNotFound)
	if !ok {
		return
	}

	if err := u.userService.DeleteUser(r.Context(), targetID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User deleted successfully", nil)
}

// UpdateMe implements UserHandler.
func (u *UserHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !decodeAndValidate(w, r, "UpdateProfile", &req) {
		return
	}

	updated, err := u.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", user.NewUserResponse(updated))
}

// maxProfileImageRequest bounds the whole multipart body. The image itself
// is limited further by the user service.
const maxProfileImageRequest = 6 << 20

// UpdateProfileImage implements UserHandler.
func (u *UserHandlerImpl) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileImageRequest)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.HandleError(w, user.ErrImageTooLarge)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("profile_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Profile image file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	updated, err := u.userService.UpdateProfileImage(r.Context(), userID, file, fileHeader.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile image updated successfully", user.NewUserResponse(updated))
}

// GetDepartments implements UserHandler.
func (u *UserHandlerImpl) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := u.userService.GetDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]user.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, user.DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	response.Success(w, out)
}
