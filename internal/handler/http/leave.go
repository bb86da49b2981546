package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetPendingRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	if !decodeAndValidate(w, r, "SubmitLeaveRequest", &req) {
		return
	}

	created, err := l.leaveService.SubmitLeaveRequest(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.NewLeaveRequestResponse(created))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requests, err := l.leaveService.GetUserRequests(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// GetPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := l.leaveService.GetPendingRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveRequestResponses(requests))
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := idParam(w, r, "requestID", leave.ErrLeaveRequestNotFound)
	if !ok {
		return
	}

	approved, err := l.leaveService.ApproveLeaveRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leave.NewLeaveRequestResponse(approved))
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := idParam(w, r, "requestID", leave.ErrLeaveRequestNotFound)
	if !ok {
		return
	}

	rejected, err := l.leaveService.RejectLeaveRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leave.NewLeaveRequestResponse(rejected))
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(w, r, "requestID", leave.ErrLeaveRequestNotFound)
	if !ok {
		return
	}

	var req leave.UpdateLeaveRequest
	if !decodeAndValidate(w, r, "UpdateLeaveRequest", &req) {
		return
	}

	updated, err := l.leaveService.UpdateOwnLeaveRequest(r.Context(), userID, requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", leave.NewLeaveRequestResponse(updated))
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(w, r, "requestID", leave.ErrLeaveRequestNotFound)
	if !ok {
		return
	}

	if err := l.leaveService.DeleteOwnLeaveRequest(r.Context(), userID, requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}
