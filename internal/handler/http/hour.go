package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
)

type HourHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetPendingRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
}

type HourHandlerImpl struct {
	hourService hour.HourService
}

func NewHourHandler(hourService hour.HourService) HourHandler {
	return &HourHandlerImpl{hourService: hourService}
}

func (h *HourHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req hour.SubmitHourRequest
	if !decodeAndValidate(w, r, "SubmitHourRequest", &req) {
		return
	}

	created, err := h.hourService.SubmitHourRequest(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Hour request submitted successfully", hour.NewHourRequestResponse(created))
}

func (h *HourHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requests, err := h.hourService.GetUserRequests(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, hour.NewHourRequestResponses(requests))
}

func (h *HourHandlerImpl) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.hourService.GetPendingRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, hour.NewHourRequestResponses(requests))
}

func (h *HourHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := idParam(w, r, "requestID", hour.ErrHourRequestNotFound)
	if !ok {
		return
	}

	approved, err := h.hourService.ApproveHourRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour request approved successfully", hour.NewHourRequestResponse(approved))
}

func (h *HourHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := idParam(w, r, "requestID", hour.ErrHourRequestNotFound)
	if !ok {
		return
	}

	rejected, err := h.hourService.RejectHourRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour request rejected successfully", hour.NewHourRequestResponse(rejected))
}

func (h *HourHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(w, r, "requestID", hour.ErrHourRequestNotFound)
	if !ok {
		return
	}

	var req hour.UpdateHourRequest
	if !decodeAndValidate(w, r, "UpdateHourRequest", &req) {
		return
	}

	updated, err := h.hourService.UpdateOwnHourRequest(r.Context(), userID, requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour request updated successfully", hour.NewHourRequestResponse(updated))
}

func (h *HourHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(w, r, "requestID", hour.ErrHourRequestNotFound)
	if !ok {
		return
	}

	if err := h.hourService.DeleteOwnHourRequest(r.Context(), userID, requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour request deleted successfully", nil)
}
