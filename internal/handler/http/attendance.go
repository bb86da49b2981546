package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
)

type AttendanceHandler interface {
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetDailyStatus(w http.ResponseWriter, r *http.Request)
	ProcessDaily(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// GetMyAttendance implements AttendanceHandler.
func (a *AttendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	record, err := a.attendanceService.GetCurrentAttendance(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewAttendanceResponse(record))
}

// GetDailyStatus implements AttendanceHandler.
func (a *AttendanceHandlerImpl) GetDailyStatus(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	rows, total, err := a.attendanceService.GetDailyStatus(r.Context(), page)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, attendance.NewDailyStatusResponses(rows), response.NewMeta(page, total))
}

// ProcessDaily runs the daily attendance pass for today on demand.
func (a *AttendanceHandlerImpl) ProcessDaily(w http.ResponseWriter, r *http.Request) {
	result, err := a.attendanceService.ProcessDailyAttendance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Daily attendance processed"
	if result.Skipped {
		message = "Weekend, attendance processing skipped"
	}
	response.SuccessWithMessage(w, message, attendance.NewRunResultResponse(result))
}
