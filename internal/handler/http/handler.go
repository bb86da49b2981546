package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/auth"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/pagination"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// decodeAndValidate decodes the JSON body into req and runs its Validate.
// It writes the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, op string, req interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return false
	}
	return true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		slog.Error("user_id not found in JWT claims")
		response.HandleError(w, auth.ErrInvalidToken)
		return "", false
	}
	return userID, true
}

func pageParams(w http.ResponseWriter, r *http.Request) (pagination.Params, bool) {
	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return pagination.Params{}, false
	}
	return page, true
}

// idParam reads a row id from the URL. Ids are UUIDv7, so anything else
// cannot match a row and is answered with notFound.
func idParam(w http.ResponseWriter, r *http.Request, name string, notFound error) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}
