package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/stats"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
)

type StatsHandler interface {
	GetRequestStats(w http.ResponseWriter, r *http.Request)
}

type StatsHandlerImpl struct {
	statsService stats.StatsService
}

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &StatsHandlerImpl{statsService: statsService}
}

func (s *StatsHandlerImpl) GetRequestStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.statsService.GetRequestStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
