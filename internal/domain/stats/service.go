package stats

import "context"

type RequestStats struct {
	PendingLeaveRequests int64 `json:"pending_leave_requests"`
	PendingHourRequests  int64 `json:"pending_hour_requests"`
}

type StatsService interface {
	GetRequestStats(ctx context.Context) (RequestStats, error)
}
