package hour

import "context"

type HourService interface {
	SubmitHourRequest(ctx context.Context, userID string, req SubmitHourRequest) (HourRequest, error)
	ApproveHourRequest(ctx context.Context, requestID string) (HourRequest, error)
	RejectHourRequest(ctx context.Context, requestID string) (HourRequest, error)
	UpdateOwnHourRequest(ctx context.Context, userID, requestID string, req UpdateHourRequest) (HourRequest, error)
	DeleteOwnHourRequest(ctx context.Context, userID, requestID string) error
	GetPendingRequests(ctx context.Context) ([]HourRequest, error)
	GetUserRequests(ctx context.Context, userID string) ([]HourRequest, error)
}
