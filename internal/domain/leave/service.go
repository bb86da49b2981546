package leave

import "context"

type LeaveService interface {
	SubmitLeaveRequest(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveRequest, error)
	ApproveLeaveRequest(ctx context.Context, requestID string) (LeaveRequest, error)
	RejectLeaveRequest(ctx context.Context, requestID string) (LeaveRequest, error)
	UpdateOwnLeaveRequest(ctx context.Context, userID, requestID string, req UpdateLeaveRequest) (LeaveRequest, error)
	DeleteOwnLeaveRequest(ctx context.Context, userID, requestID string) error
	GetPendingRequests(ctx context.Context) ([]LeaveRequest, error)
	GetUserRequests(ctx context.Context, userID string) ([]LeaveRequest, error)
}
