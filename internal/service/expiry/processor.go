// Package expiry rejects leave and hour requests left pending for too long.
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
)

const DefaultMaxAge = 48 * time.Hour

// KindResult counts what one sweep did for a single request kind.
type KindResult struct {
	Found    int `json:"found"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
}

type SweepResult struct {
	Cutoff time.Time  `json:"cutoff"`
	Hour   KindResult `json:"hour_requests"`
	Leave  KindResult `json:"leave_requests"`
}

type PendingRequestProcessor struct {
	leaveRequestRepo leave.LeaveRequestRepository
	hourRequestRepo  hour.HourRequestRepository
	clock            clock.Clock
	maxAge           time.Duration
}

func NewPendingRequestProcessor(
	leaveRequestRepo leave.LeaveRequestRepository,
	hourRequestRepo hour.HourRequestRepository,
	c clock.Clock,
	maxAge time.Duration,
) *PendingRequestProcessor {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &PendingRequestProcessor{
		leaveRequestRepo: leaveRequestRepo,
		hourRequestRepo:  hourRequestRepo,
		clock:            c,
		maxAge:           maxAge,
	}
}

// ProcessPendingRequests rejects every pending request created before now minus
// the max age. A failing row is logged and skipped; only a failed lookup
// aborts the sweep.
func (p *PendingRequestProcessor) ProcessPendingRequests(ctx context.Context) (SweepResult, error) {
	cutoff := p.clock.Now().UTC().Add(-p.maxAge)
	result := SweepResult{Cutoff: cutoff}

	hourRequests, err := p.hourRequestRepo.FindPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to find expired hour requests: %w", err)
	}
	result.Hour.Found = len(hourRequests)
	for _, r := range hourRequests {
		if err := p.hourRequestRepo.UpdateStatus(ctx, r.ID, hour.StatusRejected); err != nil {
			slog.Error("Failed to reject expired hour request", "request_id", r.ID, "error", err)
			result.Hour.Failed++
			continue
		}
		result.Hour.Rejected++
	}

	leaveRequests, err := p.leaveRequestRepo.FindPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to find expired leave requests: %w", err)
	}
	result.Leave.Found = len(leaveRequests)
	for _, r := range leaveRequests {
		if err := p.leaveRequestRepo.UpdateStatus(ctx, r.ID, leave.StatusRejected); err != nil {
			slog.Error("Failed to reject expired leave request", "request_id", r.ID, "error", err)
			result.Leave.Failed++
			continue
		}
		result.Leave.Rejected++
	}

	slog.Info("Pending request sweep finished",
		"cutoff", cutoff,
		"hour_rejected", result.Hour.Rejected,
		"hour_failed", result.Hour.Failed,
		"leave_rejected", result.Leave.Rejected,
		"leave_failed", result.Leave.Failed,
	)
	return result, nil
}
