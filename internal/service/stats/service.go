package stats

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/stats"
	"golang.org/x/sync/errgroup"
)

type StatsServiceImpl struct {
	leaveRequestRepo leave.LeaveRequestRepository
	hourRequestRepo  hour.HourRequestRepository
}

func NewStatsService(leaveRequestRepo leave.LeaveRequestRepository, hourRequestRepo hour.HourRequestRepository) stats.StatsService {
	return &StatsServiceImpl{
		leaveRequestRepo: leaveRequestRepo,
		hourRequestRepo:  hourRequestRepo,
	}
}

// GetRequestStats implements stats.StatsService.
func (s *StatsServiceImpl) GetRequestStats(ctx context.Context) (stats.RequestStats, error) {
	var result stats.RequestStats

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.leaveRequestRepo.CountByStatus(gCtx, leave.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to count pending leave requests: %w", err)
		}
		result.PendingLeaveRequests = count
		return nil
	})

	g.Go(func() error {
		count, err := s.hourRequestRepo.CountByStatus(gCtx, hour.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to count pending hour requests: %w", err)
		}
		result.PendingHourRequests = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats.RequestStats{}, err
	}
	return result, nil
}
