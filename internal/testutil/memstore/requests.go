package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

type leaveRepo struct {
	s *Store
}

// join must be called with s.mu held.
func (r *leaveRepo) join(l leave.LeaveRequest) leave.LeaveRequest {
	if u, ok := r.s.data.users[l.UserID]; ok {
		l.UserName = u.Name
		l.UserEmail = u.Email
		l.DepartmentName = r.s.departmentName(u.DepartmentID)
	}
	return l
}

func (r *leaveRepo) filter(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	var out []leave.LeaveRequest
	for _, l := range r.s.data.leaves {
		if keep(l) {
			out = append(out, r.join(l))
		}
	}
	return out
}

func (r *leaveRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lockWrite(ctx)()
	request.ID = newID()
	request.CreatedAt = r.s.now()
	request.UpdatedAt = request.CreatedAt
	r.s.data.leaves[request.ID] = request
	return r.join(request), nil
}

func (r *leaveRepo) Update(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lockWrite(ctx)()
	existing, ok := r.s.data.leaves[request.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	existing.StartDate = request.StartDate
	existing.EndDate = request.EndDate
	existing.RequestedDays = request.RequestedDays
	existing.Reason = request.Reason
	existing.UpdatedAt = r.s.now()
	r.s.data.leaves[request.ID] = existing
	return r.join(existing), nil
}

func (r *leaveRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.data.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.s.data.leaves, id)
	return nil
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.data.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.join(l), nil
}

func (r *leaveRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRepo) GetByUserID(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(l leave.LeaveRequest) bool { return l.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *leaveRepo) GetByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(l leave.LeaveRequest) bool { return l.Status == status })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *leaveRepo) FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(l leave.LeaveRequest) bool {
		return l.UserID == userID &&
			l.ID != excludeID &&
			(l.Status == leave.StatusPending || l.Status == leave.StatusApproved) &&
			!l.StartDate.After(end) && !l.EndDate.Before(start)
	}), nil
}

func (r *leaveRepo) FindApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(l leave.LeaveRequest) bool {
		return l.Status == leave.StatusApproved && l.Covers(date)
	}), nil
}

func (r *leaveRepo) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(l leave.LeaveRequest) bool {
		return l.Status == leave.StatusPending && l.CreatedAt.Before(cutoff)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *leaveRepo) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	defer r.s.lockWrite(ctx)()
	if err := r.s.fault("leave.UpdateStatus", id); err != nil {
		return err
	}
	l, ok := r.s.data.leaves[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if l.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	l.Status = status
	l.UpdatedAt = r.s.now()
	r.s.data.leaves[id] = l
	return nil
}

func (r *leaveRepo) ApproveWithTransaction(ctx context.Context, requestID, userID string, newBalance decimal.Decimal) error {
	defer r.s.lockWrite(ctx)()
	if err := r.s.fault("leave.ApproveWithTransaction", requestID); err != nil {
		return err
	}
	u, ok := r.s.data.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	l, ok := r.s.data.leaves[requestID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if l.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	now := r.s.now()
	u.AnnualLeaveBalance = newBalance
	u.UpdatedAt = now
	l.Status = leave.StatusApproved
	l.UpdatedAt = now
	r.s.data.users[userID] = u
	r.s.data.leaves[requestID] = l
	return nil
}

func (r *leaveRepo) CountByStatus(ctx context.Context, status leave.Status) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.data.leaves {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

type hourRepo struct {
	s *Store
}

// join must be called with s.mu held.
func (r *hourRepo) join(h hour.HourRequest) hour.HourRequest {
	if u, ok := r.s.data.users[h.UserID]; ok {
		h.UserName = u.Name
		h.UserEmail = u.Email
		h.DepartmentName = r.s.departmentName(u.DepartmentID)
	}
	return h
}

func (r *hourRepo) filter(keep func(hour.HourRequest) bool) []hour.HourRequest {
	var out []hour.HourRequest
	for _, h := range r.s.data.hours {
		if keep(h) {
			out = append(out, r.join(h))
		}
	}
	return out
}

func (r *hourRepo) Create(ctx context.Context, request hour.HourRequest) (hour.HourRequest, error) {
	defer r.s.lockWrite(ctx)()
	request.ID = newID()
	request.CreatedAt = r.s.now()
	request.UpdatedAt = request.CreatedAt
	r.s.data.hours[request.ID] = request
	return r.join(request), nil
}

func (r *hourRepo) Update(ctx context.Context, request hour.HourRequest) (hour.HourRequest, error) {
	defer r.s.lockWrite(ctx)()
	existing, ok := r.s.data.hours[request.ID]
	if !ok {
		return hour.HourRequest{}, hour.ErrHourRequestNotFound
	}
	existing.Date = request.Date
	existing.RequestedHours = request.RequestedHours
	existing.UpdatedAt = r.s.now()
	r.s.data.hours[request.ID] = existing
	return r.join(existing), nil
}

func (r *hourRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.data.hours[id]; !ok {
		return hour.ErrHourRequestNotFound
	}
	delete(r.s.data.hours, id)
	return nil
}

func (r *hourRepo) GetByID(ctx context.Context, id string) (hour.HourRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.data.hours[id]
	if !ok {
		return hour.HourRequest{}, hour.ErrHourRequestNotFound
	}
	return r.join(h), nil
}

func (r *hourRepo) GetByIDForUpdate(ctx context.Context, id string) (hour.HourRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *hourRepo) GetByUserID(ctx context.Context, userID string) ([]hour.HourRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(h hour.HourRequest) bool { return h.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *hourRepo) GetByStatus(ctx context.Context, status hour.Status) ([]hour.HourRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(h hour.HourRequest) bool { return h.Status == status })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *hourRepo) FindByUserIDAndDate(ctx context.Context, userID string, date time.Time) ([]hour.HourRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(h hour.HourRequest) bool {
		return h.UserID == userID && h.Date.Equal(date)
	}), nil
}

func (r *hourRepo) FindApprovedOn(ctx context.Context, date time.Time) ([]hour.HourRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(h hour.HourRequest) bool {
		u, ok := r.s.data.users[h.UserID]
		return ok && u.Role == user.RoleUser && h.Status == hour.StatusApproved && h.Date.Equal(date)
	}), nil
}

func (r *hourRepo) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]hour.HourRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(h hour.HourRequest) bool {
		return h.Status == hour.StatusPending && h.CreatedAt.Before(cutoff)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *hourRepo) UpdateStatus(ctx context.Context, id string, status hour.Status) error {
	defer r.s.lockWrite(ctx)()
	if err := r.s.fault("hour.UpdateStatus", id); err != nil {
		return err
	}
	h, ok := r.s.data.hours[id]
	if !ok {
		return hour.ErrHourRequestNotFound
	}
	if h.Status != hour.StatusPending {
		return hour.ErrHourRequestAlreadyProcessed
	}
	h.Status = status
	h.UpdatedAt = r.s.now()
	r.s.data.hours[id] = h
	return nil
}

func (r *hourRepo) ApproveWithTransaction(ctx context.Context, requestID, userID string, newBalance decimal.Decimal) error {
	defer r.s.lockWrite(ctx)()
	if err := r.s.fault("hour.ApproveWithTransaction", requestID); err != nil {
		return err
	}
	u, ok := r.s.data.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	h, ok := r.s.data.hours[requestID]
	if !ok {
		return hour.ErrHourRequestNotFound
	}
	if h.Status != hour.StatusPending {
		return hour.ErrHourRequestAlreadyProcessed
	}
	now := r.s.now()
	u.MonthlyHourBalance = newBalance
	u.UpdatedAt = now
	h.Status = hour.StatusApproved
	h.UpdatedAt = now
	r.s.data.users[userID] = u
	r.s.data.hours[requestID] = h
	return nil
}

func (r *hourRepo) CountByStatus(ctx context.Context, status hour.Status) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, h := range r.s.data.hours {
		if h.Status == status {
			n++
		}
	}
	return n, nil
}
