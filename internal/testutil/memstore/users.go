package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) withDepartment(u user.User) user.User {
	u.DepartmentName = r.s.departmentName(u.DepartmentID)
	return u
}

func (r *userRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	defer r.s.lockWrite(ctx)()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	newUser.ID = newID()
	newUser.CreatedAt = r.s.now()
	newUser.UpdatedAt = newUser.CreatedAt
	r.s.data.users[newUser.ID] = newUser
	return r.withDepartment(newUser), nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.withDepartment(u), nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id string) (user.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return r.withDepartment(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// nonAdminByName must be called with s.mu held.
func (r *userRepo) nonAdminByName() []user.User {
	var out []user.User
	for _, u := range r.s.data.users {
		if u.Role != user.RoleAdmin {
			out = append(out, r.withDepartment(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *userRepo) ListNonAdmin(ctx context.Context) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.nonAdminByName(), nil
}

func (r *userRepo) ListSummaries(ctx context.Context, limit, offset int) ([]user.Summary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []user.Summary
	for _, u := range paginate(r.nonAdminByName(), limit, offset) {
		taken := 0
		for _, l := range r.s.data.leaves {
			if l.UserID == u.ID && l.Status == leave.StatusApproved {
				taken += l.RequestedDays
			}
		}
		out = append(out, user.Summary{
			ID:                 u.ID,
			Name:               u.Name,
			Email:              u.Email,
			DepartmentName:     u.DepartmentName,
			AnnualLeaveBalance: u.AnnualLeaveBalance,
			MonthlyHourBalance: u.MonthlyHourBalance,
			LeaveTaken:         taken,
			HiringDate:         u.HiringDate,
		})
	}
	return out, nil
}

func (r *userRepo) CountNonAdmin(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.nonAdminByName())), nil
}

func (r *userRepo) UpdateAnnualLeaveBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	defer r.s.lockWrite(ctx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.AnnualLeaveBalance = balance
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return nil
}

func (r *userRepo) UpdateMonthlyHourBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	defer r.s.lockWrite(ctx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.MonthlyHourBalance = balance
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id string, name *string, departmentID *int64) (user.User, error) {
	defer r.s.lockWrite(ctx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if departmentID != nil {
		u.DepartmentID = departmentID
	}
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return r.withDepartment(u), nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	defer r.s.lockWrite(ctx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return nil
}

func (r *userRepo) UpdateProfileImage(ctx context.Context, id string, imageURL *string) (user.User, error) {
	defer r.s.lockWrite(ctx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.ProfileImageURL = imageURL
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return r.withDepartment(u), nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.data.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.data.users, id)
	for k, l := range r.s.data.leaves {
		if l.UserID == id {
			delete(r.s.data.leaves, k)
		}
	}
	for k, h := range r.s.data.hours {
		if h.UserID == id {
			delete(r.s.data.hours, k)
		}
	}
	for k := range r.s.data.attendance {
		if k.userID == id {
			delete(r.s.data.attendance, k)
		}
	}
	return nil
}

func (r *userRepo) ListApprovedRequests(ctx context.Context, userID string, limit, offset int) ([]user.RequestHistoryItem, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []user.RequestHistoryItem
	for _, l := range r.s.data.leaves {
		if l.UserID != userID || l.Status != leave.StatusApproved {
			continue
		}
		start, end, days := l.StartDate, l.EndDate, l.RequestedDays
		items = append(items, user.RequestHistoryItem{
			ID:            l.ID,
			Kind:          user.RequestKindLeave,
			StartDate:     &start,
			EndDate:       &end,
			RequestedDays: &days,
			Status:        string(l.Status),
			CreatedAt:     l.CreatedAt,
		})
	}
	for _, h := range r.s.data.hours {
		if h.UserID != userID || h.Status != hour.StatusApproved {
			continue
		}
		date, hours := h.Date, h.RequestedHours
		items = append(items, user.RequestHistoryItem{
			ID:             h.ID,
			Kind:           user.RequestKindHour,
			Date:           &date,
			RequestedHours: &hours,
			Status:         string(h.Status),
			CreatedAt:      h.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return paginate(items, limit, offset), int64(len(items)), nil
}

type departmentRepo struct {
	s *Store
}

func (r *departmentRepo) List(ctx context.Context) ([]user.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]user.Department, 0, len(r.s.data.departments))
	for _, d := range r.s.data.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *departmentRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.data.departments[id]
	return ok, nil
}
