// Package memstore is an in-memory implementation of every repository, used by
// service and handler tests in place of PostgreSQL.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/hour"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/leave"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/google/uuid"
)

type attendanceKey struct {
	userID string
	date   string
}

func keyFor(userID string, date time.Time) attendanceKey {
	return attendanceKey{userID: userID, date: date.Format("2006-01-02")}
}

type state struct {
	users       map[string]user.User
	departments map[int64]user.Department
	leaves      map[string]leave.LeaveRequest
	hours       map[string]hour.HourRequest
	attendance  map[attendanceKey]attendance.Attendance
}

func (s state) clone() state {
	c := state{
		users:       make(map[string]user.User, len(s.users)),
		departments: make(map[int64]user.Department, len(s.departments)),
		leaves:      make(map[string]leave.LeaveRequest, len(s.leaves)),
		hours:       make(map[string]hour.HourRequest, len(s.hours)),
		attendance:  make(map[attendanceKey]attendance.Attendance, len(s.attendance)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.leaves {
		c.leaves[k] = v
	}
	for k, v := range s.hours {
		c.hours[k] = v
	}
	for k, v := range s.attendance {
		c.attendance[k] = v
	}
	return c
}

// Store holds all tables behind one mutex. Transactions are serialized and
// roll back by restoring a snapshot; writes made outside a transaction wait
// for the running one to finish, so a rollback only ever undoes its own work.
type Store struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	data   state
	clock  clock.Clock
	deptID int64
	faults map[string]error
}

func New(c clock.Clock) *Store {
	return &Store{
		data: state{
			users:       map[string]user.User{},
			departments: map[int64]user.Department{},
			leaves:      map[string]leave.LeaveRequest{},
			hours:       map[string]hour.HourRequest{},
			attendance:  map[attendanceKey]attendance.Attendance{},
		},
		clock:  c,
		faults: map[string]error{},
	}
}

// FailWith makes the operation op on key return err, e.g.
// FailWith("leave.UpdateStatus", requestID, err) or FailWith("attendance.Upsert", userID, err).
func (s *Store) FailWith(op, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op+"/"+key] = err
}

// fault must be called with s.mu held.
func (s *Store) fault(op, key string) error {
	return s.faults[op+"/"+key]
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

// Users returns the user repository view.
func (s *Store) Users() user.UserRepository { return &userRepo{s} }

func (s *Store) Departments() user.DepartmentRepository { return &departmentRepo{s} }

func (s *Store) Leaves() leave.LeaveRequestRepository { return &leaveRepo{s} }

func (s *Store) Hours() hour.HourRequestRepository { return &hourRepo{s} }

func (s *Store) Attendance() attendance.AttendanceRepository { return &attendanceRepo{s} }

func (s *Store) Transactor() database.Transactor { return &transactor{s} }

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// lockWrite takes the store lock for a write and returns its release.
func (s *Store) lockWrite(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

type transactor struct {
	s *Store
}

// WithinTransaction joins a transaction already carried by ctx.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)

	t.s.mu.Lock()
	snapshot := t.s.data.clone()
	t.s.mu.Unlock()

	restore := func() {
		t.s.mu.Lock()
		t.s.data = snapshot
		t.s.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

// Seed helpers

func (s *Store) AddUser(u user.User) user.User {
	defer s.lockWrite(context.Background())()
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	u.UpdatedAt = u.CreatedAt
	s.data.users[u.ID] = u
	return u
}

func (s *Store) AddDepartment(name string) user.Department {
	defer s.lockWrite(context.Background())()
	s.deptID++
	d := user.Department{ID: s.deptID, Name: name}
	s.data.departments[d.ID] = d
	return d
}

func (s *Store) AddLeave(r leave.LeaveRequest) leave.LeaveRequest {
	defer s.lockWrite(context.Background())()
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Status == "" {
		r.Status = leave.StatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.UpdatedAt = r.CreatedAt
	s.data.leaves[r.ID] = r
	return r
}

func (s *Store) AddHour(r hour.HourRequest) hour.HourRequest {
	defer s.lockWrite(context.Background())()
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Status == "" {
		r.Status = hour.StatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.UpdatedAt = r.CreatedAt
	s.data.hours[r.ID] = r
	return r
}

// Inspection helpers

func (s *Store) User(id string) (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	return u, ok
}

func (s *Store) Leave(id string) (leave.LeaveRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.leaves[id]
	return r, ok
}

func (s *Store) Hour(id string) (hour.HourRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.hours[id]
	return r, ok
}

// AttendanceOn returns the status recorded for each user on date.
func (s *Store) AttendanceOn(date time.Time) map[string]attendance.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]attendance.Status{}
	day := date.Format("2006-01-02")
	for k, a := range s.data.attendance {
		if k.date == day {
			out[k.userID] = a.Status
		}
	}
	return out
}

func (s *Store) AttendanceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.attendance)
}

func (s *Store) departmentName(id *int64) *string {
	if id == nil {
		return nil
	}
	d, ok := s.data.departments[*id]
	if !ok {
		return nil
	}
	name := d.Name
	return &name
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
