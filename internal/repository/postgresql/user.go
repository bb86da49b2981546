package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.department_id,
	u.annual_leave_balance, u.monthly_hour_balance, u.hiring_date, u.profile_image_url,
	u.created_at, u.updated_at, d.name`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.DepartmentID,
		&u.AnnualLeaveBalance,
		&u.MonthlyHourBalance,
		&u.HiringDate,
		&u.ProfileImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DepartmentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	query := `
		INSERT INTO users (
			id, name, email, password_hash, role, department_id,
			annual_leave_balance, monthly_hour_balance, hiring_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = q.Exec(ctx, query,
		id.String(),
		newUser.Name,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.DepartmentID,
		newUser.AnnualLeaveBalance,
		newUser.MonthlyHourBalance,
		newUser.HiringDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.id = $1
	`
	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate implements user.UserRepository.
func (r *userRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.id = $1
		FOR UPDATE OF u
	`
	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE LOWER(u.email) = LOWER($1)
	`
	return scanUser(q.QueryRow(ctx, query, email))
}

// ListNonAdmin implements user.UserRepository.
func (r *userRepositoryImpl) ListNonAdmin(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT` + userColumns + `
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.role <> 'admin'
		ORDER BY u.name, u.id
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListSummaries implements user.UserRepository.
func (r *userRepositoryImpl) ListSummaries(ctx context.Context, limit, offset int) ([]user.Summary, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT u.id, u.name, u.email, d.name, u.annual_leave_balance, u.monthly_hour_balance,
			   COALESCE((
				   SELECT SUM(lr.requested_days) FROM leave_requests lr
				   WHERE lr.user_id = u.id AND lr.status = 'approved'
			   ), 0) AS leave_taken,
			   u.hiring_date
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.role <> 'admin'
		ORDER BY u.name, u.id
		LIMIT $1 OFFSET $2
	`
	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []user.Summary{}
	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Email,
			&s.DepartmentName,
			&s.AnnualLeaveBalance,
			&s.MonthlyHourBalance,
			&s.LeaveTaken,
			&s.HiringDate,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CountNonAdmin implements user.UserRepository.
func (r *userRepositoryImpl) CountNonAdmin(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role <> 'admin'`).Scan(&total)
	return total, err
}

func (r *userRepositoryImpl) updateBalance(ctx context.Context, column, id string, balance decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	tag, err := q.Exec(ctx, query, balance, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateAnnualLeaveBalance implements user.UserRepository.
func (r *userRepositoryImpl) UpdateAnnualLeaveBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	return r.updateBalance(ctx, "annual_leave_balance", id, balance)
}

// UpdateMonthlyHourBalance implements user.UserRepository.
func (r *userRepositoryImpl) UpdateMonthlyHourBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	return r.updateBalance(ctx, "monthly_hour_balance", id, balance)
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, id string, name *string, departmentID *int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
			department_id = COALESCE($2, department_id),
			updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, name, departmentID, id)
	if err != nil {
		return user.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateProfileImage implements user.UserRepository. A nil imageURL clears the image.
func (r *userRepositoryImpl) UpdateProfileImage(ctx context.Context, id string, imageURL *string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE users SET profile_image_url = $1, updated_at = NOW() WHERE id = $2`, imageURL, id)
	if err != nil {
		return user.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete implements user.UserRepository. Requests and attendance rows cascade.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListApprovedRequests implements user.UserRepository.
func (r *userRepositoryImpl) ListApprovedRequests(ctx context.Context, userID string, limit, offset int) ([]user.RequestHistoryItem, int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, kind, start_date, end_date, requested_days, date, requested_hours, status, created_at
		FROM (
			SELECT id, 'leave' AS kind, start_date, end_date, requested_days,
				   NULL::date AS date, NULL::int AS requested_hours, status, created_at
			FROM leave_requests
			WHERE user_id = $1 AND status = 'approved'
			UNION ALL
			SELECT id, 'hour' AS kind, NULL::date, NULL::date, NULL::int,
				   date, requested_hours::int, status, created_at
			FROM hour_requests
			WHERE user_id = $1 AND status = 'approved'
		) history
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []user.RequestHistoryItem{}
	for rows.Next() {
		var item user.RequestHistoryItem
		if err := rows.Scan(
			&item.ID,
			&item.Kind,
			&item.StartDate,
			&item.EndDate,
			&item.RequestedDays,
			&item.Date,
			&item.RequestedHours,
			&item.Status,
			&item.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `
		SELECT
			(SELECT COUNT(*) FROM leave_requests WHERE user_id = $1 AND status = 'approved') +
			(SELECT COUNT(*) FROM hour_requests WHERE user_id = $1 AND status = 'approved')
	`
	var total int64
	if err := q.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) user.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

// List implements user.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]user.Department, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := []user.Department{}
	for rows.Next() {
		var d user.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Exists implements user.DepartmentRepository.
func (r *departmentRepositoryImpl) Exists(ctx context.Context, id int64) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM departments WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
