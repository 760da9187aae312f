package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, company_id, email, password_hash, first_name, last_name,
	role, department, position, hire_date, is_active, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var hireDate sql.NullTime
	if u.HireDate != nil {
		hireDate = sql.NullTime{Time: *u.HireDate, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.CompanyID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		string(u.Role), nullStr(u.Department), nullStr(u.Position), hireDate,
		u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = LOWER(?)`, email,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *usersRepo) GetLoginUser(ctx context.Context, email string) (domain.User, domain.Company, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT u.id, u.company_id, u.email, u.password_hash, u.first_name, u.last_name,
		       u.role, u.department, u.position, u.hire_date, u.is_active, u.created_at, u.updated_at,
		       c.id, c.name, c.subdomain, c.email, c.phone, c.address, c.is_active, c.created_at
		FROM users u
		JOIN companies c ON c.id = u.company_id
		WHERE u.email = LOWER(?) AND u.is_active = 1`, email)
	return scanUserWithCompany(row)
}

func (r *usersRepo) GetPrincipal(ctx context.Context, userID string) (domain.Principal, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT u.id, u.company_id, u.email, u.password_hash, u.first_name, u.last_name,
		       u.role, u.department, u.position, u.hire_date, u.is_active, u.created_at, u.updated_at,
		       c.id, c.name, c.subdomain, c.email, c.phone, c.address, c.is_active, c.created_at
		FROM users u
		JOIN companies c ON c.id = u.company_id
		WHERE u.id = ? AND u.is_active = 1 AND c.is_active = 1`, userID)

	user, company, err := scanUserWithCompany(row)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{User: user, Company: company}, nil
}

func (r *usersRepo) UpdateUserProfile(
	ctx context.Context,
	userID, firstName, lastName, department, position string,
) (domain.User, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET first_name = ?, last_name = ?, department = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		firstName, lastName, nullStr(department), nullStr(position), now, userID,
	)
	if err != nil {
		return domain.User{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.User{}, err
	}
	if n == 0 {
		return domain.User{}, mapNotFound(sql.ErrNoRows)
	}
	return r.GetUserByID(ctx, userID)
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u               domain.User
		role            string
		dept, pos       sql.NullString
		hireDate        sql.NullTime
	)
	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&role, &dept, &pos, &hireDate, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.Department = strOf(dept)
	u.Position = strOf(pos)
	if hireDate.Valid {
		t := hireDate.Time
		u.HireDate = &t
	}
	return u, nil
}

func scanUserWithCompany(row rowScanner) (domain.User, domain.Company, error) {
	var (
		u              domain.User
		c              domain.Company
		role           string
		dept, pos      sql.NullString
		hireDate       sql.NullTime
		phone, address sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&role, &dept, &pos, &hireDate, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&c.ID, &c.Name, &c.Subdomain, &c.Email, &phone, &address, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		return domain.User{}, domain.Company{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.Department = strOf(dept)
	u.Position = strOf(pos)
	if hireDate.Valid {
		t := hireDate.Time
		u.HireDate = &t
	}
	c.Phone = strOf(phone)
	c.Address = strOf(address)
	return u, c, nil
}
