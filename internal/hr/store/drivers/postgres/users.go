package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
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

	_, err := r.q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.ID, u.CompanyID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		string(u.Role), nullStr(u.Department), nullStr(u.Position), hireDate,
		u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE email = LOWER($1)`, email,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *usersRepo) GetLoginUser(ctx context.Context, email string) (domain.User, domain.Company, error) {
	row := r.q.QueryRow(ctx, `
		SELECT u.id, u.company_id, u.email, u.password_hash, u.first_name, u.last_name,
		       u.role, u.department, u.position, u.hire_date, u.is_active, u.created_at, u.updated_at,
		       c.id, c.name, c.subdomain, c.email, c.phone, c.address, c.is_active, c.created_at
		FROM users u
		JOIN companies c ON c.id = u.company_id
		WHERE u.email = LOWER($1) AND u.is_active = TRUE`, email)
	return scanUserWithCompany(row)
}

func (r *usersRepo) GetPrincipal(ctx context.Context, userID string) (domain.Principal, error) {
	row := r.q.QueryRow(ctx, `
		SELECT u.id, u.company_id, u.email, u.password_hash, u.first_name, u.last_name,
		       u.role, u.department, u.position, u.hire_date, u.is_active, u.created_at, u.updated_at,
		       c.id, c.name, c.subdomain, c.email, c.phone, c.address, c.is_active, c.created_at
		FROM users u
		JOIN companies c ON c.id = u.company_id
		WHERE u.id = $1 AND u.is_active = TRUE AND c.is_active = TRUE`, userID)

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
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, department = $3, position = $4, updated_at = $5
		WHERE id = $6`,
		firstName, lastName, nullStr(department), nullStr(position), now, userID,
	)
	if err != nil {
		return domain.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return r.GetUserByID(ctx, userID)
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		role      string
		dept, pos sql.NullString
		hireDate  sql.NullTime
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
