package postgres

import (
	"context"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
)

type companiesRepo struct {
	q dbtx
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO companies (id, name, subdomain, email, phone, address, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Subdomain, c.Email, nullStr(c.Phone), nullStr(c.Address), c.IsActive, c.CreatedAt,
	)
	return mapConflict(err)
}

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, name, subdomain, email, phone, address, is_active, created_at
		FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (r *companiesRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM companies WHERE LOWER(subdomain) = LOWER($1)`, subdomain,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *companiesRepo) SetCompanyActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE companies SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		c              domain.Company
		phone, address = nullStr(""), nullStr("")
	)
	err := row.Scan(&c.ID, &c.Name, &c.Subdomain, &c.Email, &phone, &address, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	c.Phone = strOf(phone)
	c.Address = strOf(address)
	return c, nil
}
