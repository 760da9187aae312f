package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
)

type applicationsRepo struct {
	q dbtx
}

const applicationColumns = `id, job_id, company_id, first_name, last_name, email,
	phone, resume_filename, cover_letter, status, notes, applied_at, updated_at`

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.JobID, a.CompanyID, a.FirstName, a.LastName, a.Email,
		nullStr(a.Phone), nullStr(a.ResumeFilename), nullStr(a.CoverLetter),
		string(a.Status), nullStr(a.Notes), a.AppliedAt, a.UpdatedAt,
	)
	return err
}

func (r *applicationsRepo) GetApplication(ctx context.Context, id, companyID string) (domain.Application, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND company_id = $2`,
		id, companyID)
	return scanApplication(row)
}

func (r *applicationsRepo) ListApplicationsForJob(
	ctx context.Context,
	jobID, companyID string,
	status domain.ApplicationStatus,
) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND company_id = $2`
	args := []any{jobID, companyID}

	if status != "" {
		query += ` AND status = $3`
		args = append(args, string(status))
	}
	query += ` ORDER BY applied_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *applicationsRepo) UpdateApplicationStatus(
	ctx context.Context,
	id, companyID string,
	status domain.ApplicationStatus,
	notes string,
) (domain.Application, error) {
	now := time.Now().UTC()
	tag, err := r.q.Exec(ctx, `
		UPDATE applications
		SET status = $1, notes = $2, updated_at = $3
		WHERE id = $4 AND company_id = $5`,
		string(status), nullStr(notes), now, id, companyID,
	)
	if err != nil {
		return domain.Application{}, err
	}
	if err := requireRows(tag); err != nil {
		return domain.Application{}, err
	}
	return r.GetApplication(ctx, id, companyID)
}

func (r *applicationsRepo) ResumeFilenames(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT resume_filename FROM applications WHERE resume_filename IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanApplication(row rowScanner) (domain.Application, error) {
	var (
		a                           domain.Application
		status                      string
		phone, resume, cover, notes sql.NullString
	)
	err := row.Scan(&a.ID, &a.JobID, &a.CompanyID, &a.FirstName, &a.LastName, &a.Email,
		&phone, &resume, &cover, &status, &notes, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Application{}, mapNotFound(err)
	}
	a.Phone = strOf(phone)
	a.ResumeFilename = strOf(resume)
	a.CoverLetter = strOf(cover)
	a.Status = domain.ApplicationStatus(status)
	a.Notes = strOf(notes)
	return a, nil
}
