package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
)

type jobsRepo struct {
	q dbtx
}

func (r *jobsRepo) CreateJob(ctx context.Context, j domain.Job) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO jobs (id, company_id, title, description, department, location,
			employment_type, status, salary_min, salary_max, requirements, benefits,
			posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		j.ID, j.CompanyID, j.Title, j.Description, nullStr(j.Department), nullStr(j.Location),
		string(j.EmploymentType), string(j.Status), nullInt(j.SalaryMin), nullInt(j.SalaryMax),
		nullStr(j.Requirements), nullStr(j.Benefits), nullStr(j.PostedBy), j.CreatedAt, j.UpdatedAt,
	)
	return err
}

// jobSummaryQuery annotates each job with its application count and the
// poster's name. posted_by is nullable (poster deleted), hence the LEFT JOIN.
const jobSummaryQuery = `
	SELECT j.id, j.company_id, j.title, j.description, j.department, j.location,
	       j.employment_type, j.status, j.salary_min, j.salary_max,
	       j.requirements, j.benefits, j.posted_by, j.created_at, j.updated_at,
	       u.first_name, u.last_name,
	       COUNT(a.id) AS application_count
	FROM jobs j
	LEFT JOIN users u ON u.id = j.posted_by
	LEFT JOIN applications a ON a.job_id = j.id
	WHERE j.company_id = $1`

const jobSummaryGroup = ` GROUP BY j.id, u.first_name, u.last_name`

func (r *jobsRepo) GetJob(ctx context.Context, id, companyID string) (domain.JobSummary, error) {
	row := r.q.QueryRow(ctx,
		jobSummaryQuery+` AND j.id = $2`+jobSummaryGroup, companyID, id)
	return scanJobSummary(row)
}

func (r *jobsRepo) ListJobs(
	ctx context.Context,
	companyID string,
	filter domain.JobFilter,
) ([]domain.JobSummary, error) {
	query := jobSummaryQuery
	args := []any{companyID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND j.status = $%d`, len(args))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += fmt.Sprintf(` AND j.department = $%d`, len(args))
	}
	query += jobSummaryGroup + ` ORDER BY j.created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.JobSummary
	for rows.Next() {
		j, err := scanJobSummary(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *jobsRepo) GetOpenJob(ctx context.Context, id string) (domain.Job, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, company_id, title, description, department, location,
		       employment_type, status, salary_min, salary_max,
		       requirements, benefits, posted_by, created_at, updated_at
		FROM jobs WHERE id = $1 AND status = $2`, id, string(domain.JobActive))
	return scanJob(row)
}

func (r *jobsRepo) UpdateJob(ctx context.Context, j domain.Job) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE jobs
		SET title = $1, description = $2, department = $3, location = $4,
		    employment_type = $5, status = $6, salary_min = $7, salary_max = $8,
		    requirements = $9, benefits = $10, updated_at = $11
		WHERE id = $12 AND company_id = $13`,
		j.Title, j.Description, nullStr(j.Department), nullStr(j.Location),
		string(j.EmploymentType), string(j.Status), nullInt(j.SalaryMin), nullInt(j.SalaryMax),
		nullStr(j.Requirements), nullStr(j.Benefits), j.UpdatedAt,
		j.ID, j.CompanyID,
	)
	if err != nil {
		return err
	}
	return requireRows(tag)
}

func (r *jobsRepo) DeleteJob(ctx context.Context, id, companyID string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	return requireRows(tag)
}

func scanJob(row rowScanner) (domain.Job, error) {
	var (
		j                         domain.Job
		employmentType, status    string
		dept, loc, reqs, bens, by sql.NullString
		salaryMin, salaryMax      sql.NullInt64
	)
	err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &dept, &loc,
		&employmentType, &status, &salaryMin, &salaryMax, &reqs, &bens, &by,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return domain.Job{}, mapNotFound(err)
	}
	j.Department = strOf(dept)
	j.Location = strOf(loc)
	j.EmploymentType = domain.EmploymentType(employmentType)
	j.Status = domain.JobStatus(status)
	j.SalaryMin = intPtr(salaryMin)
	j.SalaryMax = intPtr(salaryMax)
	j.Requirements = strOf(reqs)
	j.Benefits = strOf(bens)
	j.PostedBy = strOf(by)
	return j, nil
}

func scanJobSummary(row rowScanner) (domain.JobSummary, error) {
	var (
		s                         domain.JobSummary
		employmentType, status    string
		dept, loc, reqs, bens, by sql.NullString
		salaryMin, salaryMax      sql.NullInt64
		firstName, lastName       sql.NullString
	)
	err := row.Scan(&s.ID, &s.CompanyID, &s.Title, &s.Description, &dept, &loc,
		&employmentType, &status, &salaryMin, &salaryMax, &reqs, &bens, &by,
		&s.CreatedAt, &s.UpdatedAt, &firstName, &lastName, &s.ApplicationCount)
	if err != nil {
		return domain.JobSummary{}, mapNotFound(err)
	}
	s.Department = strOf(dept)
	s.Location = strOf(loc)
	s.EmploymentType = domain.EmploymentType(employmentType)
	s.Status = domain.JobStatus(status)
	s.SalaryMin = intPtr(salaryMin)
	s.SalaryMax = intPtr(salaryMax)
	s.Requirements = strOf(reqs)
	s.Benefits = strOf(bens)
	s.PostedBy = strOf(by)
	s.PostedByName = posterName(firstName, lastName)
	return s, nil
}

func posterName(first, last sql.NullString) string {
	if first.Valid && last.Valid {
		return first.String + " " + last.String
	}
	return "Unknown"
}
