package sqlite

import (
	"context"
	"database/sql"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
)

type jobsRepo struct {
	q dbtx
}

func (r *jobsRepo) CreateJob(ctx context.Context, j domain.Job) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO jobs (id, company_id, title, description, department, location,
			employment_type, status, salary_min, salary_max, requirements, benefits,
			posted_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
	WHERE j.company_id = ?`

const jobSummaryGroup = ` GROUP BY j.id, u.first_name, u.last_name`

func (r *jobsRepo) GetJob(ctx context.Context, id, companyID string) (domain.JobSummary, error) {
	row := r.q.QueryRowContext(ctx,
		jobSummaryQuery+` AND j.id = ?`+jobSummaryGroup, companyID, id)
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
		query += ` AND j.status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Department != "" {
		query += ` AND j.department = ?`
		args = append(args, filter.Department)
	}
	query += jobSummaryGroup + ` ORDER BY j.created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
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
	row := r.q.QueryRowContext(ctx, `
		SELECT id, company_id, title, description, department, location,
		       employment_type, status, salary_min, salary_max,
		       requirements, benefits, posted_by, created_at, updated_at
		FROM jobs WHERE id = ? AND status = ?`, id, string(domain.JobActive))
	return scanJob(row)
}

func (r *jobsRepo) UpdateJob(ctx context.Context, j domain.Job) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE jobs
		SET title = ?, description = ?, department = ?, location = ?,
		    employment_type = ?, status = ?, salary_min = ?, salary_max = ?,
		    requirements = ?, benefits = ?, updated_at = ?
		WHERE id = ? AND company_id = ?`,
		j.Title, j.Description, nullStr(j.Department), nullStr(j.Location),
		string(j.EmploymentType), string(j.Status), nullInt(j.SalaryMin), nullInt(j.SalaryMax),
		nullStr(j.Requirements), nullStr(j.Benefits), j.UpdatedAt,
		j.ID, j.CompanyID,
	)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *jobsRepo) DeleteJob(ctx context.Context, id, companyID string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ? AND company_id = ?`, id, companyID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanJob(row rowScanner) (domain.Job, error) {
	var (
		j                          domain.Job
		employmentType, status     string
		dept, loc, reqs, bens, by  sql.NullString
		salaryMin, salaryMax       sql.NullInt64
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
