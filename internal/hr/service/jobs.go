package service

import (
	"context"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/pkg/idx"
)

// JobService manages a company's job postings. Every method is scoped to a
// company id taken from the authenticated principal, never from the request.
type JobService struct {
	store store.Store
}

func NewJobService(st store.Store) *JobService {
	return &JobService{store: st}
}

type JobParams struct {
	Title          string
	Description    string
	Department     string
	Location       string
	EmploymentType domain.EmploymentType
	Status         domain.JobStatus
	SalaryMin      *int64
	SalaryMax      *int64
	Requirements   string
	Benefits       string
}

// Create posts a new job for the company, attributed to postedBy.
func (s *JobService) Create(ctx context.Context, companyID, postedBy string, p JobParams) (domain.JobSummary, error) {
	now := time.Now().UTC()
	job := domain.Job{
		ID:             idx.New().String(),
		CompanyID:      companyID,
		Title:          p.Title,
		Description:    p.Description,
		Department:     p.Department,
		Location:       p.Location,
		EmploymentType: p.EmploymentType,
		Status:         p.Status,
		SalaryMin:      p.SalaryMin,
		SalaryMax:      p.SalaryMax,
		Requirements:   p.Requirements,
		Benefits:       p.Benefits,
		PostedBy:       postedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if job.Status == "" {
		job.Status = domain.JobActive
	}
	if job.EmploymentType == "" {
		job.EmploymentType = domain.EmploymentFullTime
	}

	if err := s.store.Jobs().CreateJob(ctx, job); err != nil {
		return domain.JobSummary{}, err
	}
	// Re-read for the annotated form (count, poster name).
	return s.store.Jobs().GetJob(ctx, job.ID, companyID)
}

// List returns the company's jobs matching filter, newest first.
func (s *JobService) List(ctx context.Context, companyID string, filter domain.JobFilter) ([]domain.JobSummary, error) {
	return s.store.Jobs().ListJobs(ctx, companyID, filter)
}

// Get returns a single job scoped to the company.
func (s *JobService) Get(ctx context.Context, id, companyID string) (domain.JobSummary, error) {
	return s.store.Jobs().GetJob(ctx, id, companyID)
}

// Update replaces the job's mutable fields. The poster and creation time
// never change.
func (s *JobService) Update(ctx context.Context, id, companyID string, p JobParams) (domain.JobSummary, error) {
	existing, err := s.store.Jobs().GetJob(ctx, id, companyID)
	if err != nil {
		return domain.JobSummary{}, err
	}

	job := existing.Job
	job.Title = p.Title
	job.Description = p.Description
	job.Department = p.Department
	job.Location = p.Location
	job.EmploymentType = p.EmploymentType
	job.Status = p.Status
	job.SalaryMin = p.SalaryMin
	job.SalaryMax = p.SalaryMax
	job.Requirements = p.Requirements
	job.Benefits = p.Benefits
	job.UpdatedAt = time.Now().UTC()
	if job.Status == "" {
		job.Status = existing.Status
	}
	if job.EmploymentType == "" {
		job.EmploymentType = existing.EmploymentType
	}

	if err := s.store.Jobs().UpdateJob(ctx, job); err != nil {
		return domain.JobSummary{}, err
	}
	return s.store.Jobs().GetJob(ctx, id, companyID)
}

// Delete removes the job and, via cascade, its applications.
func (s *JobService) Delete(ctx context.Context, id, companyID string) error {
	return s.store.Jobs().DeleteJob(ctx, id, companyID)
}
