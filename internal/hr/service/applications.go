package service

import (
	"context"
	"strings"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/pkg/idx"
)

// ApplicationService covers the public apply flow and the authenticated
// application pipeline.
type ApplicationService struct {
	store store.Store
}

func NewApplicationService(st store.Store) *ApplicationService {
	return &ApplicationService{store: st}
}

type SubmitApplicationParams struct {
	JobID          string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	CoverLetter    string
	ResumeFilename string // already stored by the upload store; empty if none
}

// Submit records a public application against an open job. Returns
// store.ErrNotFound when the job does not exist or is not accepting
// applications, indistinguishably.
func (s *ApplicationService) Submit(ctx context.Context, p SubmitApplicationParams) (domain.Application, error) {
	job, err := s.store.Jobs().GetOpenJob(ctx, p.JobID)
	if err != nil {
		return domain.Application{}, err
	}

	now := time.Now().UTC()
	app := domain.Application{
		ID:             idx.New().String(),
		JobID:          job.ID,
		CompanyID:      job.CompanyID, // denormalized for tenant-scoped reads
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Email:          strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:          strings.TrimSpace(p.Phone),
		ResumeFilename: p.ResumeFilename,
		CoverLetter:    p.CoverLetter,
		Status:         domain.ApplicationPending,
		AppliedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Applications().CreateApplication(ctx, app); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

// ListForJob returns a job's applications, newest first, optionally
// filtered by status. Job ownership is verified first so a foreign job id
// yields store.ErrNotFound rather than an empty list.
func (s *ApplicationService) ListForJob(
	ctx context.Context,
	jobID, companyID string,
	status domain.ApplicationStatus,
) ([]domain.Application, error) {
	if _, err := s.store.Jobs().GetJob(ctx, jobID, companyID); err != nil {
		return nil, err
	}
	return s.store.Applications().ListApplicationsForJob(ctx, jobID, companyID, status)
}

// UpdateStatus moves an application to any status in the valid set and
// overwrites its notes.
func (s *ApplicationService) UpdateStatus(
	ctx context.Context,
	id, companyID string,
	status domain.ApplicationStatus,
	notes string,
) (domain.Application, error) {
	return s.store.Applications().UpdateApplicationStatus(ctx, id, companyID, status, notes)
}
