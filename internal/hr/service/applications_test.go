package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
)

func TestSubmitApplication(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	apps := NewApplicationService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, domain.JobActive)

	app, err := apps.Submit(ctx, SubmitApplicationParams{
		JobID:          job.ID,
		FirstName:      "Carol",
		LastName:       "Candidate",
		Email:          "Carol@Example.com",
		Phone:          "555-0100",
		CoverLetter:    "Hire me",
		ResumeFilename: "resume-123-abc.pdf",
	})
	require.NoError(t, err)

	require.Equal(t, domain.ApplicationPending, app.Status)
	require.Equal(t, reg.Principal.Company.ID, app.CompanyID, "company id comes from the job, not the caller")
	require.Equal(t, "carol@example.com", app.Email)

	// The job's application count reflects the submission.
	got, err := jobs.Get(ctx, job.ID, reg.Principal.Company.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.ApplicationCount)
}

func TestSubmitApplicationClosedJob(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	apps := NewApplicationService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	params := SubmitApplicationParams{
		FirstName: "Carol", LastName: "Candidate", Email: "carol@example.com",
	}

	// Paused and closed jobs read exactly like missing ones.
	for _, status := range []domain.JobStatus{domain.JobPaused, domain.JobClosed} {
		job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, status)
		params.JobID = job.ID
		_, err := apps.Submit(ctx, params)
		require.ErrorIs(t, err, store.ErrNotFound, string(status))
	}

	params.JobID = "no-such-job"
	_, err := apps.Submit(ctx, params)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListApplicationsForJob(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	apps := NewApplicationService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, domain.JobActive)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := apps.Submit(ctx, SubmitApplicationParams{
			JobID: job.ID, FirstName: "A", LastName: "B", Email: email,
		})
		require.NoError(t, err)
	}

	list, err := apps.ListForJob(ctx, job.ID, reg.Principal.Company.ID, "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Status filter.
	reviewed, err := apps.UpdateStatus(ctx, list[0].ID, reg.Principal.Company.ID, domain.ApplicationReviewing, "")
	require.NoError(t, err)

	reviewing, err := apps.ListForJob(ctx, job.ID, reg.Principal.Company.ID, domain.ApplicationReviewing)
	require.NoError(t, err)
	require.Len(t, reviewing, 1)
	require.Equal(t, reviewed.ID, reviewing[0].ID)

	// A foreign tenant gets not-found, not an empty list.
	globex := registerCompany(t, accounts, "globex")
	_, err = apps.ListForJob(ctx, job.ID, globex.Principal.Company.ID, "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateApplicationStatus(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	apps := NewApplicationService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, domain.JobActive)
	app, err := apps.Submit(ctx, SubmitApplicationParams{
		JobID: job.ID, FirstName: "Carol", LastName: "Candidate", Email: "carol@example.com",
	})
	require.NoError(t, err)

	// Any status in the valid set is reachable from any other; "hired"
	// straight from "pending" is allowed.
	updated, err := apps.UpdateStatus(ctx, app.ID, reg.Principal.Company.ID, domain.ApplicationHired, "fast hire")
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationHired, updated.Status)
	require.Equal(t, "fast hire", updated.Notes)
	require.False(t, updated.UpdatedAt.Before(app.UpdatedAt))

	// Cross-tenant updates read as not found.
	globex := registerCompany(t, accounts, "globex")
	_, err = apps.UpdateStatus(ctx, app.ID, globex.Principal.Company.ID, domain.ApplicationRejected, "")
	require.ErrorIs(t, err, store.ErrNotFound)
}
