package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
)

func TestJobCreateDefaults(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	reg := registerCompany(t, accounts, "acme")

	job, err := jobs.Create(context.Background(), reg.Principal.Company.ID, reg.Principal.User.ID, JobParams{
		Title:       "Backend Engineer",
		Description: "Build the things",
	})
	require.NoError(t, err)

	require.Equal(t, domain.JobActive, job.Status, "status defaults to active")
	require.Equal(t, domain.EmploymentFullTime, job.EmploymentType, "employment type defaults to full-time")
	require.Equal(t, 0, job.ApplicationCount)
	require.Equal(t, "Ada Admin", job.PostedByName)
	require.Nil(t, job.SalaryMin)
}

func TestJobListFilters(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()
	companyID := reg.Principal.Company.ID

	postJob(t, jobs, companyID, reg.Principal.User.ID, domain.JobActive)
	postJob(t, jobs, companyID, reg.Principal.User.ID, domain.JobPaused)
	closed, err := jobs.Create(ctx, companyID, reg.Principal.User.ID, JobParams{
		Title: "Sales Rep", Description: "Sell the things",
		Department: "Sales", Status: domain.JobClosed,
	})
	require.NoError(t, err)

	all, err := jobs.List(ctx, companyID, domain.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	paused, err := jobs.List(ctx, companyID, domain.JobFilter{Status: domain.JobPaused})
	require.NoError(t, err)
	require.Len(t, paused, 1)
	require.Equal(t, domain.JobPaused, paused[0].Status)

	sales, err := jobs.List(ctx, companyID, domain.JobFilter{Department: "Sales"})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, closed.ID, sales[0].ID)
}

func TestJobTenantScoping(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	ctx := context.Background()

	acme := registerCompany(t, accounts, "acme")
	globex := registerCompany(t, accounts, "globex")

	job := postJob(t, jobs, acme.Principal.Company.ID, acme.Principal.User.ID, domain.JobActive)

	// Another tenant cannot see, update, or delete the job; all three read
	// as not found rather than forbidden.
	_, err := jobs.Get(ctx, job.ID, globex.Principal.Company.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = jobs.Update(ctx, job.ID, globex.Principal.Company.ID, JobParams{
		Title: "Hijacked", Description: "x",
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	err = jobs.Delete(ctx, job.ID, globex.Principal.Company.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The owner still sees it untouched.
	got, err := jobs.Get(ctx, job.ID, acme.Principal.Company.ID)
	require.NoError(t, err)
	require.Equal(t, "Backend Engineer", got.Title)
}

func TestJobUpdate(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, domain.JobActive)

	salaryMin := int64(90000)
	updated, err := jobs.Update(ctx, job.ID, reg.Principal.Company.ID, JobParams{
		Title:          "Senior Backend Engineer",
		Description:    "Build bigger things",
		Department:     "Engineering",
		Location:       "Remote",
		EmploymentType: domain.EmploymentContract,
		Status:         domain.JobPaused,
		SalaryMin:      &salaryMin,
	})
	require.NoError(t, err)
	require.Equal(t, "Senior Backend Engineer", updated.Title)
	require.Equal(t, domain.JobPaused, updated.Status)
	require.Equal(t, domain.EmploymentContract, updated.EmploymentType)
	require.NotNil(t, updated.SalaryMin)
	require.Equal(t, salaryMin, *updated.SalaryMin)
	require.Equal(t, job.PostedBy, updated.PostedBy, "poster never changes")
	require.Equal(t, job.CreatedAt, updated.CreatedAt)
	require.False(t, updated.UpdatedAt.Before(job.UpdatedAt))
}

func TestJobDelete(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, domain.JobActive)
	require.NoError(t, jobs.Delete(ctx, job.ID, reg.Principal.Company.ID))

	_, err := jobs.Get(ctx, job.ID, reg.Principal.Company.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = jobs.Delete(ctx, job.ID, reg.Principal.Company.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
