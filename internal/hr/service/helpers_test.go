package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/internal/hr/store/drivers/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestTokens() *TokenService {
	return NewTokenService([]byte("test-secret"), "peoplepulse-test", time.Hour)
}

// registerCompany seeds a company with an admin through the real
// registration flow and returns the session.
func registerCompany(t *testing.T, accounts *AccountService, subdomain string) Session {
	t.Helper()

	sess, err := accounts.RegisterCompany(context.Background(), RegisterCompanyParams{
		CompanyName:    subdomain + " Inc",
		Subdomain:      subdomain,
		Email:          "contact@" + subdomain + ".example.com",
		AdminEmail:     "admin@" + subdomain + ".example.com",
		AdminPassword:  "correct horse battery staple",
		AdminFirstName: "Ada",
		AdminLastName:  "Admin",
	})
	require.NoError(t, err)
	return sess
}

// postJob seeds a job for the company and returns it.
func postJob(t *testing.T, jobs *JobService, companyID, postedBy string, status domain.JobStatus) domain.JobSummary {
	t.Helper()

	job, err := jobs.Create(context.Background(), companyID, postedBy, JobParams{
		Title:       "Backend Engineer",
		Description: "Build the things",
		Department:  "Engineering",
		Status:      status,
	})
	require.NoError(t, err)
	return job
}
