package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/upload"
)

func TestHousekeepingSweep(t *testing.T) {
	st := newTestStore(t)
	accounts := NewAccountService(st, newTestTokens())
	jobs := NewJobService(st)
	apps := NewApplicationService(st)
	reg := registerCompany(t, accounts, "acme")
	ctx := context.Background()

	uploads, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	// One referenced resume, one orphan.
	referenced, err := uploads.SaveResume("cv.pdf", strings.NewReader("kept"))
	require.NoError(t, err)
	orphan, err := uploads.SaveResume("cv.pdf", strings.NewReader("orphan"))
	require.NoError(t, err)

	job := postJob(t, jobs, reg.Principal.Company.ID, reg.Principal.User.ID, domain.JobActive)
	_, err = apps.Submit(ctx, SubmitApplicationParams{
		JobID: job.ID, FirstName: "Carol", LastName: "Candidate",
		Email: "carol@example.com", ResumeFilename: referenced,
	})
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(uploads.Dir(), referenced), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(uploads.Dir(), orphan), old, old))

	hk := NewHousekeeping(st, uploads, slog.New(slog.DiscardHandler), "@every 1h", 24*time.Hour)
	removed, err := hk.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	require.FileExists(t, filepath.Join(uploads.Dir(), referenced))
	require.NoFileExists(t, filepath.Join(uploads.Dir(), orphan))
}
