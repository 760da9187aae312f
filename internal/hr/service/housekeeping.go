package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/internal/hr/upload"
)

// Housekeeping periodically removes resume files that no application
// references, e.g. leftovers from an apply request that failed after the
// upload landed on disk.
type Housekeeping struct {
	store   store.Store
	uploads *upload.Store
	log     *slog.Logger

	schedule string
	minAge   time.Duration
	cron     *cron.Cron
}

// NewHousekeeping builds the sweeper. schedule is a cron expression
// ("@every 1h" style descriptors included); minAge protects files younger
// than the window from in-flight applies.
func NewHousekeeping(st store.Store, uploads *upload.Store, log *slog.Logger, schedule string, minAge time.Duration) *Housekeeping {
	return &Housekeeping{
		store:    st,
		uploads:  uploads,
		log:      log.With(slog.String("component", "housekeeping")),
		schedule: schedule,
		minAge:   minAge,
		cron:     cron.New(),
	}
}

// Start registers and launches the sweep schedule.
func (h *Housekeeping) Start() error {
	_, err := h.cron.AddFunc(h.schedule, func() {
		if _, err := h.Sweep(context.Background()); err != nil {
			h.log.Error("resume sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}
	h.cron.Start()
	h.log.Info("housekeeping started", slog.String("schedule", h.schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (h *Housekeeping) Stop() {
	<-h.cron.Stop().Done()
}

// Sweep runs one pass: collect the referenced filenames, then delete aged
// orphans from the upload directory.
func (h *Housekeeping) Sweep(ctx context.Context) (int, error) {
	referenced, err := h.store.Applications().ResumeFilenames(ctx)
	if err != nil {
		return 0, err
	}

	removed, err := h.uploads.SweepOrphans(referenced, h.minAge)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		h.log.Info("swept orphaned resumes", slog.Int("removed", removed))
	}
	return removed, nil
}
