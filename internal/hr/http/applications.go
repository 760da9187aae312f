package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/service"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/internal/hr/upload"
	"github.com/peoplepulse/peoplepulse/pkg/httpx"
	"github.com/peoplepulse/peoplepulse/pkg/slogx"
)

// ApplicationsHandler covers the public apply flow and the authenticated
// application pipeline.
type ApplicationsHandler struct {
	Applications *service.ApplicationService
	Uploads      *upload.Store
}

type applicationPayload struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ResumeFilename string    `json:"resumeFilename"`
	CoverLetter    string    `json:"coverLetter"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	AppliedAt      time.Time `json:"appliedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func applicationJSON(a domain.Application) applicationPayload {
	return applicationPayload{
		ID:             a.ID,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		Email:          a.Email,
		Phone:          a.Phone,
		ResumeFilename: a.ResumeFilename,
		CoverLetter:    a.CoverLetter,
		Status:         string(a.Status),
		Notes:          a.Notes,
		AppliedAt:      a.AppliedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type applyRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CoverLetter string `json:"coverLetter"`
}

// HandleApply is the unauthenticated application endpoint. It accepts
// multipart form data with an optional "resume" file, or a plain JSON body
// when no resume is attached. The resume is validated and stored before the
// database insert; if the insert then fails the file is removed again.
func (h *ApplicationsHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var (
		req        applyRequest
		resumeName string
	)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(upload.MaxResumeSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		req = applyRequest{
			FirstName:   r.FormValue("firstName"),
			LastName:    r.FormValue("lastName"),
			Email:       r.FormValue("email"),
			Phone:       r.FormValue("phone"),
			CoverLetter: r.FormValue("coverLetter"),
		}

		file, header, err := r.FormFile("resume")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// Resume is optional.
		case err != nil:
			writeError(w, http.StatusBadRequest, "Invalid form data")
			return
		default:
			defer file.Close()
			resumeName, err = h.Uploads.SaveResume(header.Filename, file)
			if errors.Is(err, upload.ErrUnsupportedType) {
				writeError(w, http.StatusBadRequest, "Only PDF, DOC, and DOCX files are allowed")
				return
			}
			if errors.Is(err, upload.ErrTooLarge) {
				writeError(w, http.StatusBadRequest, "Resume must be 5MB or smaller")
				return
			}
			if err != nil {
				log.Error("resume store failed", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to submit application")
				return
			}
		}
	} else {
		if !decodeValid(w, r, &req) {
			return
		}
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		h.discardResume(ctx, resumeName)
		writeError(w, http.StatusBadRequest, "First name, last name, and email are required")
		return
	}

	app, err := h.Applications.Submit(ctx, service.SubmitApplicationParams{
		JobID:          r.PathValue("jobId"),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		CoverLetter:    req.CoverLetter,
		ResumeFilename: resumeName,
	})
	if err != nil {
		h.discardResume(ctx, resumeName)
		if errors.Is(err, store.ErrNotFound) {
			// Missing, paused, and closed jobs are indistinguishable here.
			writeError(w, http.StatusNotFound, "Job not found or not active")
			return
		}
		log.Error("application submit failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Application submitted successfully",
		"application": map[string]any{
			"id":        app.ID,
			"status":    string(app.Status),
			"appliedAt": app.AppliedAt,
		},
	})
}

// discardResume cleans up a stored resume after a failed submission. The
// housekeeping sweep is the backstop if this also fails.
func (h *ApplicationsHandler) discardResume(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := h.Uploads.Remove(name); err != nil {
		slogx.FromContext(ctx).Warn("failed to remove resume after failed submission",
			"file", name, "err", err)
	}
}

// HandleListForJob returns a job's applications, optionally filtered by the
// status query parameter.
func (h *ApplicationsHandler) HandleListForJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	var status domain.ApplicationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseApplicationStatus(raw)
		if err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, errorBody{
				Error:         "Invalid status",
				ValidStatuses: statusStrings(),
			})
			return
		}
		status = parsed
	}

	apps, err := h.Applications.ListForJob(ctx, r.PathValue("jobId"), p.Company.ID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		slogx.FromContext(ctx).Error("application list failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}

	items := make([]applicationPayload, 0, len(apps))
	for _, a := range apps {
		items = append(items, applicationJSON(a))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"applications": items})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// HandleUpdateStatus moves an application to a new status and overwrites
// its notes.
func (h *ApplicationsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	var req updateStatusRequest
	if !decodeValid(w, r, &req) {
		return
	}

	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorBody{
			Error:         "Invalid status",
			ValidStatuses: statusStrings(),
		})
		return
	}

	app, err := h.Applications.UpdateStatus(ctx, r.PathValue("applicationId"), p.Company.ID, status, req.Notes)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Application not found")
			return
		}
		slogx.FromContext(ctx).Error("application status update failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update application status")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "Application status updated successfully",
		"application": applicationJSON(app),
	})
}

func statusStrings() []string {
	out := make([]string, len(domain.ApplicationStatuses))
	for i, s := range domain.ApplicationStatuses {
		out[i] = string(s)
	}
	return out
}
