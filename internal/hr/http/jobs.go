package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/service"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/pkg/httpx"
	"github.com/peoplepulse/peoplepulse/pkg/slogx"
)

// JobsHandler covers the company-scoped job management endpoints.
type JobsHandler struct {
	Jobs *service.JobService
}

type jobRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Status         string `json:"status"`
	SalaryMin      *int64 `json:"salaryMin"`
	SalaryMax      *int64 `json:"salaryMax"`
	Requirements   string `json:"requirements"`
	Benefits       string `json:"benefits"`
}

// params converts the request body into service params, writing the 400
// response itself when an enum value is invalid.
func (req jobRequest) params(w http.ResponseWriter) (service.JobParams, bool) {
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return service.JobParams{}, false
	}

	employmentType, err := domain.ParseEmploymentType(req.EmploymentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employment type")
		return service.JobParams{}, false
	}

	var status domain.JobStatus
	if req.Status != "" {
		if status, err = domain.ParseJobStatus(req.Status); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid job status")
			return service.JobParams{}, false
		}
	}

	return service.JobParams{
		Title:          req.Title,
		Description:    req.Description,
		Department:     req.Department,
		Location:       req.Location,
		EmploymentType: employmentType,
		Status:         status,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Requirements:   req.Requirements,
		Benefits:       req.Benefits,
	}, true
}

// jobListItem is the compact listing shape; full text fields are only
// returned by the single-job endpoint.
type jobListItem struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Department       string    `json:"department"`
	Location         string    `json:"location"`
	EmploymentType   string    `json:"employmentType"`
	Status           string    `json:"status"`
	SalaryMin        *int64    `json:"salaryMin"`
	SalaryMax        *int64    `json:"salaryMax"`
	ApplicationCount int       `json:"applicationCount"`
	PostedBy         string    `json:"postedBy"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func listItem(j domain.JobSummary) jobListItem {
	return jobListItem{
		ID:               j.ID,
		Title:            j.Title,
		Department:       j.Department,
		Location:         j.Location,
		EmploymentType:   string(j.EmploymentType),
		Status:           string(j.Status),
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		ApplicationCount: j.ApplicationCount,
		PostedBy:         j.PostedByName,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func jobDetail(j domain.JobSummary) map[string]any {
	return map[string]any{
		"id":               j.ID,
		"title":            j.Title,
		"description":      j.Description,
		"department":       j.Department,
		"location":         j.Location,
		"employmentType":   string(j.EmploymentType),
		"status":           string(j.Status),
		"salaryMin":        j.SalaryMin,
		"salaryMax":        j.SalaryMax,
		"requirements":     j.Requirements,
		"benefits":         j.Benefits,
		"applicationCount": j.ApplicationCount,
		"postedBy":         j.PostedByName,
		"createdAt":        j.CreatedAt,
		"updatedAt":        j.UpdatedAt,
	}
}

// HandleList returns the company's jobs, optionally filtered by the status
// and department query parameters.
func (h *JobsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	var filter domain.JobFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseJobStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid job status")
			return
		}
		filter.Status = status
	}
	filter.Department = r.URL.Query().Get("department")

	jobs, err := h.Jobs.List(ctx, p.Company.ID, filter)
	if err != nil {
		slogx.FromContext(ctx).Error("job list failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch jobs")
		return
	}

	items := make([]jobListItem, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, listItem(j))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"jobs": items})
}

// HandleGet returns a single job. A job owned by another company reads as
// not found.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	job, err := h.Jobs.Get(ctx, r.PathValue("id"), p.Company.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		slogx.FromContext(ctx).Error("job fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"job": jobDetail(job)})
}

// HandleCreate posts a new job attributed to the caller.
func (h *JobsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	var req jobRequest
	if !decodeValid(w, r, &req) {
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}

	job, err := h.Jobs.Create(ctx, p.Company.ID, p.User.ID, params)
	if err != nil {
		slogx.FromContext(ctx).Error("job create failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Job created successfully",
		"job": map[string]any{
			"id":             job.ID,
			"title":          job.Title,
			"description":    job.Description,
			"department":     job.Department,
			"location":       job.Location,
			"employmentType": string(job.EmploymentType),
			"status":         string(job.Status),
			"createdAt":      job.CreatedAt,
		},
	})
}

// HandleUpdate replaces a job's mutable fields.
func (h *JobsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	var req jobRequest
	if !decodeValid(w, r, &req) {
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}

	job, err := h.Jobs.Update(ctx, r.PathValue("id"), p.Company.ID, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		slogx.FromContext(ctx).Error("job update failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Job updated successfully",
		"job":     jobDetail(job),
	})
}

// HandleDelete removes a job and, via cascade, its applications.
func (h *JobsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := principalFrom(ctx)

	if err := h.Jobs.Delete(ctx, r.PathValue("id"), p.Company.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		slogx.FromContext(ctx).Error("job delete failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "Job deleted successfully"})
}
