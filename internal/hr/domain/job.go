package domain

import (
	"fmt"
	"time"
)

type JobStatus string

const (
	JobActive JobStatus = "active"
	JobPaused JobStatus = "paused"
	JobClosed JobStatus = "closed"
)

// ParseJobStatus converts a raw string to a JobStatus, rejecting unknown
// values.
func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case JobActive, JobPaused, JobClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

// ParseEmploymentType converts a raw string to an EmploymentType, defaulting
// to full-time for the empty string.
func ParseEmploymentType(s string) (EmploymentType, error) {
	if s == "" {
		return EmploymentFullTime, nil
	}
	switch et := EmploymentType(s); et {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return et, nil
	}
	return "", fmt.Errorf("unknown employment type %q", s)
}

type Job struct {
	ID             string
	CompanyID      string
	Title          string
	Description    string
	Department     string
	Location       string
	EmploymentType EmploymentType
	Status         JobStatus
	SalaryMin      *int64
	SalaryMax      *int64
	Requirements   string
	Benefits       string
	PostedBy       string // user id; empty if the poster was deleted
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AcceptsApplications reports whether public applications may target the job.
func (j Job) AcceptsApplications() bool {
	return j.Status == JobActive
}

// JobSummary is a Job annotated with the aggregate fields returned by list
// and get queries.
type JobSummary struct {
	Job

	ApplicationCount int
	PostedByName     string // "Unknown" when the poster record is missing
}

// JobFilter narrows a company-scoped job listing. Zero values mean no filter.
type JobFilter struct {
	Status     JobStatus
	Department string
}
