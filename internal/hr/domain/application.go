package domain

import (
	"fmt"
	"time"
)

// ApplicationStatus is the canonical status enumeration. The usual hiring
// flow is
//
//	pending ──► reviewing ──► interview ──► hired
//	    │            │             │
//	    └────────────┴─────────────┴─────► rejected
//
// but transitions are not enforced: any status in the valid set may be
// assigned from any prior status. "interview" is the canonical spelling.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationHired     ApplicationStatus = "hired"
)

// ApplicationStatuses lists every valid status, in flow order. Used to
// enumerate valid values in error responses.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationReviewing,
	ApplicationInterview,
	ApplicationRejected,
	ApplicationHired,
}

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// rejecting anything outside the canonical set.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	for _, st := range ApplicationStatuses {
		if ApplicationStatus(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Application is a public submission against a job. The company id is
// denormalized from the job at creation time so every later query can scope
// by tenant without a join; job/company linkage never changes after creation.
type Application struct {
	ID             string
	JobID          string
	CompanyID      string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	ResumeFilename string // empty when no resume was attached
	CoverLetter    string
	Status         ApplicationStatus
	Notes          string
	AppliedAt      time.Time
	UpdatedAt      time.Time
}
