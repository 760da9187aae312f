// Package store defines the data access contract. Concrete drivers
// (postgres for production, sqlite for dev and tests) implement Store; the
// service layer only ever sees these interfaces.
//
// Tenant isolation lives here as a structural rule: every method touching a
// job or application takes the owning company id and applies it as an
// equality predicate. The only unscoped reads are the narrow methods the
// public apply flow and housekeeping need.
package store

import (
	"context"
	"errors"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface.
type Store interface {
	Companies() Companies
	Users() Users
	Jobs() Jobs
	Applications() Applications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: commit when fn returns nil,
	// rollback otherwise. Rollback also runs on panic, so the connection is
	// released on every exit path. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying pool or file handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store: the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Companies interface {
	// CreateCompany inserts a new company (id is provided by app via ULID).
	// Returns ErrAlreadyExists on a subdomain collision.
	CreateCompany(ctx context.Context, c domain.Company) error

	// GetCompanyByID returns a company by id.
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// SubdomainExists reports whether a company already holds the subdomain,
	// case-insensitively.
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)

	// SetCompanyActive toggles the active flag. Deactivation, not deletion:
	// the rows stay, the authentication middleware denies access.
	SetCompanyActive(ctx context.Context, id string, active bool) error
}

type Users interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists on an email
	// collision.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id regardless of active flags.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// EmailExists reports whether any user holds the email (lowercased),
	// across all tenants.
	EmailExists(ctx context.Context, email string) (bool, error)

	// GetLoginUser returns the active user matching the email, joined with
	// its company. The company's active flag is NOT filtered here; the
	// login flow checks it so all failures share one error.
	GetLoginUser(ctx context.Context, email string) (domain.User, domain.Company, error)

	// GetPrincipal resolves a user id to a live principal: the user and its
	// company, both required to be active. This is the single persistence
	// read behind every authenticated request.
	GetPrincipal(ctx context.Context, userID string) (domain.Principal, error)

	// UpdateUserProfile replaces the self-service profile fields and bumps
	// updated_at.
	UpdateUserProfile(ctx context.Context, userID, firstName, lastName, department, position string) (domain.User, error)
}

type Jobs interface {
	// CreateJob inserts a new job owned by j.CompanyID.
	CreateJob(ctx context.Context, j domain.Job) error

	// GetJob returns a job by id scoped to companyID, annotated with its
	// application count and poster display name. ErrNotFound covers both a
	// missing row and a row owned by another company.
	GetJob(ctx context.Context, id, companyID string) (domain.JobSummary, error)

	// ListJobs returns the company's jobs matching filter, newest first,
	// annotated like GetJob.
	ListJobs(ctx context.Context, companyID string, filter domain.JobFilter) ([]domain.JobSummary, error)

	// GetOpenJob returns the job only if its status is active. Unscoped:
	// the public apply flow has no tenant context. ErrNotFound for missing
	// and non-active alike.
	GetOpenJob(ctx context.Context, id string) (domain.Job, error)

	// UpdateJob replaces the job row identified by j.ID within j.CompanyID
	// and bumps updated_at. ErrNotFound if no row matched.
	UpdateJob(ctx context.Context, j domain.Job) error

	// DeleteJob removes the job scoped to companyID. ErrNotFound if no row
	// matched.
	DeleteJob(ctx context.Context, id, companyID string) error
}

type Applications interface {
	// CreateApplication inserts a new application; a.CompanyID must carry
	// the owning job's company id.
	CreateApplication(ctx context.Context, a domain.Application) error

	// GetApplication returns an application by id scoped to companyID.
	GetApplication(ctx context.Context, id, companyID string) (domain.Application, error)

	// ListApplicationsForJob returns the job's applications, newest first,
	// optionally filtered by status (empty means all). The caller must have
	// verified job ownership first.
	ListApplicationsForJob(ctx context.Context, jobID, companyID string, status domain.ApplicationStatus) ([]domain.Application, error)

	// UpdateApplicationStatus sets status and overwrites notes on the
	// application scoped to companyID, bumps updated_at, and returns the
	// updated row. ErrNotFound if no row matched.
	UpdateApplicationStatus(ctx context.Context, id, companyID string, status domain.ApplicationStatus, notes string) (domain.Application, error)

	// ResumeFilenames returns every stored resume filename across all
	// tenants. Internal use only: the housekeeping sweep matches files on
	// disk against it.
	ResumeFilenames(ctx context.Context) ([]string, error)
}
