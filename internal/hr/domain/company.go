package domain

import "time"

// Company is the tenant root. Every user, job, and application hangs off a
// company, and every scoped query filters by its id.
type Company struct {
	ID        string
	Name      string
	Subdomain string // stored lowercase, globally unique
	Email     string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
}
