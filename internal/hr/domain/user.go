package domain

import "time"

// Role is an open set: unknown values are stored as-is, the gates below only
// care about membership.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// ElevatedRoles are the roles permitted to manage jobs and applications.
var ElevatedRoles = []Role{RoleAdmin, RoleHR}

type User struct {
	ID           string
	CompanyID    string
	Email        string // stored lowercase, unique across all tenants
	PasswordHash string // argon2id PHC encoded
	FirstName    string
	LastName     string
	Role         Role
	Department   string
	Position     string
	HireDate     *time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the "First Last" form used in job listings.
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// Principal is an authenticated user together with its company, as resolved
// by the authentication middleware on every request.
type Principal struct {
	User    User
	Company Company
}
