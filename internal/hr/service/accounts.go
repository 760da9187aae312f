package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/pkg/cryptox"
	"github.com/peoplepulse/peoplepulse/pkg/idx"
)

var (
	ErrSubdomainTaken = errors.New("service: subdomain already registered")
	ErrEmailTaken     = errors.New("service: email already registered")

	// ErrInvalidCredentials covers every login failure: unknown email, wrong
	// password, deactivated user or company. One error so responses cannot
	// leak which part failed.
	ErrInvalidCredentials = errors.New("service: invalid credentials")
)

// AccountService handles company registration, login, and user profiles.
type AccountService struct {
	store  store.Store
	tokens *TokenService
}

func NewAccountService(st store.Store, tokens *TokenService) *AccountService {
	return &AccountService{store: st, tokens: tokens}
}

// Session is the result of a successful registration or login.
type Session struct {
	Token     string
	Principal domain.Principal
}

type RegisterCompanyParams struct {
	CompanyName string
	Subdomain   string
	Email       string // company contact email
	Phone       string
	Address     string

	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// RegisterCompany creates a company and its first admin user atomically and
// returns a ready session. If anything fails, neither row persists.
func (s *AccountService) RegisterCompany(ctx context.Context, p RegisterCompanyParams) (Session, error) {
	subdomain := strings.ToLower(strings.TrimSpace(p.Subdomain))
	adminEmail := strings.ToLower(strings.TrimSpace(p.AdminEmail))

	// Pre-checks give precise errors; the unique constraints inside the
	// transaction remain the arbiter under concurrency.
	taken, err := s.store.Companies().SubdomainExists(ctx, subdomain)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, ErrSubdomainTaken
	}

	exists, err := s.store.Users().EmailExists(ctx, adminEmail)
	if err != nil {
		return Session{}, err
	}
	if exists {
		return Session{}, ErrEmailTaken
	}

	hash, err := cryptox.HashPassword(p.AdminPassword)
	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:        idx.New().String(),
		Name:      strings.TrimSpace(p.CompanyName),
		Subdomain: subdomain,
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:     strings.TrimSpace(p.Phone),
		Address:   strings.TrimSpace(p.Address),
		IsActive:  true,
		CreatedAt: now,
	}
	hireDate := now
	admin := domain.User{
		ID:           idx.New().String(),
		CompanyID:    company.ID,
		Email:        adminEmail,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(p.AdminFirstName),
		LastName:     strings.TrimSpace(p.AdminLastName),
		Role:         domain.RoleAdmin,
		HireDate:     &hireDate, // the founding admin starts the day the company registers
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Companies().CreateCompany(ctx, company); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrSubdomainTaken
			}
			return err
		}
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Mint(admin.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Principal: domain.Principal{User: admin, Company: company}}, nil
}

// Login authenticates by email and password. Every failure mode returns
// ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	user, company, err := s.store.Users().GetLoginUser(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !company.IsActive {
		return Session{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Principal: domain.Principal{User: user, Company: company}}, nil
}

type UpdateProfileParams struct {
	FirstName  string
	LastName   string
	Department string
	Position   string
}

// UpdateProfile replaces the caller's self-service profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, p UpdateProfileParams) (domain.User, error) {
	return s.store.Users().UpdateUserProfile(ctx, userID,
		strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName),
		strings.TrimSpace(p.Department), strings.TrimSpace(p.Position))
}
