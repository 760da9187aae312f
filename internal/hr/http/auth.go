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

// AuthHandler covers registration, login, and the profile endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
}

type registerRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	Subdomain   string `json:"subdomain" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type companyPayload struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

type sessionUserPayload struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Role       string         `json:"role"`
	Department string         `json:"department,omitempty"`
	Position   string         `json:"position,omitempty"`
	Company    companyPayload `json:"company"`
}

func sessionUser(p domain.Principal) sessionUserPayload {
	return sessionUserPayload{
		ID:         p.User.ID,
		Email:      p.User.Email,
		FirstName:  p.User.FirstName,
		LastName:   p.User.LastName,
		Role:       string(p.User.Role),
		Department: p.User.Department,
		Position:   p.User.Position,
		Company: companyPayload{
			ID:        p.Company.ID,
			Name:      p.Company.Name,
			Subdomain: p.Company.Subdomain,
		},
	}
}

// HandleRegister creates a company with its first admin user and returns a
// ready session token.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if !decodeValid(w, r, &req) {
		return
	}

	sess, err := h.Accounts.RegisterCompany(ctx, service.RegisterCompanyParams{
		CompanyName:    req.CompanyName,
		Subdomain:      req.Subdomain,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		AdminEmail:     req.Email,
		AdminPassword:  req.Password,
		AdminFirstName: req.FirstName,
		AdminLastName:  req.LastName,
	})
	switch {
	case errors.Is(err, service.ErrSubdomainTaken):
		writeError(w, http.StatusBadRequest, "Subdomain already taken")
		return
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	case err != nil:
		log.Error("registration failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Company registered successfully",
		"token":   sess.Token,
		"user":    sessionUser(sess.Principal),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates by email and password. All credential failures
// share one 401 so callers cannot probe which part was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, err := h.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   sess.Token,
		"user":    sessionUser(sess.Principal),
	})
}

// HandleProfile returns the authenticated user's profile. The principal is
// already resolved by the middleware, so no further reads are needed.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var hireDate *time.Time
	if p.User.HireDate != nil {
		t := *p.User.HireDate
		hireDate = &t
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":         p.User.ID,
			"email":      p.User.Email,
			"firstName":  p.User.FirstName,
			"lastName":   p.User.LastName,
			"role":       string(p.User.Role),
			"department": p.User.Department,
			"position":   p.User.Position,
			"hireDate":   hireDate,
			"createdAt":  p.User.CreatedAt,
			"company": map[string]any{
				"name":      p.Company.Name,
				"subdomain": p.Company.Subdomain,
			},
		},
	})
}

type updateProfileRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// HandleUpdateProfile replaces the caller's self-service profile fields.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateProfileRequest
	if !decodeValid(w, r, &req) {
		return
	}

	user, err := h.Accounts.UpdateProfile(ctx, p.User.ID, service.UpdateProfileParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error("profile update failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user": map[string]any{
			"id":         user.ID,
			"firstName":  user.FirstName,
			"lastName":   user.LastName,
			"department": user.Department,
			"position":   user.Position,
		},
	})
}

// HandleVerify reports whether the presented token resolves to a live
// session. Reaching the handler at all means it did.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user": map[string]any{
			"id":      p.User.ID,
			"email":   p.User.Email,
			"role":    string(p.User.Role),
			"company": p.Company.Name,
		},
	})
}
