package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/service"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/internal/hr/store/drivers/sqlite"
	"github.com/peoplepulse/peoplepulse/internal/hr/upload"
	"github.com/peoplepulse/peoplepulse/pkg/cryptox"
	"github.com/peoplepulse/peoplepulse/pkg/idx"
)

type testEnv struct {
	router *Router
	store  store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	uploads, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	tokens := service.NewTokenService([]byte("test-secret"), "peoplepulse-test", time.Hour)
	logger := slog.New(slog.DiscardHandler)

	router := NewRouter(tokens, st, logger, "test", "http://localhost:5173")
	router.AccountService = service.NewAccountService(st, tokens)
	router.JobService = service.NewJobService(st)
	router.ApplicationService = service.NewApplicationService(st)
	router.Uploads = uploads
	router.ApplyRoutes()

	return &testEnv{router: router, store: st}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register runs the registration endpoint and returns the session token and
// decoded response body.
func (e *testEnv) register(t *testing.T, subdomain string) (string, map[string]any) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"companyName": subdomain + " Inc",
		"subdomain":   subdomain,
		"email":       "admin@" + subdomain + ".example.com",
		"password":    "correct horse battery staple",
		"firstName":   "Ada",
		"lastName":    "Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token, body
}

func (e *testEnv) createJob(t *testing.T, token string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/jobs", token, map[string]any{
		"title":       "Backend Engineer",
		"description": "Build the things",
		"department":  "Engineering",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	job := decodeBody(t, rec)["job"].(map[string]any)
	return job["id"].(string)
}

// seedUser inserts a user with the given role directly into the store so
// role gates can be exercised; registration only ever creates admins.
func (e *testEnv) seedUser(t *testing.T, companyID string, role domain.Role) string {
	t.Helper()

	hash, err := cryptox.HashPassword("employee password")
	require.NoError(t, err)

	now := time.Now().UTC()
	email := fmt.Sprintf("%s-%s@example.com", role, idx.New())
	err = e.store.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		CompanyID:    companyID,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		FirstName:    "Eve",
		LastName:     "Employee",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    strings.ToLower(email),
		"password": "employee password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "PeoplePulse AI Backend Running", body["message"])
	require.Equal(t, "test", body["environment"])
	require.NotEmpty(t, body["timestamp"])
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Route not found", decodeBody(t, rec)["error"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"companyName": "Acme",
		"subdomain":   "acme",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Missing required fields", body["error"])
	required := body["required"].([]any)
	require.Contains(t, required, "email")
	require.Contains(t, required, "password")
	require.Contains(t, required, "firstName")
	require.Contains(t, required, "lastName")
}

func TestRegisterDuplicateSubdomain(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "acme")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"companyName": "Other",
		"subdomain":   "ACME",
		"email":       "other@example.com",
		"password":    "pw12345678",
		"firstName":   "Bob",
		"lastName":    "Boss",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Subdomain already taken", decodeBody(t, rec)["error"])
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "acme")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "admin@acme.example.com",
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Login successful", body["message"])
	require.NotEmpty(t, body["token"])

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "admin@acme.example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", decodeBody(t, rec)["error"])
}

func TestAuthenticationGates(t *testing.T) {
	env := newTestEnv(t)

	// No token.
	rec := env.do(t, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Access token required", decodeBody(t, rec)["error"])

	// Garbage token.
	rec = env.do(t, http.MethodGet, "/api/jobs", "not-a-jwt", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid or expired token", decodeBody(t, rec)["error"])
}

func TestDeactivatedCompanyLosesAccess(t *testing.T) {
	env := newTestEnv(t)
	token, body := env.register(t, "acme")

	user := body["user"].(map[string]any)
	company := user["company"].(map[string]any)

	// Token works until the company is deactivated, then the same token
	// stops resolving.
	rec := env.do(t, http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, env.store.Companies().SetCompanyActive(
		context.Background(), company["id"].(string), false))

	rec = env.do(t, http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token - user not found", decodeBody(t, rec)["error"])
}

func TestRoleGate(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.register(t, "acme")
	companyID := body["user"].(map[string]any)["company"].(map[string]any)["id"].(string)

	employeeToken := env.seedUser(t, companyID, domain.RoleEmployee)

	// Employees may read jobs but not post them.
	rec := env.do(t, http.MethodGet, "/api/jobs", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/jobs", employeeToken, map[string]any{
		"title": "Nope", "description": "Nope",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	forbidden := decodeBody(t, rec)
	require.Equal(t, "Insufficient permissions", forbidden["error"])
	require.ElementsMatch(t, []any{"admin", "hr"}, forbidden["required"])
	require.Equal(t, "employee", forbidden["current"])

	// HR passes the same gate.
	hrToken := env.seedUser(t, companyID, domain.RoleHR)
	rec = env.do(t, http.MethodPost, "/api/jobs", hrToken, map[string]any{
		"title": "HR Job", "description": "Posted by hr",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestJobCRUDEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")

	jobID := env.createJob(t, token)

	// List.
	rec := env.do(t, http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	jobs := decodeBody(t, rec)["jobs"].([]any)
	require.Len(t, jobs, 1)
	first := jobs[0].(map[string]any)
	require.Equal(t, "Ada Admin", first["postedBy"])
	require.Equal(t, float64(0), first["applicationCount"])

	// Get.
	rec = env.do(t, http.MethodGet, "/api/jobs/"+jobID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	job := decodeBody(t, rec)["job"].(map[string]any)
	require.Equal(t, "Build the things", job["description"])

	// Update.
	rec = env.do(t, http.MethodPut, "/api/jobs/"+jobID, token, map[string]any{
		"title":       "Senior Backend Engineer",
		"description": "Build bigger things",
		"status":      "paused",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	job = decodeBody(t, rec)["job"].(map[string]any)
	require.Equal(t, "paused", job["status"])

	// Invalid enum on update.
	rec = env.do(t, http.MethodPut, "/api/jobs/"+jobID, token, map[string]any{
		"title": "X", "description": "Y", "status": "archived",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete, then 404.
	rec = env.do(t, http.MethodDelete, "/api/jobs/"+jobID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/jobs/"+jobID, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Job not found", decodeBody(t, rec)["error"])
}

func TestTenantIsolationAcrossCompanies(t *testing.T) {
	env := newTestEnv(t)
	acmeToken, _ := env.register(t, "acme")
	globexToken, _ := env.register(t, "globex")

	jobID := env.createJob(t, acmeToken)

	// Globex sees an empty listing and a 404 for acme's job id.
	rec := env.do(t, http.MethodGet, "/api/jobs", globexToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody(t, rec)["jobs"])

	rec = env.do(t, http.MethodGet, "/api/jobs/"+jobID, globexToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/jobs/"+jobID, globexToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartApply(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPublicApplyFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")
	jobID := env.createJob(t, token)

	body, contentType := multipartApply(t, map[string]string{
		"firstName":   "Carol",
		"lastName":    "Candidate",
		"email":       "carol@example.com",
		"coverLetter": "Hire me",
	}, "cv.pdf", []byte("%PDF-1.4 fake resume"))

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody(t, rec)
	require.Equal(t, "Application submitted successfully", resp["message"])
	application := resp["application"].(map[string]any)
	require.Equal(t, "pending", application["status"])

	// The application shows up for the company, resume filename included.
	rec2 := env.do(t, http.MethodGet, "/api/jobs/"+jobID+"/applications", token, nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	apps := decodeBody(t, rec2)["applications"].([]any)
	require.Len(t, apps, 1)
	stored := apps[0].(map[string]any)
	resumeName := stored["resumeFilename"].(string)
	require.True(t, strings.HasPrefix(resumeName, "resume-"))
	require.True(t, strings.HasSuffix(resumeName, ".pdf"))

	// The stored resume is served back under /uploads/.
	req = httptest.NewRequest(http.MethodGet, "/uploads/"+resumeName, nil)
	rec3 := httptest.NewRecorder()
	env.router.ServeHTTP(rec3, req)
	require.Equal(t, http.StatusOK, rec3.Code)
	require.Equal(t, "%PDF-1.4 fake resume", rec3.Body.String())
}

func TestApplyJSONWithoutResume(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")
	jobID := env.createJob(t, token)

	rec := env.do(t, http.MethodPost, "/api/jobs/"+jobID+"/apply", "", map[string]any{
		"firstName": "Carol",
		"lastName":  "Candidate",
		"email":     "carol@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestApplyRejectsBadUploads(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")
	jobID := env.createJob(t, token)

	fields := map[string]string{
		"firstName": "Carol", "lastName": "Candidate", "email": "carol@example.com",
	}

	// Wrong extension.
	body, contentType := multipartApply(t, fields, "cv.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Only PDF, DOC, and DOCX files are allowed", decodeBody(t, rec)["error"])

	// Oversized resume.
	oversized := bytes.Repeat([]byte("a"), upload.MaxResumeSize+1)
	body, contentType = multipartApply(t, fields, "cv.pdf", oversized)
	req = httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Resume must be 5MB or smaller", decodeBody(t, rec)["error"])

	// Missing required fields.
	body, contentType = multipartApply(t, map[string]string{"firstName": "Carol"}, "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/apply", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "First name, last name, and email are required", decodeBody(t, rec)["error"])

	// None of the rejected attempts left an application behind.
	rec = env.do(t, http.MethodGet, "/api/jobs/"+jobID+"/applications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody(t, rec)["applications"])
}

func TestApplyToInactiveJob(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")
	jobID := env.createJob(t, token)

	rec := env.do(t, http.MethodPut, "/api/jobs/"+jobID, token, map[string]any{
		"title": "Backend Engineer", "description": "Build the things", "status": "closed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/jobs/"+jobID+"/apply", "", map[string]any{
		"firstName": "Carol", "lastName": "Candidate", "email": "carol@example.com",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Job not found or not active", decodeBody(t, rec)["error"])
}

func TestApplicationStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")
	jobID := env.createJob(t, token)

	rec := env.do(t, http.MethodPost, "/api/jobs/"+jobID+"/apply", "", map[string]any{
		"firstName": "Carol", "lastName": "Candidate", "email": "carol@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	appID := decodeBody(t, rec)["application"].(map[string]any)["id"].(string)

	// Invalid status enumerates the valid set.
	rec = env.do(t, http.MethodPut, "/api/jobs/applications/"+appID+"/status", token, map[string]any{
		"status": "interviewed",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	invalid := decodeBody(t, rec)
	require.Equal(t, "Invalid status", invalid["error"])
	require.Equal(t,
		[]any{"pending", "reviewing", "interview", "rejected", "hired"},
		invalid["validStatuses"])

	// Canonical spelling succeeds.
	rec = env.do(t, http.MethodPut, "/api/jobs/applications/"+appID+"/status", token, map[string]any{
		"status": "interview",
		"notes":  "Strong phone screen",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["application"].(map[string]any)
	require.Equal(t, "interview", updated["status"])
	require.Equal(t, "Strong phone screen", updated["notes"])
}

func TestPlaceholderEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")

	for _, path := range []string{
		"/api/onboarding/tasks",
		"/api/time/entries",
		"/api/tickets",
		"/api/analytics/dashboard",
	} {
		rec := env.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Contains(t, decodeBody(t, rec)["message"], "coming soon", path)

		// Still gated: no anonymous access.
		rec = env.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "acme")

	rec := env.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	require.Equal(t, "admin@acme.example.com", user["email"])
	require.Equal(t, "admin", user["role"])
	require.NotNil(t, user["hireDate"], "founding admin is hired at registration")

	rec = env.do(t, http.MethodPut, "/api/auth/profile", token, map[string]any{
		"firstName":  "Grace",
		"lastName":   "Hopper",
		"department": "Engineering",
		"position":   "Rear Admiral",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["user"].(map[string]any)
	require.Equal(t, "Grace", updated["firstName"])

	rec = env.do(t, http.MethodGet, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["valid"])
}
