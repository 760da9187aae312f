package http

import (
	"log/slog"
	"net/http"

	"github.com/peoplepulse/peoplepulse/internal/hr/service"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/internal/hr/upload"
	"github.com/peoplepulse/peoplepulse/pkg/httpx"
	"github.com/peoplepulse/peoplepulse/pkg/slogx"
)

// maxBodyBytes caps every request body. Resume uploads carry their own
// tighter per-file limit on top of this.
const maxBodyBytes = 10 << 20 // 10 MiB

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	logger *slog.Logger
	env    string
	store  store.Store
	tokens *service.TokenService

	AccountService     *service.AccountService
	JobService         *service.JobService
	ApplicationService *service.ApplicationService
	Uploads            *upload.Store
}

func NewRouter(
	tokens *service.TokenService,
	st store.Store,
	logger *slog.Logger,
	env, corsOrigin string,
) *Router {
	r := &Router{
		Mux:    http.NewServeMux(),
		logger: logger,
		env:    env,
		store:  st,
		tokens: tokens,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.recoverPanics,
		httpx.CORS(httpx.CORSConfig{AllowedOrigin: corsOrigin, AllowCredentials: true}),
		httpx.MaxBytes(maxBodyBytes),
	}

	return r
}

func (rt *Router) ApplyRoutes() {
	rt.registerAuth()
	rt.registerJobs()
	rt.registerPlaceholders()
	rt.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(rt.Mux, rt.middlewares...).ServeHTTP(w, req)
}

// protected wraps a handler in the authentication and tenant isolation
// gates, then any route-specific middleware.
func (rt *Router) protected(h http.Handler, mws ...httpx.Middleware) http.Handler {
	chain := append([]httpx.Middleware{rt.authenticate, tenantIsolation}, mws...)
	return httpx.Chain(h, chain...)
}

func (rt *Router) registerAuth() {
	h := &AuthHandler{Accounts: rt.AccountService}

	// Credential endpoints are the brute-force surface; strict IP limits.
	rt.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	rt.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	rt.Mux.Handle("GET /api/auth/profile",
		httpx.Chain(http.HandlerFunc(h.HandleProfile),
			rt.authenticate,
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
	rt.Mux.Handle("PUT /api/auth/profile",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateProfile),
			rt.authenticate,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
	rt.Mux.Handle("GET /api/auth/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			rt.authenticate,
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
}

func (rt *Router) registerJobs() {
	jobs := &JobsHandler{Jobs: rt.JobService}
	apps := &ApplicationsHandler{Applications: rt.ApplicationService, Uploads: rt.Uploads}

	// Public apply flow; strict IP limit against spam.
	rt.Mux.Handle("POST /api/jobs/{jobId}/apply",
		httpx.Chain(http.HandlerFunc(apps.HandleApply),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	rt.Mux.Handle("GET /api/jobs",
		rt.protected(http.HandlerFunc(jobs.HandleList),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
	rt.Mux.Handle("GET /api/jobs/{id}",
		rt.protected(http.HandlerFunc(jobs.HandleGet),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
	rt.Mux.Handle("POST /api/jobs",
		rt.protected(http.HandlerFunc(jobs.HandleCreate),
			requireElevated(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
	rt.Mux.Handle("PUT /api/jobs/{id}",
		rt.protected(http.HandlerFunc(jobs.HandleUpdate),
			requireElevated(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
	rt.Mux.Handle("DELETE /api/jobs/{id}",
		rt.protected(http.HandlerFunc(jobs.HandleDelete),
			requireElevated(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))

	rt.Mux.Handle("GET /api/jobs/{jobId}/applications",
		rt.protected(http.HandlerFunc(apps.HandleListForJob),
			requireElevated(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
	rt.Mux.Handle("PUT /api/jobs/applications/{applicationId}/status",
		rt.protected(http.HandlerFunc(apps.HandleUpdateStatus),
			requireElevated(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
}

// registerPlaceholders routes the modules that are planned but not built
// yet, behind the same gates their real versions will use.
func (rt *Router) registerPlaceholders() {
	lenient := httpx.RateLimitByUser(httpx.LenientLimit)

	rt.Mux.Handle("GET /api/onboarding/tasks",
		rt.protected(comingSoon("Onboarding tasks endpoint"), lenient))
	rt.Mux.Handle("POST /api/onboarding/tasks",
		rt.protected(comingSoon("Create onboarding task endpoint"), requireElevated(), lenient))

	rt.Mux.Handle("GET /api/time/entries",
		rt.protected(comingSoon("Time entries endpoint"), lenient))
	rt.Mux.Handle("POST /api/time/entries",
		rt.protected(comingSoon("Create time entry endpoint"), lenient))
	rt.Mux.Handle("GET /api/time/reports",
		rt.protected(comingSoon("Time reports endpoint"), requireElevated(), lenient))

	rt.Mux.Handle("GET /api/tickets",
		rt.protected(comingSoon("List tickets endpoint"), lenient))
	rt.Mux.Handle("POST /api/tickets",
		rt.protected(comingSoon("Create ticket endpoint"), lenient))
	rt.Mux.Handle("PUT /api/tickets/{id}/status",
		rt.protected(comingSoon("Update ticket status endpoint"), requireElevated(), lenient))

	rt.Mux.Handle("GET /api/analytics/dashboard",
		rt.protected(comingSoon("Analytics dashboard endpoint"), requireElevated(), lenient))
	rt.Mux.Handle("GET /api/analytics/hiring-funnel",
		rt.protected(comingSoon("Hiring funnel analytics endpoint"), requireElevated(), lenient))
	rt.Mux.Handle("GET /api/analytics/turnover",
		rt.protected(comingSoon("Turnover analytics endpoint"), requireElevated(), lenient))
}

func (rt *Router) registerSystem() {
	rt.Mux.Handle("GET /api/health",
		httpx.Chain(&HealthHandler{Env: rt.env},
			httpx.RateLimitByIP(httpx.PublicLimit),
		))

	// Stored resumes are served as static files.
	rt.Mux.Handle("GET /uploads/",
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.Uploads.Dir()))))

	// JSON 404 for everything unrouted.
	rt.Mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
}
