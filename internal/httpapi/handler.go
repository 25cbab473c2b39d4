// Package httpapi implements the REST surface of the marketplace.
//
// A bearer token in the Authorization header identifies the caller; every
// handler passes the resulting actor explicitly into the engine.
//
// Routes:
//
//	POST   /auth/register                  → create an account
//	POST   /auth/login                     → exchange credentials for a token
//	GET    /jobs                           → public listing (q, location, jobType)
//	GET    /jobs/my                        → recruiter's own jobs
//	GET    /jobs/{id}                      → one job, subject to visibility
//	POST   /jobs                           → post a job
//	PUT    /jobs/{id}                      → edit a job
//	DELETE /jobs/{id}                      → delete a job and its applications
//	POST   /applications/{jobId}/apply     → apply to a job
//	GET    /applications/my                → seeker's applications
//	GET    /applications/job/{jobId}       → applicants of a job
//	PUT    /applications/{id}/status       → change status (?status=)
//	POST   /profile                        → create or replace own profile
//	GET    /profile/my                     → own profile
//	PUT    /admin/recruiters/{id}/approve  → approve a recruiter
//	GET    /admin/recruiters               → list recruiters
//	GET    /admin/jobs                     → list every job
//	DELETE /admin/jobs/{id}                → remove any job
//	DELETE /users/me                       → delete own account
//	GET    /health, /metrics
package httpapi

import (
	"net/http"

	"fresherjobs/marketplace-service/internal/account"
	"fresherjobs/marketplace-service/internal/approval"
	"fresherjobs/marketplace-service/internal/auth"
	"fresherjobs/marketplace-service/internal/jobs"
	"fresherjobs/marketplace-service/internal/lifecycle"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/profile"
	"fresherjobs/marketplace-service/internal/ratelimit"
)

// Deps are the services the handlers call into. Limiters may be nil.
type Deps struct {
	Auth      *auth.Service
	Jobs      *jobs.Service
	Lifecycle *lifecycle.Service
	Profiles  *profile.Service
	Approval  *approval.Service
	Accounts  *account.Service
	Metrics   *metrics.Metrics

	ApplyLimiter ratelimit.Limiter
	LoginLimiter ratelimit.Limiter

	Service string
	Version string
}

// Handler holds shared dependencies.
type Handler struct {
	Deps
}

// NewHandler returns a configured Handler.
func NewHandler(d Deps) *Handler {
	if d.Service == "" {
		d.Service = "marketplace-service"
	}
	return &Handler{Deps: d}
}

// RegisterRoutes mounts every route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.Handle("GET /metrics", h.Metrics.Handler())

	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)

	mux.HandleFunc("GET /jobs", h.listJobs)
	mux.HandleFunc("GET /jobs/my", h.myJobs)
	mux.HandleFunc("GET /jobs/{id}", h.getJob)
	mux.HandleFunc("POST /jobs", h.createJob)
	mux.HandleFunc("PUT /jobs/{id}", h.updateJob)
	mux.HandleFunc("DELETE /jobs/{id}", h.deleteJob)

	mux.HandleFunc("POST /applications/{jobId}/apply", h.apply)
	mux.HandleFunc("GET /applications/my", h.myApplications)
	mux.HandleFunc("GET /applications/job/{jobId}", h.applicants)
	mux.HandleFunc("PUT /applications/{id}/status", h.setStatus)

	mux.HandleFunc("POST /profile", h.upsertProfile)
	mux.HandleFunc("GET /profile/my", h.myProfile)

	mux.HandleFunc("PUT /admin/recruiters/{id}/approve", h.approveRecruiter)
	mux.HandleFunc("GET /admin/recruiters", h.listRecruiters)
	mux.HandleFunc("GET /admin/jobs", h.listAllJobs)
	mux.HandleFunc("DELETE /admin/jobs/{id}", h.removeJob)

	mux.HandleFunc("DELETE /users/me", h.deleteMe)
}

// Routes returns the full handler chain: metrics, then authentication, then the mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return instrument(h.Metrics, authenticate(h.Auth, mux))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": h.Service,
		"version": h.Version,
	})
}
