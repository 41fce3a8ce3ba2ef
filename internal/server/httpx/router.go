// Package httpx exposes the service over HTTP. Handlers validate input, call
// the account and persona services, and map sentinel errors to status codes;
// all state lives behind those services.
package httpx

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/keybackup/internal/logging"
	"github.com/dmitrijs2005/keybackup/internal/server/personas"
	"github.com/dmitrijs2005/keybackup/internal/server/users"
)

// serviceVersion is reported by the status endpoint.
var serviceVersion = []int{1, 0, 0}

// Router wires HTTP endpoints to services.
type Router struct {
	mux          *http.ServeMux
	logger       logging.Logger
	users        *users.Service
	personas     *personas.Service
	maxBodyBytes int64
	started      time.Time
}

// NewRouter assembles routes with dependencies. maxBodyBytes caps persona
// upload sizes.
func NewRouter(logger logging.Logger, userSvc *users.Service, personaSvc *personas.Service, maxBodyBytes int64) *Router {
	r := &Router{
		mux:          http.NewServeMux(),
		logger:       logger.With("module", "http"),
		users:        userSvc,
		personas:     personaSvc,
		maxBodyBytes: maxBodyBytes,
		started:      time.Now(),
	}
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("GET /status", r.audit(r.handleStatus))
	r.mux.HandleFunc("POST /accounts", r.audit(r.handleCreateAccount))

	// {pid...} also catches ids containing '/', which the persona service
	// rejects as invalid instead of the mux answering 404
	r.mux.HandleFunc("GET /personas", r.audit(r.requireAuth(r.handleListPersonas)))
	r.mux.HandleFunc("POST /personas/{pid...}", r.audit(r.requireAuth(r.handleUploadPersona)))
	r.mux.HandleFunc("GET /personas/{pid...}", r.audit(r.requireAuth(r.handleFetchPersona)))
	r.mux.HandleFunc("DELETE /personas/{pid...}", r.audit(r.requireAuth(r.handleDeletePersona)))

	// GET variant kept for easier browser testing; PUT is the preferred form
	r.mux.HandleFunc("GET /password/reset/{email}", r.audit(r.handleIssueResetByPath))
	r.mux.HandleFunc("PUT /password/reset", r.audit(r.handleIssueReset))
	r.mux.HandleFunc("POST /password/reset", r.audit(r.handleConsumeReset))
}

// internalError logs err and sends the one generic failure response; backend
// errors are never translated into domain-specific codes.
func (r *Router) internalError(w http.ResponseWriter, req *http.Request, err error) {
	r.logger.Error(req.Context(), "request failed", "error", err.Error(), "method", req.Method, "path", req.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal error")
}
