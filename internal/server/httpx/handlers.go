package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/keybackup/internal/common"
)

func (r *Router) handleStatus(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Key Backup Service",
		"version": serviceVersion,
		"started": r.started,
		"url":     baseURL(req),
	})
}

func (r *Router) handleCreateAccount(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}
	email := strings.TrimSpace(payload.Email)
	password := strings.TrimSpace(payload.Password)
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}

	if err := r.users.Register(req.Context(), email, password); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			writeError(w, http.StatusBadRequest, "email already registered; reset password or try another email")
			return
		}
		r.internalError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

func (r *Router) handleListPersonas(w http.ResponseWriter, req *http.Request) {
	email, ok := principalFromContext(req.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	ids, err := r.personas.List(req.Context(), email)
	if err != nil {
		r.internalError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"personas": ids})
}

func (r *Router) handleUploadPersona(w http.ResponseWriter, req *http.Request) {
	email, ok := principalFromContext(req.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	pid := req.PathValue("pid")

	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, r.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "content too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "missing required content")
		return
	}

	contentType := req.Header.Get("Content-Type")

	if err := r.personas.Put(req.Context(), email, pid, body, contentType); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidPersonaID):
			writeError(w, http.StatusBadRequest, "invalid persona id: "+pid)
		case errors.Is(err, common.ErrMissingContentType):
			writeError(w, http.StatusBadRequest, "missing required header: content-type")
		case errors.Is(err, common.ErrInvalidContent):
			writeError(w, http.StatusBadRequest, "invalid content")
		default:
			r.internalError(w, req, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

func (r *Router) handleFetchPersona(w http.ResponseWriter, req *http.Request) {
	email, ok := principalFromContext(req.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	pid := req.PathValue("pid")

	persona, err := r.personas.Get(req.Context(), email, pid)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPersonaID) {
			writeError(w, http.StatusBadRequest, "invalid persona id: "+pid)
			return
		}
		r.internalError(w, req, err)
		return
	}
	if persona == nil {
		writeError(w, http.StatusGone, "persona not found")
		return
	}

	// no content is a valid state, distinct from not-found
	if len(persona.Content) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	for name, value := range persona.Metadata {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", persona.ContentType)
	_, _ = w.Write(persona.Content)
}

func (r *Router) handleDeletePersona(w http.ResponseWriter, req *http.Request) {
	email, ok := principalFromContext(req.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	pid := req.PathValue("pid")

	if err := r.personas.Delete(req.Context(), email, []string{pid}); err != nil {
		if errors.Is(err, common.ErrInvalidPersonaID) {
			writeError(w, http.StatusBadRequest, "invalid persona id: "+pid)
			return
		}
		r.internalError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

func (r *Router) handleIssueResetByPath(w http.ResponseWriter, req *http.Request) {
	email := strings.TrimSpace(req.PathValue("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing email parameter")
		return
	}
	r.issueReset(w, req, email)
}

func (r *Router) handleIssueReset(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing email parameter")
		return
	}
	r.issueReset(w, req, email)
}

// issueReset always answers {} on success, whether or not the email is
// registered; the service stays silent for unknown accounts.
func (r *Router) issueReset(w http.ResponseWriter, req *http.Request, email string) {
	if err := r.users.IssueReset(req.Context(), email); err != nil {
		r.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (r *Router) handleConsumeReset(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email     string `json:"email"`
		ResetCode string `json:"reset_code"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}

	email := strings.TrimSpace(payload.Email)
	code := strings.TrimSpace(payload.ResetCode)
	password := strings.TrimSpace(payload.Password)
	switch {
	case email == "":
		writeError(w, http.StatusBadRequest, "empty email parameter")
		return
	case code == "":
		writeError(w, http.StatusBadRequest, "empty reset code parameter")
		return
	case password == "":
		writeError(w, http.StatusBadRequest, "empty password parameter")
		return
	}

	if err := r.users.ConsumeReset(req.Context(), email, code, password); err != nil {
		// an unknown account and a wrong code are deliberately answered the
		// same way, so reset attempts cannot probe registration status
		if errors.Is(err, common.ErrInvalidAccount) || errors.Is(err, common.ErrInvalidResetCode) {
			writeError(w, http.StatusBadRequest, "invalid email or reset code")
			return
		}
		r.internalError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

func baseURL(req *http.Request) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + req.Host
}
