package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/keybackup/internal/common"
)

type principalContextKey string

const contextKeyPrincipal principalContextKey = "keybackup-principal"

// requireAuth authenticates the request's Basic-Auth credentials before
// invoking the handler. On success the normalized account email rides the
// request context; there are no sessions, every request re-authenticates.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		email, password, ok := req.BasicAuth()
		if !ok {
			writeUnauthorized(w)
			return
		}

		principal, err := r.users.Authenticate(req.Context(), email, password)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				writeUnauthorized(w)
				return
			}
			r.logger.Error(req.Context(), "authentication backend failure", "error", err.Error(), "path", req.URL.Path)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx := context.WithValue(req.Context(), contextKeyPrincipal, principal)
		next(w, req.WithContext(ctx))
	}
}

// principalFromContext extracts the authenticated email from the context.
func principalFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(contextKeyPrincipal).(string)
	return email, ok && email != ""
}
