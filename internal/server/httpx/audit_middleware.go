package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// statusRecorder captures the status code and byte count for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// audit logs one line per request. A request id is taken from X-Request-ID
// or generated, and echoed back in the response.
func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		reqID := strings.TrimSpace(req.Header.Get("X-Request-ID"))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}

		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		}

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error(req.Context(), "http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn(req.Context(), "http_request", fields...)
		default:
			r.logger.Info(req.Context(), "http_request", fields...)
		}
	}
}
