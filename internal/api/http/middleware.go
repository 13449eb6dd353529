package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
)

type viewerKey struct{}

// ViewerFromContext returns the viewer set by RequireViewer
func ViewerFromContext(ctx context.Context) (domain.Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(domain.Viewer)
	return v, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags every request with an id, echoes it back and logs the
// outcome. An incoming X-Request-ID is kept.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequest(r.Context(), requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.FromContext(ctx).Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// RequireViewer reads the identity the gateway forwards. Requests without a
// usable identity are rejected with 401.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 32)
		if err != nil || id <= 0 {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+HeaderUserID)
			return
		}
		role := domain.UserRole(r.Header.Get(HeaderUserRole))
		if !role.Valid() {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+HeaderUserRole)
			return
		}

		viewer := domain.Viewer{ID: int32(id), Role: role}
		ctx := context.WithValue(r.Context(), viewerKey{}, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
