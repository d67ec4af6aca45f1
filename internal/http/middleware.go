package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/auth"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/logging"
)

type ctxKey int

const claimsKey ctxKey = iota

const unauthorizedMessage = "unauthorized access"

// claimsFrom returns the identity claim stored by requireAuth.
func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// requireAuth verifies the caller's token and stores the claim in the
// request context. Every verification failure is a uniform 401.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		claims, err := r.tokens.Verify(auth.FromRequest(req))
		if err != nil {
			writeError(w, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		next(w, req.WithContext(context.WithValue(req.Context(), claimsKey, claims)))
	}
}

// requireRole gates a route on the caller's stored role. The check is flat
// equality against the users collection; admin does not satisfy creator.
func (r *Router) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return r.requireAuth(func(w http.ResponseWriter, req *http.Request) {
		claims := claimsFrom(req.Context())
		user, err := r.store.GetUser(req.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, contests.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}
			r.storeError(w, req, err)
			return
		}
		if user.Role != role {
			writeError(w, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		next(w, req)
	})
}

// logRequests logs one line per request with method, path, status and
// duration.
func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		r.logger.WithFields(logging.Fields{
			"method":      req.Method,
			"path":        req.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote":      req.RemoteAddr,
		}).Info("request completed")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
