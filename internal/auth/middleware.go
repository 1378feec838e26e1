package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/internal/httpx"
)

type contextKey string

const callerIDContextKey contextKey = "caller_id"

// WithCallerID stores the authenticated user ID in ctx.
func WithCallerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, callerIDContextKey, id)
}

// CallerID returns the authenticated user ID, or an invalid NullUUID for
// anonymous requests.
func CallerID(ctx context.Context) uuid.NullUUID {
	id, ok := ctx.Value(callerIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}

// Optional attaches the caller identity when a bearer token is present.
// Requests without an Authorization header stay anonymous; a header carrying
// a bad token is rejected.
func Optional(v Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := authenticate(v, header)
			if !ok {
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), userID)))
		})
	}
}

// Required rejects requests that do not carry a valid bearer token.
func Required(v Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "authentication required")
				return
			}

			userID, ok := authenticate(v, header)
			if !ok {
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), userID)))
		})
	}
}

func authenticate(v Verifier, header string) (uuid.UUID, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return uuid.Nil, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, false
	}

	userID, err := v.Verify(token)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="shortlinks"`)
	httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", msg, nil)
}
