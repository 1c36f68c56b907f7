// Package identity resolves the caller of a request from its bearer
// credential and carries it through the request context.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cineview/internal/httputil"
	"cineview/pkg/logging"

	"go.uber.org/zap"
)

var (
	// ErrMissingCredential is returned when a request carries no bearer token.
	ErrMissingCredential = errors.New("access token is required")
	// ErrInvalidCredential is returned for malformed, expired or mis-signed tokens.
	ErrInvalidCredential = errors.New("invalid access token")
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	UserID   string
	Username string
}

// Verifier validates a bearer token and yields the identity embedded in it.
type Verifier interface {
	Verify(token string) (Identity, error)
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Any other shape yields an empty string.
func BearerToken(req *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(req.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Resolve runs the verifier against the request credential.
func Resolve(v Verifier, req *http.Request) (Identity, error) {
	token := BearerToken(req)
	if token == "" {
		return Identity{}, ErrMissingCredential
	}
	id, err := v.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Middleware rejects requests without a valid bearer token: 401 when the
// token is absent and 403 when it does not verify. Verified identities are
// stored in the request context.
func Middleware(v Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "middleware"),
		zap.String(logging.FieldType, "identity"),
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id, err := Resolve(v, req)
			if errors.Is(err, ErrMissingCredential) {
				httputil.WriteError(w, logger, http.StatusUnauthorized, "Access token is required")
				return
			} else if err != nil {
				logger.Debug("Token verification failed", zap.String("path", req.URL.Path), zap.Error(err))
				httputil.WriteError(w, logger, http.StatusForbidden, "Invalid access token")
				return
			}
			next.ServeHTTP(w, req.WithContext(WithIdentity(req.Context(), id)))
		})
	}
}
