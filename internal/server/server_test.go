package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cineview/pkg/limiter"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubMounter struct {
	name string
}

func (s stubMounter) Routes(authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.name))
	})
	r.With(authn).Get("/private", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.name + " private"))
	})
	return r
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func serve(h http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter(t *testing.T) {
	auth := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("auth"))
	})
	h := NewRouter(Options{Authn: denyAll}, stubMounter{name: "movies"}, stubMounter{name: "users"}, auth, zap.NewNop())

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "movies", method: http.MethodGet, path: "/movies", wantStatus: http.StatusOK, wantBody: "movies"},
		{name: "users", method: http.MethodGet, path: "/users/", wantStatus: http.StatusOK, wantBody: "users"},
		{name: "auth", method: http.MethodPost, path: "/auth/login", wantStatus: http.StatusOK, wantBody: "auth"},
		{name: "guarded", method: http.MethodGet, path: "/movies/private", wantStatus: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/nowhere", wantStatus: http.StatusNotFound, wantBody: `{"error":"Route not found"}`},
		{name: "wrong method", method: http.MethodPatch, path: "/healthz", wantStatus: http.StatusMethodNotAllowed, wantBody: `{"error":"Method not allowed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantStatus, rec.Code, tt.name)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()), tt.name)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(Options{CORSOrigins: []string{"https://cineview.example"}, Authn: denyAll},
		stubMounter{name: "movies"}, stubMounter{name: "users"}, http.NotFoundHandler(), zap.NewNop())

	rec := serve(h, http.MethodOptions, "/movies", map[string]string{
		"Origin":                        "https://cineview.example",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "https://cineview.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, http.MethodGet, "/movies", map[string]string{"Origin": "https://elsewhere.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(Options{Limiter: limiter.New(zap.NewNop(), 1, 1), Authn: denyAll},
		stubMounter{name: "movies"}, stubMounter{name: "users"}, http.NotFoundHandler(), zap.NewNop())

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/healthz", nil).Code)
}
