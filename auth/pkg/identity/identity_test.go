package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVerifier map[string]Identity

func (s stubVerifier) Verify(token string) (Identity, error) {
	id, ok := s[token]
	if !ok {
		return Identity{}, errors.New("bad token")
	}
	return id, nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer abc", want: "abc"},
		{header: "Bearer", want: ""},
		{header: "Basic abc", want: ""},
		{header: "abc", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}

func TestMiddleware(t *testing.T) {
	v := stubVerifier{"good": {UserID: "u1", Username: "alice"}}
	var got Identity
	h := Middleware(v, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, _ = FromContext(req.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantID   Identity
	}{
		{name: "missing", wantCode: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer bad", wantCode: http.StatusForbidden},
		{name: "valid", header: "Bearer good", wantCode: http.StatusOK, wantID: Identity{UserID: "u1", Username: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = Identity{}
			req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantID, got)
		})
	}
}
