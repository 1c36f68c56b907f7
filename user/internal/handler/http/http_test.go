package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cineview/auth/pkg/identity"
	"cineview/auth/pkg/token"
	"cineview/pkg/ident"
	"cineview/user/internal/controller/user"
	"cineview/user/internal/repository/memory"
	"cineview/user/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

type stubMovies map[string]string

func (s stubMovies) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s[id]
	return ok, nil
}

func (s stubMovies) Resolve(_ context.Context, ids []string) ([]model.FavoriteMovie, error) {
	res := []model.FavoriteMovie{}
	for _, id := range ids {
		if title, ok := s[id]; ok {
			res = append(res, model.FavoriteMovie{ID: id, Title: title, Genre: []string{}})
		}
	}
	return res, nil
}

type fixture struct {
	t      *testing.T
	server *httptest.Server
	ctrl   *user.Controller
	tokens *token.Manager
}

func newFixture(t *testing.T, movies stubMovies) *fixture {
	t.Helper()
	logger := zap.NewNop()
	tokens, err := token.New("test-secret", time.Hour)
	require.NoError(t, err)
	ctrl := user.New(memory.New(logger), movies, logger)
	h := New(ctrl, tally.NoopScope, logger)
	srv := httptest.NewServer(h.Routes(identity.Middleware(tokens, logger)))
	t.Cleanup(srv.Close)
	return &fixture{t: t, server: srv, ctrl: ctrl, tokens: tokens}
}

func (f *fixture) register(username string) (string, string) {
	f.t.Helper()
	u, err := f.ctrl.Register(context.Background(), &model.Registration{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(f.t, err)
	tok, err := f.tokens.Issue(u.ID, u.Username)
	require.NoError(f.t, err)
	return u.ID, tok
}

func (f *fixture) do(method, path, tok string, body any) (int, any) {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(f.t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	var out any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func field(v any, key string) any {
	obj, _ := v.(map[string]any)
	return obj[key]
}

func TestStaticRoutesTakePrecedence(t *testing.T) {
	f := newFixture(t, stubMovies{})
	aliceID, alice := f.register("alice")
	f.register("bob")

	status, body := f.do(http.MethodGet, "/all", "", nil)
	require.Equal(t, http.StatusOK, status)
	users, ok := body.([]any)
	require.True(t, ok)
	require.Len(t, users, 2)
	assert.Nil(t, field(users[0], "password"))

	status, body = f.do(http.MethodGet, "/profile", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, aliceID, field(body, "id"))
	assert.Equal(t, []any{}, field(body, "favoriteMovies"))

	status, _ = f.do(http.MethodGet, "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = f.do(http.MethodGet, "/"+aliceID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", field(body, "username"))

	status, body = f.do(http.MethodGet, "/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid user ID", field(body, "error"))

	status, body = f.do(http.MethodGet, "/"+ident.New(), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", field(body, "error"))
}

func TestFavorites(t *testing.T) {
	dune := ident.New()
	f := newFixture(t, stubMovies{dune: "Dune"})
	aliceID, alice := f.register("alice")
	_, bob := f.register("bob")

	tests := []struct {
		name       string
		tok        string
		movieID    string
		wantStatus int
		wantError  string
	}{
		{name: "other user", tok: bob, movieID: dune, wantStatus: http.StatusForbidden, wantError: "You can only modify your own favorites"},
		{name: "other user with bad movie id", tok: bob, movieID: "bad", wantStatus: http.StatusForbidden},
		{name: "bad movie id", tok: alice, movieID: "bad", wantStatus: http.StatusBadRequest, wantError: "Invalid movie ID"},
		{name: "missing movie", tok: alice, movieID: ident.New(), wantStatus: http.StatusNotFound, wantError: "Movie not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.do(http.MethodPost, "/"+aliceID+"/favorites", tt.tok, map[string]any{"movieId": tt.movieID})
			assert.Equal(t, tt.wantStatus, status, tt.name)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, field(body, "error"), tt.name)
			}
		})
	}

	for range 2 {
		status, body := f.do(http.MethodPost, "/"+aliceID+"/favorites", alice, map[string]any{"movieId": dune})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, field(body, "success"))
		assert.Len(t, field(body, "data"), 1)
	}

	status, body := f.do(http.MethodGet, "/"+aliceID+"/favorites", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, field(body, "data"), 1)

	status, _ = f.do(http.MethodGet, "/"+aliceID+"/favorites", bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = f.do(http.MethodDelete, "/"+aliceID+"/favorites/"+dune, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, field(body, "data"))

	status, body = f.do(http.MethodDelete, "/"+aliceID+"/favorites/"+dune, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Movie not in favorites", field(body, "error"))
}

func TestProfileChanges(t *testing.T) {
	f := newFixture(t, stubMovies{})
	_, alice := f.register("alice")
	f.register("bob")

	status, body := f.do(http.MethodPut, "/profile/username", alice, map[string]any{"username": "bob"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already exists", field(body, "error"))

	status, body = f.do(http.MethodPut, "/profile/username", alice, map[string]any{"username": "alicia"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alicia", field(field(body, "user"), "username"))

	status, _ = f.do(http.MethodPut, "/profile/password", alice, map[string]any{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = f.do(http.MethodPut, "/profile/password", alice, map[string]any{"password": "another-secret"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(http.MethodDelete, "/profile", alice, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = f.do(http.MethodGet, "/profile", alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
