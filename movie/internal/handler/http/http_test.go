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
	"cineview/movie/internal/controller/movie"
	"cineview/movie/internal/publisher/noop"
	"cineview/movie/internal/repository/memory"
	"cineview/movie/pkg/model"
	"cineview/pkg/ident"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

type noUsers struct{}

func (noUsers) Raters(context.Context, []string) (map[string]model.Rater, error) {
	return map[string]model.Rater{}, nil
}

type fixture struct {
	t      *testing.T
	server *httptest.Server
	tokens *token.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	tokens, err := token.New("test-secret", time.Hour)
	require.NoError(t, err)
	ctrl := movie.New(memory.New(logger), noUsers{}, noop.New(), logger)
	h := New(ctrl, tally.NoopScope, logger)
	srv := httptest.NewServer(h.Routes(identity.Middleware(tokens, logger)))
	t.Cleanup(srv.Close)
	return &fixture{t: t, server: srv, tokens: tokens}
}

func (f *fixture) tokenFor(userID, username string) string {
	f.t.Helper()
	tok, err := f.tokens.Issue(userID, username)
	require.NoError(f.t, err)
	return tok
}

func (f *fixture) do(method, path, tok string, body any) (int, map[string]any) {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	var out any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	obj, _ := out.(map[string]any)
	return resp.StatusCode, obj
}

func (f *fixture) createMovie(title string) string {
	f.t.Helper()
	status, body := f.do(http.MethodPost, "/", "", map[string]any{
		"title":       title,
		"description": "Spice",
		"genre":       "Sci-Fi",
		"releaseYear": 2021,
		"category":    "Film",
	})
	require.Equal(f.t, http.StatusCreated, status)
	mv := body["movie"].(map[string]any)
	assert.Equal(f.t, []any{"Sci-Fi"}, mv["genre"])
	return mv["id"].(string)
}

func TestRatingScenario(t *testing.T) {
	f := newFixture(t)
	id := f.createMovie("Dune")
	alice := f.tokenFor(ident.New(), "alice")
	bob := f.tokenFor(ident.New(), "bob")

	status, body := f.do(http.MethodPost, "/"+id+"/ratings", alice, map[string]any{"rating": 4})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 4.0, body["averageRating"])

	status, body = f.do(http.MethodPost, "/"+id+"/ratings", alice, map[string]any{"rating": 2})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "You have already rated this movie", body["error"])

	status, body = f.do(http.MethodPut, "/"+id+"/ratings", alice, map[string]any{"rating": 5})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5.0, body["averageRating"])

	status, body = f.do(http.MethodDelete, "/"+id+"/ratings", bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Rating not found for this user", body["error"])

	status, body = f.do(http.MethodGet, "/"+id+"/ratings", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, 5.0, body["averageRating"])

	status, body = f.do(http.MethodPost, "/"+id+"/ratings", bob, map[string]any{"rating": 7})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotContains(t, body["error"], "validation failed")
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t)
	id := f.createMovie("Dune")

	status, body := f.do(http.MethodPost, "/"+id+"/ratings", "", map[string]any{"rating": 4})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token is required", body["error"])

	status, body = f.do(http.MethodPost, "/"+id+"/ratings", "garbage", map[string]any{"rating": 4})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid access token", body["error"])
}

func TestCommentOwnership(t *testing.T) {
	f := newFixture(t)
	id := f.createMovie("Dune")
	alice := f.tokenFor(ident.New(), "alice")
	bob := f.tokenFor(ident.New(), "bob")

	status, body := f.do(http.MethodPost, "/"+id+"/comments", alice, map[string]any{"text": "Loved it"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "comment is required", body["error"])

	status, body = f.do(http.MethodPost, "/"+id+"/comments", alice, map[string]any{"comment": "Loved it"})
	require.Equal(t, http.StatusCreated, status)
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "alice", comment["username"])
	commentID := comment["id"].(string)

	status, body = f.do(http.MethodPut, "/"+id+"/comments/"+commentID, bob, map[string]any{"comment": "mine"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You are not allowed to modify this resource", body["error"])

	status, _ = f.do(http.MethodPut, "/"+id+"/comments/"+commentID, bob, map[string]any{})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(http.MethodDelete, "/"+id+"/comments/"+commentID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(http.MethodDelete, "/"+id+"/comments/"+ident.New(), alice, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = f.do(http.MethodPut, "/"+id+"/comments/"+commentID, alice, map[string]any{"comment": "Still love it"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Still love it", body["comment"].(map[string]any)["text"])

	status, _ = f.do(http.MethodDelete, "/"+id+"/comments/"+commentID, alice, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMovieErrors(t *testing.T) {
	f := newFixture(t)
	id := f.createMovie("Dune")

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{name: "malformed id", method: http.MethodGet, path: "/not-an-id", wantStatus: http.StatusBadRequest, wantError: "Invalid ID"},
		{name: "missing movie", method: http.MethodGet, path: "/" + ident.New(), wantStatus: http.StatusNotFound, wantError: "Movie not found"},
		{name: "empty update", method: http.MethodPut, path: "/" + id, body: map[string]any{}, wantStatus: http.StatusBadRequest, wantError: "no fields to update"},
		{name: "missing fields", method: http.MethodPost, path: "/", body: map[string]any{"title": "x"}, wantStatus: http.StatusBadRequest},
		{name: "empty poster", method: http.MethodPut, path: "/" + id + "/poster", body: map[string]any{"posterUrl": ""}, wantStatus: http.StatusBadRequest},
		{name: "missing comments", method: http.MethodGet, path: "/" + ident.New() + "/comments", wantStatus: http.StatusNotFound, wantError: "Movie not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.do(tt.method, tt.path, "", tt.body)
			assert.Equal(t, tt.wantStatus, status, tt.name)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"], tt.name)
			}
		})
	}
}

func TestListAndDelete(t *testing.T) {
	f := newFixture(t)
	dune := f.createMovie("Dune")
	f.createMovie("Heat")

	resp, err := http.Get(f.server.URL + "/?search=DUNE")
	require.NoError(t, err)
	defer resp.Body.Close()
	var movies []model.Movie
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&movies))
	require.Len(t, movies, 1)
	assert.Equal(t, dune, movies[0].ID)

	status, body := f.do(http.MethodDelete, "/"+dune, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Movie deleted successfully", body["message"])

	status, _ = f.do(http.MethodGet, "/"+dune, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
