package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"cineview/movie/pkg/model"
	usermodel "cineview/user/pkg/model"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var baseURL = flag.String("addr", "http://localhost:3000", "base URL of a running cineview service")

type client struct {
	http *http.Client
	base string
}

func (c *client) call(method, path, token string, body, out any) int {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("encode %s %s: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		log.Fatalf("build %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read %s %s: %v", method, path, err)
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.Unmarshal(raw, out); err != nil {
			log.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp.StatusCode
}

func (c *client) expect(want int, method, path, token string, body, out any) {
	if got := c.call(method, path, token, body, out); got != want {
		log.Fatalf("%s %s: got status %d, want %d", method, path, got, want)
	}
}

func (c *client) signUp(username string) (string, string) {
	reg := usermodel.Registration{Username: username, Email: username + "@example.com", Password: "secret123"}
	c.expect(http.StatusCreated, http.MethodPost, "/auth/register", "", reg, nil)
	var session struct {
		Token string               `json:"token"`
		User  usermodel.PublicUser `json:"user"`
	}
	c.expect(http.StatusOK, http.MethodPost, "/auth/login", "", usermodel.Credentials{Username: username, Password: "secret123"}, &session)
	return session.User.ID, session.Token
}

func main() {
	flag.Parse()
	log.Println("Starting the integration test against " + *baseURL)
	c := &client{http: &http.Client{Timeout: 10 * time.Second}, base: *baseURL}
	suffix := fmt.Sprintf("%d", time.Now().UnixNano()%1_000_000)

	c.expect(http.StatusOK, http.MethodGet, "/healthz", "", nil, nil)

	log.Println("Registering users")
	aliceID, alice := c.signUp("alice" + suffix)
	_, bob := c.signUp("bob" + suffix)

	log.Println("Creating a movie")
	var created struct {
		Movie model.Movie `json:"movie"`
	}
	c.expect(http.StatusCreated, http.MethodPost, "/movies", "", map[string]any{
		"title":       "Dune " + suffix,
		"description": "Spice must flow",
		"genre":       "Sci-Fi",
		"releaseYear": 2021,
		"category":    "Film",
	}, &created)
	movieID := created.Movie.ID

	var got model.Movie
	c.expect(http.StatusOK, http.MethodGet, "/movies/"+movieID, "", nil, &got)
	want := model.Movie{
		ID:          movieID,
		Title:       "Dune " + suffix,
		Description: "Spice must flow",
		Genre:       model.Genres{"Sci-Fi"},
		ReleaseYear: 2021,
		Category:    "Film",
		Ratings:     []model.Rating{},
		Comments:    []model.Comment{},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.Movie{}, "CreatedAt", "UpdatedAt")); diff != "" {
		log.Fatalf("get movie after create mismatch: %v", diff)
	}

	log.Println("Rating the movie")
	var rating struct {
		AverageRating float64 `json:"averageRating"`
	}
	c.expect(http.StatusCreated, http.MethodPost, "/movies/"+movieID+"/ratings", alice, map[string]any{"rating": 4}, &rating)
	if rating.AverageRating != 4 {
		log.Fatalf("rating mismatch: got %v, want %v", rating.AverageRating, 4)
	}
	c.expect(http.StatusConflict, http.MethodPost, "/movies/"+movieID+"/ratings", alice, map[string]any{"rating": 2}, nil)
	c.expect(http.StatusOK, http.MethodPut, "/movies/"+movieID+"/ratings", alice, map[string]any{"rating": 5}, &rating)
	if rating.AverageRating != 5 {
		log.Fatalf("rating mismatch: got %v, want %v", rating.AverageRating, 5)
	}
	c.expect(http.StatusNotFound, http.MethodDelete, "/movies/"+movieID+"/ratings", bob, nil, nil)

	var summary model.RatingsSummary
	c.expect(http.StatusOK, http.MethodGet, "/movies/"+movieID+"/ratings", "", nil, &summary)
	if summary.Count != 1 || summary.Ratings[0].User == nil || summary.Ratings[0].User.ID != aliceID {
		log.Fatalf("ratings summary mismatch: %+v", summary)
	}

	log.Println("Commenting on the movie")
	var commented struct {
		Comment model.Comment `json:"comment"`
	}
	c.expect(http.StatusCreated, http.MethodPost, "/movies/"+movieID+"/comments", alice, map[string]any{"comment": "Loved it"}, &commented)
	commentPath := "/movies/" + movieID + "/comments/" + commented.Comment.ID
	c.expect(http.StatusForbidden, http.MethodPut, commentPath, bob, map[string]any{"comment": "mine"}, nil)
	c.expect(http.StatusOK, http.MethodPut, commentPath, alice, map[string]any{"comment": "Still love it"}, nil)

	log.Println("Managing favorites")
	favPath := "/users/" + aliceID + "/favorites"
	c.expect(http.StatusForbidden, http.MethodPost, favPath, bob, map[string]any{"movieId": movieID}, nil)
	c.expect(http.StatusOK, http.MethodPost, favPath, alice, map[string]any{"movieId": movieID}, nil)
	c.expect(http.StatusOK, http.MethodPost, favPath, alice, map[string]any{"movieId": movieID}, nil)

	var profile usermodel.Profile
	c.expect(http.StatusOK, http.MethodGet, "/users/profile", alice, nil, &profile)
	wantFavs := []usermodel.FavoriteMovie{{
		ID:            movieID,
		Title:         "Dune " + suffix,
		Genre:         []string{"Sci-Fi"},
		ReleaseYear:   2021,
		Category:      "Film",
		AverageRating: 5,
	}}
	if diff := cmp.Diff(wantFavs, profile.FavoriteMovies); diff != "" {
		log.Fatalf("profile favorites mismatch: %v", diff)
	}

	log.Println("Deleting the movie")
	c.expect(http.StatusOK, http.MethodDelete, "/movies/"+movieID, "", nil, nil)
	c.expect(http.StatusNotFound, http.MethodGet, "/movies/"+movieID, "", nil, nil)

	var favs struct {
		Data []usermodel.FavoriteMovie `json:"data"`
	}
	c.expect(http.StatusOK, http.MethodGet, favPath, alice, nil, &favs)
	if len(favs.Data) != 0 {
		log.Fatalf("favorites after movie delete: got %d, want 0", len(favs.Data))
	}

	log.Println("Cleaning up users")
	c.expect(http.StatusOK, http.MethodDelete, "/users/profile", alice, nil, nil)
	c.expect(http.StatusOK, http.MethodDelete, "/users/profile", bob, nil, nil)

	log.Println("Integration test execution successful")
}
