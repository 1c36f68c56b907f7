//go:build integration

package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"cineview/internal/mongodb"
	"cineview/movie/internal/repository"
	"cineview/movie/pkg/model"
	"cineview/pkg/ident"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Run with: MONGO_URI=mongodb://localhost:27017 go test -tags integration ./movie/internal/repository/mongo/
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}
	ctx := context.Background()
	client, err := mongodb.Connect(ctx, uri)
	require.NoError(t, err)
	db := client.Database("cineview_test_" + ident.New())
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	r, err := New(ctx, db, zap.NewNop())
	require.NoError(t, err)
	return r
}

func createMovie(t *testing.T, r *Repository) string {
	t.Helper()
	now := time.Now().UTC()
	m := &model.Movie{
		ID:          ident.New(),
		Title:       "Dune",
		Description: "Spice",
		Genre:       model.Genres{"Sci-Fi"},
		ReleaseYear: 2021,
		Category:    "Film",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, r.Create(context.Background(), m))
	return m.ID
}

func rating(userID string, s model.Score) model.Rating {
	return model.Rating{UserID: userID, Score: s, CreatedAt: time.Now().UTC()}
}

func TestRatingPipelines(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	id := createMovie(t, r)
	alice, bob, carol := ident.New(), ident.New(), ident.New()

	m, err := r.AddRating(ctx, id, rating(alice, 4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.AverageRating)
	assert.Len(t, m.Ratings, 1)

	_, err = r.AddRating(ctx, id, rating(alice, 2))
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	m, err = r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.AverageRating)
	assert.Len(t, m.Ratings, 1)

	m, err = r.AddRating(ctx, id, rating(bob, 1))
	require.NoError(t, err)
	assert.Equal(t, 2.5, m.AverageRating)

	m, err = r.UpdateRating(ctx, id, rating(alice, 5))
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.AverageRating)
	got, ok := m.RatingBy(alice)
	require.True(t, ok)
	assert.Equal(t, model.Score(5), got.Score)

	_, err = r.UpdateRating(ctx, id, rating(carol, 3))
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)

	m, err = r.DeleteRating(ctx, id, bob)
	require.NoError(t, err)
	assert.Equal(t, 5.0, m.AverageRating)

	m, err = r.DeleteRating(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.AverageRating)
	assert.Empty(t, m.Ratings)

	_, err = r.DeleteRating(ctx, id, alice)
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)

	_, err = r.AddRating(ctx, ident.New(), rating(alice, 3))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCommentUpdates(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	id := createMovie(t, r)
	alice, bob := ident.New(), ident.New()
	c := model.Comment{ID: ident.New(), UserID: alice, Username: "alice", Text: "great", CreatedAt: time.Now().UTC()}
	require.NoError(t, r.AddComment(ctx, id, c))

	later := time.Now().UTC()
	err := r.UpdateComment(ctx, id, model.Comment{ID: c.ID, UserID: bob, Text: "hijack", UpdatedAt: &later})
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)
	require.NoError(t, r.UpdateComment(ctx, id, model.Comment{ID: c.ID, UserID: alice, Text: "superb", UpdatedAt: &later}))

	m, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, m.Comments, 1)
	assert.Equal(t, "superb", m.Comments[0].Text)
	assert.NotNil(t, m.Comments[0].UpdatedAt)

	assert.ErrorIs(t, r.DeleteComment(ctx, id, c.ID, bob), repository.ErrEntryNotFound)
	require.NoError(t, r.DeleteComment(ctx, id, c.ID, alice))
	assert.ErrorIs(t, r.DeleteComment(ctx, id, c.ID, alice), repository.ErrEntryNotFound)
	assert.ErrorIs(t, r.AddComment(ctx, ident.New(), c), repository.ErrNotFound)
}
