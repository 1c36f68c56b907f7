package local

import (
	"context"
	"testing"

	moviemodel "cineview/movie/pkg/model"
	"cineview/user/pkg/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMovies map[string]*moviemodel.Movie

func (s stubMovies) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s[id]
	return ok, nil
}

func (s stubMovies) GetMany(_ context.Context, ids []string) ([]*moviemodel.Movie, error) {
	var res []*moviemodel.Movie
	for _, id := range ids {
		if m, ok := s[id]; ok {
			res = append(res, m)
		}
	}
	return res, nil
}

func TestResolveDropsDeletedMovies(t *testing.T) {
	g := New(stubMovies{
		"m1": {ID: "m1", Title: "Dune", Genre: moviemodel.Genres{"Sci-Fi"}, ReleaseYear: 2021, Category: "Film", AverageRating: 4.5},
		"m2": {ID: "m2", Title: "Heat", Genre: moviemodel.Genres{"Crime"}, ReleaseYear: 1995, Category: "Film"},
	})
	got, err := g.Resolve(context.Background(), []string{"m2", "gone", "m1"})
	require.NoError(t, err)
	want := []model.FavoriteMovie{
		{ID: "m2", Title: "Heat", Genre: []string{"Crime"}, ReleaseYear: 1995, Category: "Film"},
		{ID: "m1", Title: "Dune", Genre: []string{"Sci-Fi"}, ReleaseYear: 2021, Category: "Film", AverageRating: 4.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}

	empty, err := g.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	ok, err := g.Exists(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, ok)
}
