package local

import (
	"context"

	moviemodel "cineview/movie/pkg/model"
	"cineview/user/pkg/model"
)

type movieLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetMany(ctx context.Context, ids []string) ([]*moviemodel.Movie, error)
}

// Gateway defines an in-process movie gateway.
type Gateway struct {
	movies movieLookup
}

// New creates a new in-process movie gateway.
func New(movies movieLookup) *Gateway {
	return &Gateway{movies: movies}
}

// Exists reports whether a movie exists.
func (g *Gateway) Exists(ctx context.Context, id string) (bool, error) {
	return g.movies.Exists(ctx, id)
}

// Resolve returns the current data of the movies among ids that still
// exist, in the order of ids.
func (g *Gateway) Resolve(ctx context.Context, ids []string) ([]model.FavoriteMovie, error) {
	res := make([]model.FavoriteMovie, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	movies, err := g.movies.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		res = append(res, model.FavoriteMovie{
			ID:            m.ID,
			Title:         m.Title,
			Genre:         append([]string{}, m.Genre...),
			ReleaseYear:   m.ReleaseYear,
			Category:      m.Category,
			PosterURL:     m.PosterURL,
			AverageRating: m.AverageRating,
		})
	}
	return res, nil
}
