package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"cineview/movie/internal/repository"
	"cineview/movie/pkg/model"
	"cineview/pkg/logging"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "movie-repository-memory"

// Repository defines an in-memory movie repository.
type Repository struct {
	sync.RWMutex
	data   map[string]*model.Movie
	order  []string
	logger *zap.Logger
}

// New creates a new memory repository.
func New(logger *zap.Logger) *Repository {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "memory"),
	)
	return &Repository{data: map[string]*model.Movie{}, logger: logger}
}

// Create stores a new movie.
func (r *Repository) Create(ctx context.Context, m *model.Movie) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	r.data[m.ID] = m.Clone()
	r.order = append(r.order, m.ID)
	return nil
}

// List returns movies in insertion order whose title contains search,
// ignoring case. An empty search matches every movie.
func (r *Repository) List(ctx context.Context, search string) ([]*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/List")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	needle := strings.ToLower(search)
	res := make([]*model.Movie, 0, len(r.order))
	for _, id := range r.order {
		m := r.data[id]
		if needle == "" || strings.Contains(strings.ToLower(m.Title), needle) {
			res = append(res, m.Clone())
		}
	}
	return res, nil
}

// Get retrieves a movie by id.
func (r *Repository) Get(ctx context.Context, id string) (*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Get")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	m, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.Clone(), nil
}

// GetMany retrieves the existing movies among ids, preserving the order of ids.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMany")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	res := make([]*model.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.data[id]; ok {
			res = append(res, m.Clone())
		}
	}
	return res, nil
}

// Update merges a partial update into a movie.
func (r *Repository) Update(ctx context.Context, id string, u *model.MovieUpdate, at time.Time) (*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Update")
	defer span.End()
	return r.mutate(id, func(m *model.Movie) error {
		u.Apply(m)
		m.UpdatedAt = at
		return nil
	})
}

// Delete removes a movie together with its ledgers.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Delete")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	if _, ok := r.data[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddRating appends a rating unless the user already rated the movie.
func (r *Repository) AddRating(ctx context.Context, movieID string, rating model.Rating) (*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddRating")
	defer span.End()
	return r.mutate(movieID, func(m *model.Movie) error {
		if _, ok := m.RatingBy(rating.UserID); ok {
			return repository.ErrAlreadyExists
		}
		m.Ratings = append(m.Ratings, rating)
		m.RecomputeAverage()
		m.UpdatedAt = rating.CreatedAt
		return nil
	})
}

// UpdateRating replaces the score of the user's existing rating.
func (r *Repository) UpdateRating(ctx context.Context, movieID string, rating model.Rating) (*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateRating")
	defer span.End()
	return r.mutate(movieID, func(m *model.Movie) error {
		for i := range m.Ratings {
			if m.Ratings[i].UserID == rating.UserID {
				m.Ratings[i].Score = rating.Score
				m.Ratings[i].CreatedAt = rating.CreatedAt
				m.RecomputeAverage()
				m.UpdatedAt = rating.CreatedAt
				return nil
			}
		}
		return repository.ErrEntryNotFound
	})
}

// DeleteRating removes the user's rating.
func (r *Repository) DeleteRating(ctx context.Context, movieID, userID string) (*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteRating")
	defer span.End()
	return r.mutate(movieID, func(m *model.Movie) error {
		for i := range m.Ratings {
			if m.Ratings[i].UserID == userID {
				m.Ratings = append(m.Ratings[:i], m.Ratings[i+1:]...)
				m.RecomputeAverage()
				m.UpdatedAt = time.Now().UTC()
				return nil
			}
		}
		return repository.ErrEntryNotFound
	})
}

// AddComment appends a comment.
func (r *Repository) AddComment(ctx context.Context, movieID string, c model.Comment) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddComment")
	defer span.End()
	_, err := r.mutate(movieID, func(m *model.Movie) error {
		m.Comments = append(m.Comments, c)
		m.UpdatedAt = c.CreatedAt
		return nil
	})
	return err
}

// UpdateComment replaces the text of a comment owned by c.UserID.
func (r *Repository) UpdateComment(ctx context.Context, movieID string, c model.Comment) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateComment")
	defer span.End()
	_, err := r.mutate(movieID, func(m *model.Movie) error {
		for i := range m.Comments {
			if m.Comments[i].ID == c.ID && m.Comments[i].UserID == c.UserID {
				m.Comments[i].Text = c.Text
				m.Comments[i].UpdatedAt = c.UpdatedAt
				if c.UpdatedAt != nil {
					m.UpdatedAt = *c.UpdatedAt
				}
				return nil
			}
		}
		return repository.ErrEntryNotFound
	})
	return err
}

// DeleteComment removes a comment owned by ownerID.
func (r *Repository) DeleteComment(ctx context.Context, movieID, commentID, ownerID string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteComment")
	defer span.End()
	_, err := r.mutate(movieID, func(m *model.Movie) error {
		for i := range m.Comments {
			if m.Comments[i].ID == commentID && m.Comments[i].UserID == ownerID {
				m.Comments = append(m.Comments[:i], m.Comments[i+1:]...)
				m.UpdatedAt = time.Now().UTC()
				return nil
			}
		}
		return repository.ErrEntryNotFound
	})
	return err
}

// mutate applies fn to a copy of the movie under the write lock and stores
// the copy only when fn succeeds.
func (r *Repository) mutate(id string, fn func(m *model.Movie) error) (*model.Movie, error) {
	r.Lock()
	defer r.Unlock()
	current, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.data[id] = next
	return next.Clone(), nil
}
