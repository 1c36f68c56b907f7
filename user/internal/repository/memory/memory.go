package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cineview/pkg/logging"
	"cineview/user/internal/repository"
	"cineview/user/pkg/model"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "user-repository-memory"

// Repository defines an in-memory user repository.
type Repository struct {
	sync.RWMutex
	data   map[string]*model.User
	order  []string
	logger *zap.Logger
}

// New creates a new memory repository.
func New(logger *zap.Logger) *Repository {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "memory"),
	)
	return &Repository{data: map[string]*model.User{}, logger: logger}
}

// Create stores a new user. Usernames and emails are unique, emails
// compared without case.
func (r *Repository) Create(ctx context.Context, u *model.User) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	for _, existing := range r.data {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrAlreadyExists
		}
	}
	r.data[u.ID] = u.Clone()
	r.order = append(r.order, u.ID)
	return nil
}

// Get retrieves a user by id.
func (r *Repository) Get(ctx context.Context, id string) (*model.User, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Get")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	u, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetByUsername")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	for _, u := range r.data {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetMany retrieves the existing users among ids.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]*model.User, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMany")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	res := make([]*model.User, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if u, ok := r.data[id]; ok && !seen[id] {
			seen[id] = true
			res = append(res, u.Clone())
		}
	}
	return res, nil
}

// List returns all users in registration order.
func (r *Repository) List(ctx context.Context) ([]*model.User, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/List")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	res := make([]*model.User, 0, len(r.order))
	for _, id := range r.order {
		res = append(res, r.data[id].Clone())
	}
	return res, nil
}

// UpdateUsername renames a user.
func (r *Repository) UpdateUsername(ctx context.Context, id, username string, at time.Time) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateUsername")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	u, ok := r.data[id]
	if !ok {
		return repository.ErrNotFound
	}
	for oid, other := range r.data {
		if oid != id && other.Username == username {
			return repository.ErrAlreadyExists
		}
	}
	u.Username = username
	u.UpdatedAt = at
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdatePassword")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	u, ok := r.data[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

// Delete removes a user.
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

// AddFavorite adds movieID to the user's favorites. Adding a member again
// is a no-op.
func (r *Repository) AddFavorite(ctx context.Context, userID, movieID string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddFavorite")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	u, ok := r.data[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if !u.HasFavorite(movieID) {
		u.Favorites = append(u.Favorites, movieID)
	}
	return nil
}

// RemoveFavorite removes movieID from the user's favorites.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, movieID string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/RemoveFavorite")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	u, ok := r.data[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, id := range u.Favorites {
		if id == movieID {
			u.Favorites = append(u.Favorites[:i:i], u.Favorites[i+1:]...)
			return nil
		}
	}
	return repository.ErrEntryNotFound
}

// RemoveFavoriteEverywhere removes movieID from every favorites set and
// returns the number of users changed.
func (r *Repository) RemoveFavoriteEverywhere(ctx context.Context, movieID string) (int64, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/RemoveFavoriteEverywhere")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	var n int64
	for _, u := range r.data {
		for i, id := range u.Favorites {
			if id == movieID {
				u.Favorites = append(u.Favorites[:i:i], u.Favorites[i+1:]...)
				n++
				break
			}
		}
	}
	return n, nil
}

// FavoriteMovieIDs returns the distinct movie ids referenced by any
// favorites set, sorted.
func (r *Repository) FavoriteMovieIDs(ctx context.Context) ([]string, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/FavoriteMovieIDs")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	seen := map[string]bool{}
	res := []string{}
	for _, u := range r.data {
		for _, id := range u.Favorites {
			if !seen[id] {
				seen[id] = true
				res = append(res, id)
			}
		}
	}
	sort.Strings(res)
	return res, nil
}
