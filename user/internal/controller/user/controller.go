package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cineview/internal/validation"
	"cineview/pkg/authz"
	"cineview/pkg/ident"
	"cineview/pkg/logging"
	"cineview/pkg/password"
	"cineview/user/internal/repository"
	"cineview/user/pkg/model"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a user is not found.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidID is returned for malformed user ids.
	ErrInvalidID = errors.New("invalid user id")
	// ErrInvalidMovieID is returned for missing or malformed movie ids.
	ErrInvalidMovieID = errors.New("invalid movie id")
	// ErrMovieNotFound is returned when a favorite references no movie.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrValidation is returned when request fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = model.ErrUserExists
	// ErrNotInFavorites is returned when removing a movie that is not a favorite.
	ErrNotInFavorites = errors.New("movie not in favorites")
	// ErrInvalidCredentials is returned when a login does not match a user.
	ErrInvalidCredentials = model.ErrInvalidCredentials
)

type userRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetMany(ctx context.Context, ids []string) ([]*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdateUsername(ctx context.Context, id, username string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	Delete(ctx context.Context, id string) error
	AddFavorite(ctx context.Context, userID, movieID string) error
	RemoveFavorite(ctx context.Context, userID, movieID string) error
	RemoveFavoriteEverywhere(ctx context.Context, movieID string) (int64, error)
	FavoriteMovieIDs(ctx context.Context) ([]string, error)
}

type movieGateway interface {
	Exists(ctx context.Context, id string) (bool, error)
	Resolve(ctx context.Context, ids []string) ([]model.FavoriteMovie, error)
}

// Controller defines a user service controller.
type Controller struct {
	repo   userRepository
	movies movieGateway
	logger *zap.Logger
	now    func() time.Time
}

// New creates a user service controller.
func New(repo userRepository, movies movieGateway, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "user"),
	)
	return &Controller{
		repo:   repo,
		movies: movies,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Register creates an account with a hashed password.
func (c *Controller) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	reg.Normalize()
	if err := validation.Struct(reg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	hash, err := password.Hash(reg.Password)
	if err != nil {
		return nil, err
	}
	now := c.now()
	u := &model.User{
		ID:           ident.New(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		Favorites:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	c.logger.Info("User registered", zap.String(logging.FieldUserID, u.ID))
	return u, nil
}

// Authenticate returns the user matching the credentials.
func (c *Controller) Authenticate(ctx context.Context, creds *model.Credentials) (*model.User, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := validation.Struct(creds); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	u, err := c.repo.GetByUsername(ctx, creds.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	if !password.Matches(creds.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the public projection of a user.
func (c *Controller) Get(ctx context.Context, id string) (*model.PublicUser, error) {
	u, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// GetMany returns the public projections of the users that exist among ids.
func (c *Controller) GetMany(ctx context.Context, ids []string) ([]model.PublicUser, error) {
	users, err := c.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return publics(users), nil
}

// List returns the public projections of all users.
func (c *Controller) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return publics(users), nil
}

// Profile returns the caller's account with favorites resolved.
func (c *Controller) Profile(ctx context.Context, callerID string) (*model.Profile, error) {
	u, err := c.get(ctx, callerID)
	if err != nil {
		return nil, err
	}
	favs, err := c.movies.Resolve(ctx, u.Favorites)
	if err != nil {
		return nil, err
	}
	return &model.Profile{PublicUser: u.Public(), FavoriteMovies: favs}, nil
}

// UpdateUsername renames the caller.
func (c *Controller) UpdateUsername(ctx context.Context, callerID string, req *model.UsernameUpdate) (*model.PublicUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	callerID, valid := ident.Parse(callerID)
	if !valid {
		return nil, ErrInvalidID
	}
	if err := c.repo.UpdateUsername(ctx, callerID, req.Username, c.now()); err != nil {
		return nil, translate(err)
	}
	return c.Get(ctx, callerID)
}

// UpdatePassword replaces the caller's password.
func (c *Controller) UpdatePassword(ctx context.Context, callerID string, req *model.PasswordUpdate) error {
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	callerID, valid := ident.Parse(callerID)
	if !valid {
		return ErrInvalidID
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	if err := c.repo.UpdatePassword(ctx, callerID, hash, c.now()); err != nil {
		return translate(err)
	}
	c.logger.Info("Password changed", zap.String(logging.FieldUserID, callerID))
	return nil
}

// Delete removes the caller's account.
func (c *Controller) Delete(ctx context.Context, callerID string) error {
	callerID, valid := ident.Parse(callerID)
	if !valid {
		return ErrInvalidID
	}
	if err := c.repo.Delete(ctx, callerID); err != nil {
		return translate(err)
	}
	c.logger.Info("User deleted", zap.String(logging.FieldUserID, callerID))
	return nil
}

// AddFavorite adds a movie to the target user's favorites. Only the target
// user may do so; adding a favorite twice is not an error.
func (c *Controller) AddFavorite(ctx context.Context, callerID, targetID, movieID string) ([]model.FavoriteMovie, error) {
	targetID = strings.ToLower(targetID)
	if err := authz.AssertSelfOrOwner(callerID, targetID); err != nil {
		return nil, err
	}
	movieID, valid := ident.Parse(movieID)
	if !valid {
		return nil, ErrInvalidMovieID
	}
	ok, err := c.movies.Exists(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMovieNotFound
	}
	if err := c.repo.AddFavorite(ctx, targetID, movieID); err != nil {
		return nil, translate(err)
	}
	return c.favorites(ctx, targetID)
}

// RemoveFavorite removes a movie from the target user's favorites.
func (c *Controller) RemoveFavorite(ctx context.Context, callerID, targetID, movieID string) ([]model.FavoriteMovie, error) {
	targetID = strings.ToLower(targetID)
	if err := authz.AssertSelfOrOwner(callerID, targetID); err != nil {
		return nil, err
	}
	movieID, valid := ident.Parse(movieID)
	if !valid {
		return nil, ErrInvalidMovieID
	}
	if err := c.repo.RemoveFavorite(ctx, targetID, movieID); err != nil {
		return nil, translate(err)
	}
	return c.favorites(ctx, targetID)
}

// ListFavorites returns the target user's favorites resolved to current
// movie data. Deleted movies are left out.
func (c *Controller) ListFavorites(ctx context.Context, callerID, targetID string) ([]model.FavoriteMovie, error) {
	targetID = strings.ToLower(targetID)
	if err := authz.AssertSelfOrOwner(callerID, targetID); err != nil {
		return nil, err
	}
	return c.favorites(ctx, targetID)
}

// ForgetMovie removes a deleted movie from every favorites set.
func (c *Controller) ForgetMovie(ctx context.Context, movieID string) (int64, error) {
	n, err := c.repo.RemoveFavoriteEverywhere(ctx, movieID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.logger.Info("Removed deleted movie from favorites", zap.String(logging.FieldMovieID, movieID), zap.Int64("users", n))
	}
	return n, nil
}

// PruneFavorites removes every favorite that references a movie which no
// longer exists and returns the number of favorites removed.
func (c *Controller) PruneFavorites(ctx context.Context) (int64, error) {
	ids, err := c.repo.FavoriteMovieIDs(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, id := range ids {
		ok, err := c.movies.Exists(ctx, id)
		if err != nil {
			return total, err
		}
		if ok {
			continue
		}
		n, err := c.ForgetMovie(ctx, id)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (c *Controller) favorites(ctx context.Context, userID string) ([]model.FavoriteMovie, error) {
	u, err := c.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.movies.Resolve(ctx, u.Favorites)
}

func (c *Controller) get(ctx context.Context, id string) (*model.User, error) {
	id, valid := ident.Parse(id)
	if !valid {
		return nil, ErrInvalidID
	}
	u, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func publics(users []*model.User) []model.PublicUser {
	res := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		res = append(res, u.Public())
	}
	return res
}

// translate maps repository errors to controller errors.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrUserExists
	case errors.Is(err, repository.ErrEntryNotFound):
		return ErrNotInFavorites
	default:
		return err
	}
}
