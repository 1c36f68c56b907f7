package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cineview/internal/validation"
	"cineview/movie/internal/repository"
	"cineview/movie/pkg/model"
	"cineview/pkg/authz"
	"cineview/pkg/ident"
	"cineview/pkg/logging"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a movie is not found.
	ErrNotFound = errors.New("movie not found")
	// ErrInvalidID is returned for malformed movie or comment ids.
	ErrInvalidID = errors.New("invalid id")
	// ErrValidation is returned when request fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyRated is returned when a user rates the same movie twice.
	ErrAlreadyRated = errors.New("you have already rated this movie")
	// ErrRatingNotFound is returned when the caller has no rating on a movie.
	ErrRatingNotFound = errors.New("rating not found for this user")
	// ErrCommentNotFound is returned when a comment is not found.
	ErrCommentNotFound = errors.New("comment not found")
)

type movieRepository interface {
	Create(ctx context.Context, m *model.Movie) error
	List(ctx context.Context, search string) ([]*model.Movie, error)
	Get(ctx context.Context, id string) (*model.Movie, error)
	GetMany(ctx context.Context, ids []string) ([]*model.Movie, error)
	Update(ctx context.Context, id string, u *model.MovieUpdate, at time.Time) (*model.Movie, error)
	Delete(ctx context.Context, id string) error
	AddRating(ctx context.Context, movieID string, rating model.Rating) (*model.Movie, error)
	UpdateRating(ctx context.Context, movieID string, rating model.Rating) (*model.Movie, error)
	DeleteRating(ctx context.Context, movieID, userID string) (*model.Movie, error)
	AddComment(ctx context.Context, movieID string, c model.Comment) error
	UpdateComment(ctx context.Context, movieID string, c model.Comment) error
	DeleteComment(ctx context.Context, movieID, commentID, ownerID string) error
}

type userGateway interface {
	Raters(ctx context.Context, ids []string) (map[string]model.Rater, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, ev *model.Event) error
}

// Controller defines a movie service controller.
type Controller struct {
	repo      movieRepository
	users     userGateway
	publisher eventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a movie service controller.
func New(repo movieRepository, users userGateway, publisher eventPublisher, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "movie"),
	)
	return &Controller{
		repo:      repo,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Create adds a movie to the catalog.
func (c *Controller) Create(ctx context.Context, n *model.NewMovie) (*model.Movie, error) {
	n.Normalize()
	if err := validation.Struct(n); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	now := c.now()
	m := &model.Movie{
		ID:          ident.New(),
		Title:       n.Title,
		Description: n.Description,
		Genre:       n.Genre,
		ReleaseYear: n.ReleaseYear,
		Category:    n.Category,
		Ratings:     []model.Rating{},
		Comments:    []model.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	c.logger.Info("Movie created", zap.String(logging.FieldMovieID, m.ID))
	return m, nil
}

// List returns the movies whose title contains search, ignoring case.
func (c *Controller) List(ctx context.Context, search string) ([]*model.Movie, error) {
	return c.repo.List(ctx, strings.TrimSpace(search))
}

// Get returns a movie by id.
func (c *Controller) Get(ctx context.Context, id string) (*model.Movie, error) {
	id, valid := ident.Parse(id)
	if !valid {
		return nil, ErrInvalidID
	}
	m, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// Exists reports whether a movie with a well-formed id exists.
func (c *Controller) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// GetMany returns the movies that still exist among ids, in the order of ids.
func (c *Controller) GetMany(ctx context.Context, ids []string) ([]*model.Movie, error) {
	return c.repo.GetMany(ctx, ids)
}

// Update merges the supplied fields into a movie.
func (c *Controller) Update(ctx context.Context, id string, u *model.MovieUpdate) (*model.Movie, error) {
	id, valid := ident.Parse(id)
	if !valid {
		return nil, ErrInvalidID
	}
	u.Normalize()
	if u.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	m, err := c.repo.Update(ctx, id, u, c.now())
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// UpdatePoster replaces the poster reference of a movie.
func (c *Controller) UpdatePoster(ctx context.Context, id string, posterURL string) (*model.Movie, error) {
	id, valid := ident.Parse(id)
	if !valid {
		return nil, ErrInvalidID
	}
	posterURL = strings.TrimSpace(posterURL)
	if posterURL == "" {
		return nil, fmt.Errorf("%w: posterUrl is required", ErrValidation)
	}
	m, err := c.repo.Update(ctx, id, &model.MovieUpdate{PosterURL: &posterURL}, c.now())
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// Delete removes a movie together with its ratings and comments.
func (c *Controller) Delete(ctx context.Context, id string) error {
	id, valid := ident.Parse(id)
	if !valid {
		return ErrInvalidID
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	c.logger.Info("Movie deleted", zap.String(logging.FieldMovieID, id))
	c.publish(ctx, &model.Event{MovieID: id, EventType: model.EventTypeMovieDelete})
	return nil
}

// GetRatings returns the rating ledger of a movie with raters resolved to
// their public profiles. Raters that no longer exist resolve to nil.
func (c *Controller) GetRatings(ctx context.Context, movieID string) (*model.RatingsSummary, error) {
	m, err := c.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(m.Ratings))
	for _, r := range m.Ratings {
		ids = append(ids, r.UserID)
	}
	raters := map[string]model.Rater{}
	if len(ids) > 0 {
		if raters, err = c.users.Raters(ctx, ids); err != nil {
			return nil, err
		}
	}
	summary := &model.RatingsSummary{
		AverageRating: m.AverageRating,
		Count:         len(m.Ratings),
		Ratings:       make([]model.RatingView, 0, len(m.Ratings)),
	}
	for _, r := range m.Ratings {
		view := model.RatingView{Score: r.Score, CreatedAt: r.CreatedAt}
		if rater, ok := raters[r.UserID]; ok {
			view.User = &rater
		}
		summary.Ratings = append(summary.Ratings, view)
	}
	return summary, nil
}

// AddRating records the caller's rating of a movie. A user may rate a movie
// only once; later changes go through UpdateRating.
func (c *Controller) AddRating(ctx context.Context, movieID, callerID string, req *model.RatingRequest) (*model.Movie, error) {
	movieID, score, err := c.checkRating(movieID, callerID, req)
	if err != nil {
		return nil, err
	}
	m, err := c.repo.AddRating(ctx, movieID, model.Rating{UserID: callerID, Score: score, CreatedAt: c.now()})
	if err != nil {
		return nil, translate(err)
	}
	c.publish(ctx, &model.Event{MovieID: movieID, UserID: callerID, EventType: model.EventTypeRatingPut, Value: score, AverageRating: m.AverageRating})
	return m, nil
}

// UpdateRating replaces the score of the caller's existing rating.
func (c *Controller) UpdateRating(ctx context.Context, movieID, callerID string, req *model.RatingRequest) (*model.Movie, error) {
	movieID, score, err := c.checkRating(movieID, callerID, req)
	if err != nil {
		return nil, err
	}
	m, err := c.repo.UpdateRating(ctx, movieID, model.Rating{UserID: callerID, Score: score, CreatedAt: c.now()})
	if err != nil {
		return nil, translate(err)
	}
	c.publish(ctx, &model.Event{MovieID: movieID, UserID: callerID, EventType: model.EventTypeRatingUpdate, Value: score, AverageRating: m.AverageRating})
	return m, nil
}

// DeleteRating removes the caller's rating.
func (c *Controller) DeleteRating(ctx context.Context, movieID, callerID string) (*model.Movie, error) {
	if err := authz.AssertSelfOrOwner(callerID, callerID); err != nil {
		return nil, err
	}
	movieID, valid := ident.Parse(movieID)
	if !valid {
		return nil, ErrInvalidID
	}
	m, err := c.repo.DeleteRating(ctx, movieID, callerID)
	if err != nil {
		return nil, translate(err)
	}
	c.publish(ctx, &model.Event{MovieID: movieID, UserID: callerID, EventType: model.EventTypeRatingDelete, AverageRating: m.AverageRating})
	return m, nil
}

// checkRating authorizes and validates a rating request. It returns the
// canonical movie id and the requested score.
func (c *Controller) checkRating(movieID, callerID string, req *model.RatingRequest) (string, model.Score, error) {
	subject := req.UserID
	if subject == "" {
		subject = callerID
	}
	if err := authz.AssertSelfOrOwner(callerID, subject); err != nil {
		return "", 0, err
	}
	movieID, valid := ident.Parse(movieID)
	if !valid {
		return "", 0, ErrInvalidID
	}
	if err := validation.Struct(req); err != nil {
		return "", 0, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	score, ok := req.Score()
	if !ok || !score.Valid() {
		return "", 0, fmt.Errorf("%w: rating must be an integer between %d and %d", ErrValidation, model.MinScore, model.MaxScore)
	}
	return movieID, score, nil
}

// AddComment appends a comment by the caller. The caller's username is
// looked up in the user directory at write time and stored with the
// comment; tokenName is used only when the directory has no entry.
func (c *Controller) AddComment(ctx context.Context, movieID, callerID, tokenName string, req *model.CommentRequest) (*model.Comment, error) {
	if err := authz.AssertSelfOrOwner(callerID, callerID); err != nil {
		return nil, err
	}
	movieID, valid := ident.Parse(movieID)
	if !valid {
		return nil, ErrInvalidID
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	raters, err := c.users.Raters(ctx, []string{callerID})
	if err != nil {
		return nil, err
	}
	name := tokenName
	if rater, ok := raters[callerID]; ok && rater.Username != "" {
		name = rater.Username
	}
	comment := model.Comment{
		ID:        ident.New(),
		UserID:    callerID,
		Username:  name,
		Text:      req.Text,
		CreatedAt: c.now(),
	}
	if err := c.repo.AddComment(ctx, movieID, comment); err != nil {
		return nil, translate(err)
	}
	c.publish(ctx, &model.Event{MovieID: movieID, UserID: callerID, EventType: model.EventTypeCommentPut, CommentID: comment.ID})
	return &comment, nil
}

// ListComments returns the comment ledger of a movie.
func (c *Controller) ListComments(ctx context.Context, movieID string) ([]model.Comment, error) {
	m, err := c.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return m.Comments, nil
}

// UpdateComment replaces the text of a comment owned by the caller.
// Ownership is checked before the new text is validated.
func (c *Controller) UpdateComment(ctx context.Context, movieID, commentID, callerID string, req *model.CommentRequest) (*model.Comment, error) {
	movieID = strings.ToLower(movieID)
	existing, err := c.ownedComment(ctx, movieID, commentID, callerID)
	if err != nil {
		return nil, err
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	at := c.now()
	existing.Text = req.Text
	existing.UpdatedAt = &at
	if err := c.repo.UpdateComment(ctx, movieID, existing); err != nil {
		return nil, translateComment(err)
	}
	c.publish(ctx, &model.Event{MovieID: movieID, UserID: callerID, EventType: model.EventTypeCommentUpdate, CommentID: existing.ID})
	return &existing, nil
}

// DeleteComment removes a comment owned by the caller.
func (c *Controller) DeleteComment(ctx context.Context, movieID, commentID, callerID string) error {
	movieID = strings.ToLower(movieID)
	existing, err := c.ownedComment(ctx, movieID, commentID, callerID)
	if err != nil {
		return err
	}
	if err := c.repo.DeleteComment(ctx, movieID, existing.ID, callerID); err != nil {
		return translateComment(err)
	}
	c.publish(ctx, &model.Event{MovieID: movieID, UserID: callerID, EventType: model.EventTypeCommentDelete, CommentID: existing.ID})
	return nil
}

// ownedComment loads a comment and checks that the caller wrote it. The
// repository update repeats the owner check in its own filter.
func (c *Controller) ownedComment(ctx context.Context, movieID, commentID, callerID string) (model.Comment, error) {
	if callerID == "" {
		return model.Comment{}, authz.ErrForbidden
	}
	commentID, valid := ident.Parse(commentID)
	if !valid {
		return model.Comment{}, ErrInvalidID
	}
	m, err := c.Get(ctx, movieID)
	if err != nil {
		return model.Comment{}, err
	}
	existing, ok := m.CommentByID(commentID)
	if !ok {
		return model.Comment{}, ErrCommentNotFound
	}
	if err := authz.AssertSelfOrOwner(callerID, existing.UserID); err != nil {
		return model.Comment{}, err
	}
	return existing, nil
}

func (c *Controller) publish(ctx context.Context, ev *model.Event) {
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.logger.Warn("Failed to publish event", zap.Stringer("event", ev), zap.Error(err))
	}
}

// translate maps repository errors to controller errors.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrAlreadyRated
	case errors.Is(err, repository.ErrEntryNotFound):
		return ErrRatingNotFound
	default:
		return err
	}
}

func translateComment(err error) error {
	if errors.Is(err, repository.ErrEntryNotFound) {
		return ErrCommentNotFound
	}
	return translate(err)
}
