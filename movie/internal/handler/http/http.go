package http

import (
	"errors"
	"net/http"

	"cineview/auth/pkg/identity"
	"cineview/internal/httputil"
	"cineview/movie/internal/controller/movie"
	"cineview/movie/pkg/model"
	"cineview/pkg/authz"
	"cineview/pkg/logging"
	"cineview/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

const (
	endpointCreate        = "CreateMovie"
	endpointList          = "ListMovies"
	endpointGet           = "GetMovie"
	endpointUpdate        = "UpdateMovie"
	endpointUpdatePoster  = "UpdatePoster"
	endpointDelete        = "DeleteMovie"
	endpointGetRatings    = "GetRatings"
	endpointAddRating     = "AddRating"
	endpointUpdateRating  = "UpdateRating"
	endpointDeleteRating  = "DeleteRating"
	endpointAddComment    = "AddComment"
	endpointListComments  = "ListComments"
	endpointUpdateComment = "UpdateComment"
	endpointDeleteComment = "DeleteComment"
)

// Handler defines a movie HTTP handler.
type Handler struct {
	ctrl    *movie.Controller
	metrics metrics.EndpointSet
	logger  *zap.Logger
}

// New creates a new movie HTTP handler.
func New(ctrl *movie.Controller, scope tally.Scope, logger *zap.Logger) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "http"),
	)
	return &Handler{
		ctrl: ctrl,
		metrics: metrics.NewEndpointSet(scope,
			endpointCreate, endpointList, endpointGet, endpointUpdate, endpointUpdatePoster, endpointDelete,
			endpointGetRatings, endpointAddRating, endpointUpdateRating, endpointDeleteRating,
			endpointAddComment, endpointListComments, endpointUpdateComment, endpointDeleteComment,
		),
		logger: logger,
	}
}

// Routes returns the /movies routes. authn guards the routes that need a
// caller identity.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Put("/poster", h.UpdatePoster)
		r.Get("/ratings", h.GetRatings)
		r.Get("/comments", h.ListComments)
		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/ratings", h.AddRating)
			r.Put("/ratings", h.UpdateRating)
			r.Delete("/ratings", h.DeleteRating)
			r.Post("/comments", h.AddComment)
			r.Put("/comments/{commentId}", h.UpdateComment)
			r.Delete("/comments/{commentId}", h.DeleteComment)
		})
	})
	return r
}

// Create handles POST /movies requests.
func (h *Handler) Create(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointCreate)
	var n model.NewMovie
	if err := httputil.DecodeJSON(w, req, &n); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	mv, err := h.ctrl.Create(req.Context(), &n)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusCreated, map[string]any{"message": "Movie added successfully", "movie": mv})
}

// List handles GET /movies requests.
func (h *Handler) List(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointList)
	movies, err := h.ctrl.List(req.Context(), req.URL.Query().Get("search"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, movies)
}

// Get handles GET /movies/{id} requests.
func (h *Handler) Get(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointGet)
	mv, err := h.ctrl.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, mv)
}

// Update handles PUT /movies/{id} requests.
func (h *Handler) Update(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointUpdate)
	var u model.MovieUpdate
	if err := httputil.DecodeJSON(w, req, &u); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	mv, err := h.ctrl.Update(req.Context(), chi.URLParam(req, "id"), &u)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, map[string]any{"message": "Movie updated successfully", "movie": mv})
}

// UpdatePoster handles PUT /movies/{id}/poster requests.
func (h *Handler) UpdatePoster(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointUpdatePoster)
	var p model.PosterRequest
	if err := httputil.DecodeJSON(w, req, &p); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	mv, err := h.ctrl.UpdatePoster(req.Context(), chi.URLParam(req, "id"), p.PosterURL)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, map[string]any{"message": "Movie updated successfully", "movie": mv})
}

// Delete handles DELETE /movies/{id} requests.
func (h *Handler) Delete(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointDelete)
	if err := h.ctrl.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, httputil.MessageBody{Message: "Movie deleted successfully"})
}

// GetRatings handles GET /movies/{id}/ratings requests.
func (h *Handler) GetRatings(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointGetRatings)
	summary, err := h.ctrl.GetRatings(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, summary)
}

// AddRating handles POST /movies/{id}/ratings requests.
func (h *Handler) AddRating(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointAddRating)
	var r model.RatingRequest
	if err := httputil.DecodeJSON(w, req, &r); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	mv, err := h.ctrl.AddRating(req.Context(), chi.URLParam(req, "id"), callerID(req), &r)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusCreated, ratingResponse{Message: "Rating added successfully", AverageRating: mv.AverageRating})
}

// UpdateRating handles PUT /movies/{id}/ratings requests.
func (h *Handler) UpdateRating(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointUpdateRating)
	var r model.RatingRequest
	if err := httputil.DecodeJSON(w, req, &r); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	mv, err := h.ctrl.UpdateRating(req.Context(), chi.URLParam(req, "id"), callerID(req), &r)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, ratingResponse{Message: "Rating updated successfully", AverageRating: mv.AverageRating})
}

// DeleteRating handles DELETE /movies/{id}/ratings requests.
func (h *Handler) DeleteRating(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointDeleteRating)
	mv, err := h.ctrl.DeleteRating(req.Context(), chi.URLParam(req, "id"), callerID(req))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, ratingResponse{Message: "Rating deleted successfully", AverageRating: mv.AverageRating})
}

// AddComment handles POST /movies/{id}/comments requests.
func (h *Handler) AddComment(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointAddComment)
	var c model.CommentRequest
	if err := httputil.DecodeJSON(w, req, &c); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	id, _ := identity.FromContext(req.Context())
	comment, err := h.ctrl.AddComment(req.Context(), chi.URLParam(req, "id"), id.UserID, id.Username, &c)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusCreated, map[string]any{"message": "Comment added successfully", "comment": comment})
}

// ListComments handles GET /movies/{id}/comments requests.
func (h *Handler) ListComments(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointListComments)
	comments, err := h.ctrl.ListComments(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, comments)
}

// UpdateComment handles PUT /movies/{id}/comments/{commentId} requests.
func (h *Handler) UpdateComment(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointUpdateComment)
	var c model.CommentRequest
	if err := httputil.DecodeJSON(w, req, &c); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	comment, err := h.ctrl.UpdateComment(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "commentId"), callerID(req), &c)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, map[string]any{"message": "Comment updated successfully", "comment": comment})
}

// DeleteComment handles DELETE /movies/{id}/comments/{commentId} requests.
func (h *Handler) DeleteComment(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointDeleteComment)
	if err := h.ctrl.DeleteComment(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "commentId"), callerID(req)); err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, httputil.MessageBody{Message: "Comment deleted successfully"})
}

type ratingResponse struct {
	Message       string  `json:"message"`
	AverageRating float64 `json:"averageRating"`
}

func callerID(req *http.Request) string {
	id, _ := identity.FromContext(req.Context())
	return id.UserID
}

func (h *Handler) begin(endpoint string) *metrics.EndpointMetrics {
	m := h.metrics[endpoint]
	m.Calls.Inc(1)
	return m
}

func (h *Handler) ok(w http.ResponseWriter, m *metrics.EndpointMetrics, status int, v any) {
	m.Successes.Inc(1)
	httputil.WriteJSON(w, h.logger, status, v)
}

func (h *Handler) fail(w http.ResponseWriter, m *metrics.EndpointMetrics, status int, msg string) {
	m.ErrorCounter(status).Inc(1)
	httputil.WriteError(w, h.logger, status, msg)
}

func (h *Handler) handleError(w http.ResponseWriter, m *metrics.EndpointMetrics, err error) {
	switch {
	case errors.Is(err, movie.ErrInvalidID):
		h.fail(w, m, http.StatusBadRequest, "Invalid ID")
	case errors.Is(err, movie.ErrValidation):
		h.fail(w, m, http.StatusBadRequest, httputil.CauseMessage(err, movie.ErrValidation))
	case errors.Is(err, authz.ErrForbidden):
		h.fail(w, m, http.StatusForbidden, "You are not allowed to modify this resource")
	case errors.Is(err, movie.ErrNotFound):
		h.fail(w, m, http.StatusNotFound, "Movie not found")
	case errors.Is(err, movie.ErrRatingNotFound):
		h.fail(w, m, http.StatusNotFound, "Rating not found for this user")
	case errors.Is(err, movie.ErrCommentNotFound):
		h.fail(w, m, http.StatusNotFound, "Comment not found")
	case errors.Is(err, movie.ErrAlreadyRated):
		h.fail(w, m, http.StatusConflict, "You have already rated this movie")
	default:
		h.logger.Error("Request failed", zap.Error(err))
		h.fail(w, m, http.StatusInternalServerError, httputil.ServerErrorMessage)
	}
}
