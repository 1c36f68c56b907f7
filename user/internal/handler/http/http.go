package http

import (
	"errors"
	"net/http"

	"cineview/auth/pkg/identity"
	"cineview/internal/httputil"
	"cineview/pkg/authz"
	"cineview/pkg/logging"
	"cineview/pkg/metrics"
	"cineview/user/internal/controller/user"
	"cineview/user/pkg/model"

	"github.com/go-chi/chi/v5"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

const (
	endpointList           = "ListUsers"
	endpointGet            = "GetUser"
	endpointProfile        = "GetProfile"
	endpointUpdateUsername = "UpdateUsername"
	endpointUpdatePassword = "UpdatePassword"
	endpointDeleteAccount  = "DeleteAccount"
	endpointListFavorites  = "ListFavorites"
	endpointAddFavorite    = "AddFavorite"
	endpointRemoveFavorite = "RemoveFavorite"
)

// Handler defines a user HTTP handler.
type Handler struct {
	ctrl    *user.Controller
	metrics metrics.EndpointSet
	logger  *zap.Logger
}

// New creates a new user HTTP handler.
func New(ctrl *user.Controller, scope tally.Scope, logger *zap.Logger) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "http"),
	)
	return &Handler{
		ctrl: ctrl,
		metrics: metrics.NewEndpointSet(scope,
			endpointList, endpointGet, endpointProfile, endpointUpdateUsername, endpointUpdatePassword,
			endpointDeleteAccount, endpointListFavorites, endpointAddFavorite, endpointRemoveFavorite,
		),
		logger: logger,
	}
}

// Routes returns the /users routes. Static segments take precedence over
// /{id}, so /users/all and /users/profile never reach the id routes.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/all", h.List)
	r.Get("/{id}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/profile", h.Profile)
		r.Put("/profile/username", h.UpdateUsername)
		r.Put("/profile/password", h.UpdatePassword)
		r.Delete("/profile", h.DeleteAccount)
		r.Get("/{id}/favorites", h.ListFavorites)
		r.Post("/{id}/favorites", h.AddFavorite)
		r.Delete("/{id}/favorites/{movieId}", h.RemoveFavorite)
	})
	return r
}

// List handles GET /users/all requests.
func (h *Handler) List(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointList)
	users, err := h.ctrl.List(req.Context())
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, users)
}

// Get handles GET /users/{id} requests.
func (h *Handler) Get(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointGet)
	u, err := h.ctrl.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, u)
}

// Profile handles GET /users/profile requests.
func (h *Handler) Profile(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointProfile)
	p, err := h.ctrl.Profile(req.Context(), callerID(req))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, p)
}

// UpdateUsername handles PUT /users/profile/username requests.
func (h *Handler) UpdateUsername(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointUpdateUsername)
	var body model.UsernameUpdate
	if err := httputil.DecodeJSON(w, req, &body); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.ctrl.UpdateUsername(req.Context(), callerID(req), &body)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, map[string]any{"message": "Username updated successfully", "user": u})
}

// UpdatePassword handles PUT /users/profile/password requests.
func (h *Handler) UpdatePassword(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointUpdatePassword)
	var body model.PasswordUpdate
	if err := httputil.DecodeJSON(w, req, &body); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ctrl.UpdatePassword(req.Context(), callerID(req), &body); err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, httputil.MessageBody{Message: "Password updated successfully"})
}

// DeleteAccount handles DELETE /users/profile requests.
func (h *Handler) DeleteAccount(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointDeleteAccount)
	if err := h.ctrl.Delete(req.Context(), callerID(req)); err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, httputil.MessageBody{Message: "Account deleted successfully"})
}

// ListFavorites handles GET /users/{id}/favorites requests.
func (h *Handler) ListFavorites(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointListFavorites)
	favs, err := h.ctrl.ListFavorites(req.Context(), callerID(req), chi.URLParam(req, "id"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, favoritesResponse{Success: true, Message: "Favorite movies fetched successfully", Data: favs})
}

// AddFavorite handles POST /users/{id}/favorites requests.
func (h *Handler) AddFavorite(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointAddFavorite)
	var body model.FavoriteRequest
	if err := httputil.DecodeJSON(w, req, &body); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	favs, err := h.ctrl.AddFavorite(req.Context(), callerID(req), chi.URLParam(req, "id"), body.MovieID)
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, favoritesResponse{Success: true, Message: "Favorite movie added successfully", Data: favs})
}

// RemoveFavorite handles DELETE /users/{id}/favorites/{movieId} requests.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, req *http.Request) {
	m := h.begin(endpointRemoveFavorite)
	favs, err := h.ctrl.RemoveFavorite(req.Context(), callerID(req), chi.URLParam(req, "id"), chi.URLParam(req, "movieId"))
	if err != nil {
		h.handleError(w, m, err)
		return
	}
	h.ok(w, m, http.StatusOK, favoritesResponse{Success: true, Message: "Favorite movie removed successfully", Data: favs})
}

type favoritesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    []model.FavoriteMovie `json:"data"`
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
	case errors.Is(err, authz.ErrForbidden):
		h.fail(w, m, http.StatusForbidden, "You can only modify your own favorites")
	case errors.Is(err, user.ErrInvalidID):
		h.fail(w, m, http.StatusBadRequest, "Invalid user ID")
	case errors.Is(err, user.ErrInvalidMovieID):
		h.fail(w, m, http.StatusBadRequest, "Invalid movie ID")
	case errors.Is(err, user.ErrValidation):
		h.fail(w, m, http.StatusBadRequest, httputil.CauseMessage(err, user.ErrValidation))
	case errors.Is(err, user.ErrNotFound):
		h.fail(w, m, http.StatusNotFound, "User not found")
	case errors.Is(err, user.ErrMovieNotFound):
		h.fail(w, m, http.StatusNotFound, "Movie not found")
	case errors.Is(err, user.ErrNotInFavorites):
		h.fail(w, m, http.StatusNotFound, "Movie not in favorites")
	case errors.Is(err, user.ErrUserExists):
		h.fail(w, m, http.StatusConflict, "Username already exists")
	default:
		h.logger.Error("Request failed", zap.Error(err))
		h.fail(w, m, http.StatusInternalServerError, httputil.ServerErrorMessage)
	}
}
