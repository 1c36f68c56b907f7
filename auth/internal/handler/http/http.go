package http

import (
	"errors"
	"net/http"

	"cineview/auth/internal/controller/auth"
	"cineview/internal/httputil"
	"cineview/pkg/logging"
	"cineview/pkg/metrics"
	"cineview/user/pkg/model"

	"github.com/go-chi/chi/v5"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

const (
	endpointRegister = "Register"
	endpointLogin    = "Login"
)

// Handler defines an auth HTTP handler.
type Handler struct {
	ctrl    *auth.Controller
	metrics metrics.EndpointSet
	logger  *zap.Logger
}

// New creates a new auth HTTP handler.
func New(ctrl *auth.Controller, scope tally.Scope, logger *zap.Logger) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "http"),
	)
	return &Handler{
		ctrl:    ctrl,
		metrics: metrics.NewEndpointSet(scope, endpointRegister, endpointLogin),
		logger:  logger,
	}
}

// Routes returns the /auth routes.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

// Register handles POST /auth/register requests.
func (h *Handler) Register(w http.ResponseWriter, req *http.Request) {
	m := h.metrics[endpointRegister]
	m.Calls.Inc(1)
	var reg model.Registration
	if err := httputil.DecodeJSON(w, req, &reg); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.ctrl.Register(req.Context(), &reg)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrValidation):
		h.fail(w, m, http.StatusBadRequest, httputil.CauseMessage(err, auth.ErrValidation))
		return
	case errors.Is(err, auth.ErrUserExists):
		h.fail(w, m, http.StatusConflict, "Username or email already exists")
		return
	default:
		h.logger.Error("Failed to register user", zap.Error(err))
		h.fail(w, m, http.StatusInternalServerError, httputil.ServerErrorMessage)
		return
	}
	m.Successes.Inc(1)
	httputil.WriteJSON(w, h.logger, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    u,
	})
}

// Login handles POST /auth/login requests.
func (h *Handler) Login(w http.ResponseWriter, req *http.Request) {
	m := h.metrics[endpointLogin]
	m.Calls.Inc(1)
	var creds model.Credentials
	if err := httputil.DecodeJSON(w, req, &creds); err != nil {
		h.fail(w, m, http.StatusBadRequest, err.Error())
		return
	}
	session, err := h.ctrl.Login(req.Context(), &creds)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrValidation):
		h.fail(w, m, http.StatusBadRequest, httputil.CauseMessage(err, auth.ErrValidation))
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.fail(w, m, http.StatusUnauthorized, "Invalid username or password")
		return
	default:
		h.logger.Error("Failed to log in", zap.Error(err))
		h.fail(w, m, http.StatusInternalServerError, httputil.ServerErrorMessage)
		return
	}
	m.Successes.Inc(1)
	httputil.WriteJSON(w, h.logger, http.StatusOK, session)
}

func (h *Handler) fail(w http.ResponseWriter, m *metrics.EndpointMetrics, status int, msg string) {
	m.ErrorCounter(status).Inc(1)
	httputil.WriteError(w, h.logger, status, msg)
}
