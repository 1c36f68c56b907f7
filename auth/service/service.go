// Package service assembles the auth domain: registration and login on top
// of the user directory, and the token issuer.
package service

import (
	"context"
	"net/http"

	"cineview/auth/internal/controller/auth"
	"cineview/auth/internal/gateway/user/local"
	httphandler "cineview/auth/internal/handler/http"
	"cineview/auth/pkg/token"
	"cineview/user/pkg/model"

	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

// UserAccounts creates and authenticates accounts.
type UserAccounts interface {
	Register(ctx context.Context, reg *model.Registration) (*model.User, error)
	Authenticate(ctx context.Context, creds *model.Credentials) (*model.User, error)
}

// Service defines the auth domain of the process.
type Service struct {
	handler *httphandler.Handler
}

// New builds the auth domain.
func New(users UserAccounts, tokens *token.Manager, scope tally.Scope, logger *zap.Logger) *Service {
	ctrl := auth.New(local.New(users), tokens, logger)
	return &Service{handler: httphandler.New(ctrl, scope, logger)}
}

// Routes returns the /auth routes.
func (s *Service) Routes() http.Handler {
	return s.handler.Routes()
}
