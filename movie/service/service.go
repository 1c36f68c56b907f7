// Package service assembles the movie domain from configuration: the movie
// store, the event publisher, the controller and its HTTP routes.
package service

import (
	"context"
	"fmt"
	"net/http"

	"cineview/configs"
	"cineview/movie/internal/controller/movie"
	"cineview/movie/internal/gateway/user/local"
	httphandler "cineview/movie/internal/handler/http"
	"cineview/movie/internal/publisher/kafka"
	"cineview/movie/internal/publisher/noop"
	"cineview/movie/internal/repository/memory"
	mongorepo "cineview/movie/internal/repository/mongo"
	"cineview/movie/pkg/model"
	usermodel "cineview/user/pkg/model"

	"github.com/uber-go/tally/v6"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserDirectory resolves user ids to public profiles.
type UserDirectory interface {
	GetMany(ctx context.Context, ids []string) ([]usermodel.PublicUser, error)
}

type publisher interface {
	Publish(ctx context.Context, ev *model.Event) error
}

// Service defines the movie domain of the process.
type Service struct {
	ctrl    *movie.Controller
	handler *httphandler.Handler
	close   func() error
}

// New builds the movie domain. db is required only when the movie store is
// mongo.
func New(ctx context.Context, cfg *configs.ServiceConfig, db *mongo.Database, users UserDirectory, scope tally.Scope, logger *zap.Logger) (*Service, error) {
	var pub publisher = noop.New()
	closePublisher := func() error { return nil }
	if addr := cfg.Kafka.Address; addr != "" {
		p, err := kafka.NewPublisher(addr, cfg.Kafka.Topic, logger)
		if err != nil {
			return nil, err
		}
		pub, closePublisher = p, p.Close
	}

	var ctrl *movie.Controller
	raters := local.New(users)
	switch cfg.DatabaseConfig.Movies {
	case configs.StoreMongo:
		r, err := mongorepo.New(ctx, db, logger)
		if err != nil {
			_ = closePublisher()
			return nil, fmt.Errorf("failed to open movie store: %w", err)
		}
		ctrl = movie.New(r, raters, pub, logger)
	default:
		ctrl = movie.New(memory.New(logger), raters, pub, logger)
	}
	return &Service{
		ctrl:    ctrl,
		handler: httphandler.New(ctrl, scope, logger),
		close:   closePublisher,
	}, nil
}

// Routes returns the /movies routes.
func (s *Service) Routes(authn func(http.Handler) http.Handler) http.Handler {
	return s.handler.Routes(authn)
}

// Exists reports whether a movie exists.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.ctrl.Exists(ctx, id)
}

// GetMany returns the movies that still exist among ids.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]*model.Movie, error) {
	return s.ctrl.GetMany(ctx, ids)
}

// Close flushes and closes the event publisher.
func (s *Service) Close() error {
	return s.close()
}
