// Package service assembles the user domain from configuration: the user
// store, the controller, its HTTP routes and the background workers that
// keep favorites consistent with the movie catalog.
package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cineview/configs"
	moviemodel "cineview/movie/pkg/model"
	"cineview/user/internal/controller/user"
	"cineview/user/internal/gateway/movie/local"
	httphandler "cineview/user/internal/handler/http"
	"cineview/user/internal/ingester"
	"cineview/user/internal/ingester/kafka"
	"cineview/user/internal/processor"
	"cineview/user/internal/repository/memory"
	mongorepo "cineview/user/internal/repository/mongo"
	"cineview/user/internal/repository/mysql"
	"cineview/user/pkg/model"

	"github.com/uber-go/tally/v6"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MovieCatalog checks and resolves movie references.
type MovieCatalog interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetMany(ctx context.Context, ids []string) ([]*moviemodel.Movie, error)
}

// LockProvider defines a distributed lock provider.
type LockProvider interface {
	Acquire(ctx context.Context, key string) (bool, func() error, error)
}

// Service defines the user domain of the process.
type Service struct {
	ctrl    *user.Controller
	handler *httphandler.Handler
	logger  *zap.Logger
	close   func() error
}

// New builds the user domain. db is required only when the user store is
// mongo.
func New(ctx context.Context, cfg *configs.ServiceConfig, db *mongo.Database, movies MovieCatalog, scope tally.Scope, logger *zap.Logger) (*Service, error) {
	favorites := local.New(movies)
	closeStore := func() error { return nil }
	var ctrl *user.Controller
	switch cfg.DatabaseConfig.Users {
	case configs.StoreMongo:
		repo, err := mongorepo.New(ctx, db, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open user store: %w", err)
		}
		ctrl = user.New(repo, favorites, logger)
	case configs.StoreMysql:
		repo, err := mysql.New(ctx, cfg.DatabaseConfig.Mysql, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open user store: %w", err)
		}
		ctrl = user.New(repo, favorites, logger)
		closeStore = repo.Close
	default:
		ctrl = user.New(memory.New(logger), favorites, logger)
	}
	return &Service{
		ctrl:    ctrl,
		handler: httphandler.New(ctrl, scope, logger),
		logger:  logger,
		close:   closeStore,
	}, nil
}

// Routes returns the /users routes.
func (s *Service) Routes(authn func(http.Handler) http.Handler) http.Handler {
	return s.handler.Routes(authn)
}

// GetMany returns the public profiles of the users that exist among ids.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]model.PublicUser, error) {
	return s.ctrl.GetMany(ctx, ids)
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	return s.ctrl.Register(ctx, reg)
}

// Authenticate returns the user matching the credentials.
func (s *Service) Authenticate(ctx context.Context, creds *model.Credentials) (*model.User, error) {
	return s.ctrl.Authenticate(ctx, creds)
}

// Sweeper returns a processor that prunes dangling favorites every interval
// while holding the sweeper lock.
func (s *Service) Sweeper(locks LockProvider, interval time.Duration) *processor.Processor {
	return processor.New(s.logger, locks, s.ctrl, interval)
}

// SubscribeMovieEvents starts consuming movie events from Kafka.
func (s *Service) SubscribeMovieEvents(ctx context.Context, addr, groupID, topic string) (<-chan moviemodel.Event, error) {
	in, err := kafka.NewIngester(addr, groupID, topic, s.logger)
	if err != nil {
		return nil, err
	}
	return in.Ingest(ctx)
}

// ApplyMovieEvents applies movie events until the channel is closed.
func (s *Service) ApplyMovieEvents(ctx context.Context, events <-chan moviemodel.Event) {
	ingester.Apply(ctx, events, s.ctrl, s.logger)
}

// Close releases the user store.
func (s *Service) Close() error {
	return s.close()
}
