package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cineview/auth/pkg/identity"
	"cineview/auth/pkg/token"
	authservice "cineview/auth/service"
	"cineview/configs"
	"cineview/internal/mongodb"
	"cineview/internal/server"
	movieservice "cineview/movie/service"
	"cineview/pkg/discovery"
	"cineview/pkg/discovery/consul"
	"cineview/pkg/discovery/memory"
	"cineview/pkg/dns"
	"cineview/pkg/limiter"
	consullock "cineview/pkg/lock/consul"
	memorylock "cineview/pkg/lock/memory"
	"cineview/pkg/logging"
	"cineview/pkg/metrics"
	"cineview/pkg/tracing"
	usermodel "cineview/user/pkg/model"
	userservice "cineview/user/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	serviceName     = "cineview"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(serviceName, cfg.Logging.Development)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Service failed", zap.Error(err))
	}
}

func run(cfg *configs.ServiceConfig, log *zap.Logger) error {
	log.Info("Starting the service", zap.Int(logging.FieldPort, cfg.API.Port))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Jaeger.URL != "" {
		tp, err := tracing.NewJaegerProvider(cfg.Jaeger.URL, serviceName)
		if err != nil {
			return fmt.Errorf("failed to initialize jaeger provider: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("Failed to shutdown jaeger provider", zap.Error(err))
			}
		}()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}

	scope, closer := metrics.NewMetricsReporter(log, serviceName, cfg.Prometheus.MetricsPort)
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close Prometheus reporter scope", zap.Error(err))
		}
	}()

	var db *mongo.Database
	if dbCfg := cfg.DatabaseConfig; dbCfg.Movies == configs.StoreMongo || dbCfg.Users == configs.StoreMongo {
		client, err := mongodb.Connect(ctx, dbCfg.Mongo.URI)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("Failed to disconnect from mongo", zap.Error(err))
			}
		}()
		db = client.Database(mongodb.DatabaseName(dbCfg.Mongo.URI))
	}

	// The movie and user domains resolve references through each other.
	users := &lazyUsers{}
	movies, err := movieservice.New(ctx, cfg, db, users, scope, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := movies.Close(); err != nil {
			log.Warn("Failed to close movie service", zap.Error(err))
		}
	}()
	userSvc, err := userservice.New(ctx, cfg, db, movies, scope, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := userSvc.Close(); err != nil {
			log.Warn("Failed to close user service", zap.Error(err))
		}
	}()
	users.svc = userSvc

	tokens, err := token.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	authSvc := authservice.New(userSvc, tokens, scope, log)

	var registry discovery.Registry = memory.NewRegistry(log)
	var locks userservice.LockProvider = memorylock.New()
	if addr := cfg.ServiceDiscovery.Consul.Address; addr != "" {
		cr, err := consul.NewRegistry(addr, log)
		if err != nil {
			return err
		}
		registry = cr
		locks = consullock.New(cr.Client(), log)
	}
	hostname, _ := os.Hostname()
	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, dns.AdvertiseAddress(hostname, cfg.API.Port)); err != nil {
		return err
	}
	defer func() {
		if err := registry.Deregister(context.Background(), instanceID, serviceName); err != nil {
			log.Warn("Failed to deregister service", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(1 * time.Second):
				if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
					log.Warn("Failed to report healthy state", zap.Error(err))
				}
			}
		}
	}()
	if interval := cfg.Processor.SweepInterval; interval > 0 {
		p := userSvc.Sweeper(locks, interval)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Processor stopped", zap.Error(err))
			}
		}()
	}
	if addr := cfg.Kafka.Address; addr != "" {
		events, err := userSvc.SubscribeMovieEvents(ctx, addr, cfg.Kafka.GroupID, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			userSvc.ApplyMovieEvents(ctx, events)
		}()
	}

	var lim *limiter.Limiter
	if cfg.API.RateLimit > 0 {
		lim = limiter.New(log, cfg.API.RateLimit, cfg.API.RateBurst)
	}
	router := server.NewRouter(server.Options{
		CORSOrigins: splitOrigins(cfg.API.CORSOrigin),
		Limiter:     lim,
		Authn:       identity.Middleware(tokens, log),
	},
		movies,
		userSvc,
		authSvc.Routes(),
		log,
	)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case s := <-sigChan:
			log.Info("Got signal, attempting graceful shutdown", zap.Stringer(logging.FieldSignal, s))
		case <-ctx.Done():
		}
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shut down the HTTP server", zap.Error(err))
		}
		log.Info("Gracefully stopped the HTTP server")
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		return err
	}
	return nil
}

func splitOrigins(s string) []string {
	var res []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			res = append(res, o)
		}
	}
	return res
}

// lazyUsers lets the movie domain be built before the user domain.
type lazyUsers struct {
	svc *userservice.Service
}

func (l *lazyUsers) GetMany(ctx context.Context, ids []string) ([]usermodel.PublicUser, error) {
	return l.svc.GetMany(ctx, ids)
}
