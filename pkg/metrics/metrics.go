package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uber-go/tally/v6"
	"github.com/uber-go/tally/v6/prometheus"
	"go.uber.org/zap"
)

// NewMetricsReporter creates a root scope reported to Prometheus and serves
// it on /metrics at the given port. A zero port disables reporting and
// returns a no-op scope.
func NewMetricsReporter(logger *zap.Logger, serviceName string, metricsPort int) (scope tally.Scope, closer io.Closer) {
	if metricsPort == 0 {
		return tally.NoopScope, io.NopCloser(nil)
	}
	reporter := prometheus.NewReporter(prometheus.Options{})
	scope, closer = tally.NewRootScope(tally.ScopeOptions{
		Tags:            map[string]string{"service": serviceName},
		CachedReporter:  reporter,
		SanitizeOptions: &prometheus.DefaultSanitizerOpts,
	}, 10*time.Second)
	mux := http.NewServeMux()
	mux.Handle("/metrics", reporter.HTTPHandler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start metrics handler", zap.Error(err))
		}
	}()

	counter := scope.Counter("service_started")
	counter.Inc(1)
	return scope, closer
}

// EndpointMetrics defines an endpoint metrics.
type EndpointMetrics struct {
	Calls                 tally.Counter
	InvalidArgumentErrors tally.Counter
	UnauthorizedErrors    tally.Counter
	ForbiddenErrors       tally.Counter
	NotFoundErrors        tally.Counter
	ConflictErrors        tally.Counter
	InternalErrors        tally.Counter
	Successes             tally.Counter
}

// NewEndpointMetrics creates a new endpoint metrics.
func NewEndpointMetrics(scope tally.Scope, endpoint string) *EndpointMetrics {
	scope = scope.Tagged(map[string]string{
		"component": "handler",
		"endpoint":  endpoint,
	})
	errorCounter := func(kind string) tally.Counter {
		return scope.Tagged(map[string]string{"error": kind}).Counter("error")
	}
	return &EndpointMetrics{
		Calls:                 scope.Counter("calls"),
		InvalidArgumentErrors: errorCounter("invalid_argument"),
		UnauthorizedErrors:    errorCounter("unauthorized"),
		ForbiddenErrors:       errorCounter("forbidden"),
		NotFoundErrors:        errorCounter("not_found"),
		ConflictErrors:        errorCounter("conflict"),
		InternalErrors:        errorCounter("internal"),
		Successes:             scope.Counter("success"),
	}
}

// ErrorCounter returns the counter matching an HTTP error status.
func (m *EndpointMetrics) ErrorCounter(status int) tally.Counter {
	switch status {
	case http.StatusBadRequest:
		return m.InvalidArgumentErrors
	case http.StatusUnauthorized:
		return m.UnauthorizedErrors
	case http.StatusForbidden:
		return m.ForbiddenErrors
	case http.StatusNotFound:
		return m.NotFoundErrors
	case http.StatusConflict:
		return m.ConflictErrors
	default:
		return m.InternalErrors
	}
}

// EndpointSet holds metrics for a fixed list of endpoints.
type EndpointSet map[string]*EndpointMetrics

// NewEndpointSet creates metrics for every named endpoint.
func NewEndpointSet(scope tally.Scope, endpoints ...string) EndpointSet {
	set := make(EndpointSet, len(endpoints))
	for _, e := range endpoints {
		set[e] = NewEndpointMetrics(scope, e)
	}
	return set
}
