package consul

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"cineview/pkg/discovery"
	"cineview/pkg/logging"

	consul "github.com/hashicorp/consul/api"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerId = "discovery-consul"

// Registry defines a Consul-based service registry.
type Registry struct {
	client *consul.Client
	logger *zap.Logger
}

// NewRegistry creates a new Consul-based service registry instance.
func NewRegistry(addr string, logger *zap.Logger) (*Registry, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "discovery"),
		zap.String(logging.FieldType, "consul"),
	)
	config := consul.DefaultConfig()
	config.Address = addr
	client, err := consul.NewClient(config)
	if err != nil {
		return nil, err
	}
	return &Registry{client: client, logger: logger}, nil
}

// Client returns the underlying Consul client.
func (r *Registry) Client() *consul.Client {
	return r.client
}

// Register creates a service record in the registry.
func (r *Registry) Register(ctx context.Context, instanceId string, serviceName string, hostPort string) error {
	_, span := otel.Tracer(tracerId).Start(ctx, "Register")
	defer span.End()
	host, p, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("hostPort must be in a form of <host>:<port>, example: localhost:8500: %w", err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return err
	}
	r.logger.Info("Registering service instance",
		zap.String("instance", instanceId),
		zap.String("address", hostPort),
	)
	return r.client.Agent().ServiceRegister(&consul.AgentServiceRegistration{
		Address: host,
		ID:      instanceId,
		Name:    serviceName,
		Port:    port,
		Check: &consul.AgentServiceCheck{
			CheckID:                        instanceId,
			TTL:                            "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	})
}

// Deregister removes a service record from the registry.
func (r *Registry) Deregister(ctx context.Context, instanceId string, _ string) error {
	_, span := otel.Tracer(tracerId).Start(ctx, "Deregister")
	defer span.End()
	return r.client.Agent().ServiceDeregister(instanceId)
}

// ServiceAddresses returns the list of addresses of active instance of the given service.
func (r *Registry) ServiceAddresses(ctx context.Context, serviceName string) ([]string, error) {
	_, span := otel.Tracer(tracerId).Start(ctx, "ServiceAddresses")
	defer span.End()
	entries, _, err := r.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return nil, err
	} else if len(entries) == 0 {
		return nil, discovery.ErrNotFound
	}
	var res []string
	for _, e := range entries {
		res = append(res, net.JoinHostPort(e.Service.Address, strconv.Itoa(e.Service.Port)))
	}
	return res, nil
}

// ReportHealthyState is a push mechanism for reporting healthy state to the registry.
func (r *Registry) ReportHealthyState(instanceID string, _ string) error {
	_, span := otel.Tracer(tracerId).Start(context.Background(), "ReportHealthyState")
	defer span.End()
	return r.client.Agent().PassTTL(instanceID, "")
}
