package consul

import (
	"context"
	"time"

	"cineview/pkg/logging"

	consul "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// Provider defines a distributed lock provider backed by Consul sessions.
type Provider struct {
	client *consul.Client
	logger *zap.Logger
}

// New creates a new Consul lock provider.
func New(client *consul.Client, logger *zap.Logger) *Provider {
	logger = logger.With(
		zap.String(logging.FieldComponent, "lock"),
		zap.String(logging.FieldType, "consul"),
	)
	return &Provider{client: client, logger: logger}
}

// Acquire tries once to take the lock under key. It reports false with
// a no-op release when another holder owns the lock.
func (p *Provider) Acquire(ctx context.Context, key string) (bool, func() error, error) {
	lock, err := p.client.LockOpts(&consul.LockOptions{
		Key:          key,
		SessionTTL:   "30s",
		LockTryOnce:  true,
		LockWaitTime: time.Second,
	})
	if err != nil {
		return false, nil, err
	}
	lost, err := lock.Lock(ctx.Done())
	if err != nil {
		return false, nil, err
	}
	if lost == nil {
		p.logger.Debug("Lock is held elsewhere", zap.String("key", key))
		return false, func() error { return nil }, nil
	}
	return true, lock.Unlock, nil
}
