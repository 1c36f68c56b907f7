package processor

import (
	"context"
	"time"

	"cineview/pkg/logging"

	"go.uber.org/zap"
)

// LockKey is the lock guarding the favorites sweep across instances.
const LockKey = "locks/service/cineview/sweeper"

const sweepTimeout = 5 * time.Minute

// LockProvider defines a distributed lock provider.
type LockProvider interface {
	Acquire(ctx context.Context, key string) (bool, func() error, error)
}

type favoritesPruner interface {
	PruneFavorites(ctx context.Context) (int64, error)
}

// Processor periodically removes favorites that reference deleted movies.
// Only the instance holding the lock sweeps.
type Processor struct {
	logger       *zap.Logger
	lockProvider LockProvider
	pruner       favoritesPruner
	interval     time.Duration
}

// New creates a new favorites processor.
func New(logger *zap.Logger, lockProvider LockProvider, pruner favoritesPruner, interval time.Duration) *Processor {
	logger = logger.With(
		zap.String(logging.FieldComponent, "processor"),
		zap.String(logging.FieldType, "sweeper"),
	)
	return &Processor{
		logger:       logger,
		lockProvider: lockProvider,
		pruner:       pruner,
		interval:     interval,
	}
}

// Start runs a sweep every interval until ctx is done.
func (p *Processor) Start(ctx context.Context) error {
	p.logger.Info("Starting the favorites processor", zap.Duration("interval", p.interval))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep if the lock can be acquired.
func (p *Processor) RunOnce(ctx context.Context) {
	acquired, release, err := p.lockProvider.Acquire(ctx, LockKey)
	if err != nil {
		p.logger.Error("Unable to acquire lock", zap.Error(err))
		return
	}
	if !acquired {
		p.logger.Debug("Lock held by another instance, skipping sweep")
		return
	}
	defer func() {
		if err := release(); err != nil {
			p.logger.Error("Failed to release the lock", zap.Error(err))
		}
	}()
	if err := p.process(ctx); err != nil {
		p.logger.Error("Process error", zap.Error(err))
	}
}

func (p *Processor) process(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()
	n, err := p.pruner.PruneFavorites(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("Sweep completed", zap.Int64("removed", n))
	return nil
}
