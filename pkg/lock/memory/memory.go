package memory

import (
	"context"
	"sync"
)

// Provider defines an in-process lock provider for single-instance deployments.
type Provider struct {
	mu   sync.Mutex
	held map[string]bool
}

// New creates a new in-process lock provider.
func New() *Provider {
	return &Provider{held: map[string]bool{}}
}

// Acquire takes the lock under key if nobody holds it.
func (p *Provider) Acquire(_ context.Context, key string) (bool, func() error, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held[key] {
		return false, func() error { return nil }, nil
	}
	p.held[key] = true
	return true, func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.held, key)
		return nil
	}, nil
}
