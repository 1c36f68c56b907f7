package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"cineview/pkg/lock/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingPruner struct {
	calls int
	err   error
}

func (p *countingPruner) PruneFavorites(context.Context) (int64, error) {
	p.calls++
	return 2, p.err
}

type failingLock struct{}

func (failingLock) Acquire(context.Context, string) (bool, func() error, error) {
	return false, nil, errors.New("consul unavailable")
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	locks := memory.New()
	pruner := &countingPruner{}
	p := New(zap.NewNop(), locks, pruner, time.Minute)

	p.RunOnce(ctx)
	assert.Equal(t, 1, pruner.calls)

	// The lock is released after a sweep.
	p.RunOnce(ctx)
	assert.Equal(t, 2, pruner.calls)

	// Another holder blocks the sweep.
	ok, release, err := locks.Acquire(ctx, LockKey)
	require.NoError(t, err)
	require.True(t, ok)
	p.RunOnce(ctx)
	assert.Equal(t, 2, pruner.calls)
	require.NoError(t, release())

	New(zap.NewNop(), failingLock{}, pruner, time.Minute).RunOnce(ctx)
	assert.Equal(t, 2, pruner.calls)
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pruner := &countingPruner{}
	p := New(zap.NewNop(), memory.New(), pruner, time.Hour)
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("processor did not stop")
	}
	assert.Equal(t, 0, pruner.calls)
}
