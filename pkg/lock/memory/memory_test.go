package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire(t *testing.T) {
	ctx := context.Background()
	p := New()

	ok, release, err := p.Acquire(ctx, "locks/a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok2, release2, err := p.Acquire(ctx, "locks/a")
	require.NoError(t, err)
	assert.False(t, ok2)
	assert.NoError(t, release2())

	ok3, _, err := p.Acquire(ctx, "locks/b")
	require.NoError(t, err)
	assert.True(t, ok3)

	require.NoError(t, release())
	ok, _, err = p.Acquire(ctx, "locks/a")
	require.NoError(t, err)
	assert.True(t, ok)
}
