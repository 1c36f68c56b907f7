package memory

import (
	"context"
	"testing"

	"cineview/pkg/discovery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(zap.NewNop())

	_, err := r.ServiceAddresses(ctx, "cineview")
	assert.ErrorIs(t, err, discovery.ErrNotFound)

	id := discovery.GenerateInstanceID("cineview")
	require.NoError(t, r.Register(ctx, id, "cineview", "10.0.0.1:3000"))
	require.NoError(t, r.ReportHealthyState(id, "cineview"))

	addrs, err := r.ServiceAddresses(ctx, "cineview")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1:3000"}, addrs)

	assert.Error(t, r.ReportHealthyState("unknown", "cineview"))
	assert.Error(t, r.ReportHealthyState(id, "other"))

	require.NoError(t, r.Deregister(ctx, id, "cineview"))
	_, err = r.ServiceAddresses(ctx, "cineview")
	assert.ErrorIs(t, err, discovery.ErrNotFound)
}
