package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndMatch(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, Matches("s3cret-pass", hash))
	assert.False(t, Matches("wrong", hash))
	assert.False(t, Matches("s3cret-pass", "not-a-hash"))
}
