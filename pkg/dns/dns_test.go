package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvertiseAddress(t *testing.T) {
	assert.Equal(t, "127.0.0.1:3000", AdvertiseAddress("127.0.0.1", 3000))
	assert.Equal(t, "no-such-host.invalid:8080", AdvertiseAddress("no-such-host.invalid", 8080))
}
