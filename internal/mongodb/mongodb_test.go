package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "cineview", DatabaseName("mongodb://localhost:27017/cineview"))
	assert.Equal(t, "films", DatabaseName("mongodb://user:pass@db:27017/films?authSource=admin"))
	assert.Equal(t, DefaultDatabase, DatabaseName("mongodb://localhost:27017"))
	assert.Equal(t, DefaultDatabase, DatabaseName("::not a uri::"))
}
