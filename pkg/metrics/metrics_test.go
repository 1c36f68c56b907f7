package metrics

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v6"
)

func TestErrorCounter(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	m := NewEndpointMetrics(scope, "AddRating")

	tests := []struct {
		status int
		want   tally.Counter
	}{
		{status: http.StatusBadRequest, want: m.InvalidArgumentErrors},
		{status: http.StatusUnauthorized, want: m.UnauthorizedErrors},
		{status: http.StatusForbidden, want: m.ForbiddenErrors},
		{status: http.StatusNotFound, want: m.NotFoundErrors},
		{status: http.StatusConflict, want: m.ConflictErrors},
		{status: http.StatusInternalServerError, want: m.InternalErrors},
		{status: http.StatusBadGateway, want: m.InternalErrors},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Same(t, tt.want, m.ErrorCounter(tt.status))
		})
	}
}

func TestEndpointSetCounts(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	set := NewEndpointSet(scope, "GetMovie", "AddRating")
	set["GetMovie"].Calls.Inc(1)
	set["GetMovie"].Calls.Inc(1)
	set["AddRating"].ErrorCounter(http.StatusConflict).Inc(1)

	var calls, conflicts int64
	for _, c := range scope.Snapshot().Counters() {
		switch {
		case c.Name() == "calls" && c.Tags()["endpoint"] == "GetMovie":
			calls = c.Value()
		case c.Name() == "error" && c.Tags()["error"] == "conflict":
			conflicts = c.Value()
		}
	}
	assert.Equal(t, int64(2), calls)
	assert.Equal(t, int64(1), conflicts)
}
