package ingester

import (
	"context"
	"testing"

	moviemodel "cineview/movie/pkg/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingForgetter struct {
	forgotten []string
}

func (r *recordingForgetter) ForgetMovie(_ context.Context, movieID string) (int64, error) {
	r.forgotten = append(r.forgotten, movieID)
	return 1, nil
}

func TestApply(t *testing.T) {
	events := make(chan moviemodel.Event, 3)
	events <- moviemodel.Event{MovieID: "m1", EventType: moviemodel.EventTypeRatingPut, Value: 4}
	events <- moviemodel.Event{MovieID: "m2", EventType: moviemodel.EventTypeMovieDelete}
	events <- moviemodel.Event{MovieID: "m3", EventType: moviemodel.EventTypeCommentDelete}
	close(events)

	f := &recordingForgetter{}
	Apply(context.Background(), events, f, zap.NewNop())
	assert.Equal(t, []string{"m2"}, f.forgotten)
}
