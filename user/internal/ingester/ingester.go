// Package ingester applies movie events to the user directory.
package ingester

import (
	"context"

	moviemodel "cineview/movie/pkg/model"
	"cineview/pkg/logging"

	"go.uber.org/zap"
)

type movieForgetter interface {
	ForgetMovie(ctx context.Context, movieID string) (int64, error)
}

// Apply consumes events until the channel is closed. Deleted movies are
// removed from every favorites set; other events are ignored.
func Apply(ctx context.Context, events <-chan moviemodel.Event, users movieForgetter, logger *zap.Logger) {
	logger = logger.With(zap.String(logging.FieldComponent, "ingester"))
	for ev := range events {
		if ev.EventType != moviemodel.EventTypeMovieDelete {
			continue
		}
		if _, err := users.ForgetMovie(ctx, ev.MovieID); err != nil {
			logger.Warn("Failed to apply movie deletion", zap.String(logging.FieldMovieID, ev.MovieID), zap.Error(err))
		}
	}
}
