package model

import "fmt"

// EventType defines the type of a movie change event.
type EventType string

// Movie event types.
const (
	EventTypeRatingPut     = EventType("rating.put")
	EventTypeRatingUpdate  = EventType("rating.update")
	EventTypeRatingDelete  = EventType("rating.delete")
	EventTypeCommentPut    = EventType("comment.put")
	EventTypeCommentUpdate = EventType("comment.update")
	EventTypeCommentDelete = EventType("comment.delete")
	EventTypeMovieDelete   = EventType("movie.delete")
)

// Event defines a change to a movie or to its rating or comment ledger.
type Event struct {
	MovieID       string    `json:"movieId"`
	UserID        string    `json:"userId"`
	EventType     EventType `json:"eventType"`
	Value         Score     `json:"value,omitempty"`
	AverageRating float64   `json:"averageRating"`
	CommentID     string    `json:"commentId,omitempty"`
}

func (ev *Event) String() string {
	return fmt.Sprintf("Event{movieId=%s, userId=%s, eventType=%s, value=%d, commentId=%s}",
		ev.MovieID, ev.UserID, ev.EventType, ev.Value, ev.CommentID)
}
