package model

import "time"

// Score defines a rating score.
type Score int

// Score bounds, inclusive.
const (
	MinScore Score = 1
	MaxScore Score = 5
)

// Valid reports whether s lies within the allowed range.
func (s Score) Valid() bool {
	return s >= MinScore && s <= MaxScore
}

// Rating defines a single user's rating of a movie.
type Rating struct {
	UserID    string    `json:"userId"`
	Score     Score     `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment defines a single comment on a movie. Username is a snapshot of
// the author's name at the time the comment was written.
type Comment struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Average returns the arithmetic mean of all scores, or 0 for an empty ledger.
func Average(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := float64(0)
	for _, r := range ratings {
		sum += float64(r.Score)
	}
	return sum / float64(len(ratings))
}

// Rater defines the public profile of a user who rated a movie.
type Rater struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RatingView defines a rating entry with its author resolved. User is nil
// when the author no longer exists.
type RatingView struct {
	User      *Rater    `json:"user"`
	Score     Score     `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingsSummary defines the rating ledger of a movie as returned to clients.
type RatingsSummary struct {
	AverageRating float64      `json:"averageRating"`
	Count         int          `json:"count"`
	Ratings       []RatingView `json:"ratings"`
}
