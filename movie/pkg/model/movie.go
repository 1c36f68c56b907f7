package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Genres defines the genre tags of a movie. It accepts either a JSON
// array or a single JSON string.
type Genres []string

// UnmarshalJSON decodes a string or an array of strings.
func (g *Genres) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*g = Genres{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("genre must be a string or an array of strings")
	}
	*g = many
	return nil
}

// Movie defines a catalog record together with its rating and comment ledgers.
type Movie struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Genre         Genres    `json:"genre"`
	ReleaseYear   int       `json:"releaseYear"`
	Category      string    `json:"category"`
	PosterURL     string    `json:"posterUrl"`
	AverageRating float64   `json:"averageRating"`
	Ratings       []Rating  `json:"ratings"`
	Comments      []Comment `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewMovie defines the fields required to create a movie.
type NewMovie struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Genre       Genres `json:"genre" validate:"required,min=1,dive,required"`
	ReleaseYear int    `json:"releaseYear" validate:"required,min=1"`
	Category    string `json:"category" validate:"required"`
}

// Normalize trims surrounding whitespace from every text field.
func (n *NewMovie) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	n.Category = strings.TrimSpace(n.Category)
	n.Genre = trimAll(n.Genre)
}

// MovieUpdate defines a partial movie update. Nil fields are left untouched.
type MovieUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Genre       Genres  `json:"genre"`
	ReleaseYear *int    `json:"releaseYear"`
	Category    *string `json:"category"`
	PosterURL   *string `json:"posterUrl"`
}

// Normalize trims surrounding whitespace from every supplied text field.
func (u *MovieUpdate) Normalize() {
	for _, s := range []*string{u.Title, u.Description, u.Category, u.PosterURL} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	if u.Genre != nil {
		u.Genre = trimAll(u.Genre)
	}
}

// Validate re-applies creation rules to the supplied fields only.
func (u *MovieUpdate) Validate() error {
	var msgs []string
	if u.Title != nil && *u.Title == "" {
		msgs = append(msgs, "title must not be empty")
	}
	if u.Description != nil && *u.Description == "" {
		msgs = append(msgs, "description must not be empty")
	}
	if u.Genre != nil {
		if len(u.Genre) == 0 {
			msgs = append(msgs, "genre must have at least 1 item(s)")
		}
		for _, g := range u.Genre {
			if g == "" {
				msgs = append(msgs, "genre must not contain empty tags")
				break
			}
		}
	}
	if u.Category != nil && *u.Category == "" {
		msgs = append(msgs, "category must not be empty")
	}
	if u.ReleaseYear != nil && *u.ReleaseYear < 1 {
		msgs = append(msgs, "releaseYear must be at least 1")
	}
	if u.PosterURL != nil && *u.PosterURL == "" {
		msgs = append(msgs, "posterUrl must not be empty")
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Empty reports whether the update carries no field.
func (u *MovieUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Genre == nil &&
		u.ReleaseYear == nil && u.Category == nil && u.PosterURL == nil
}

// Apply merges the supplied fields into m.
func (u *MovieUpdate) Apply(m *Movie) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Genre != nil {
		m.Genre = append(Genres(nil), u.Genre...)
	}
	if u.ReleaseYear != nil {
		m.ReleaseYear = *u.ReleaseYear
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.PosterURL != nil {
		m.PosterURL = *u.PosterURL
	}
}

// RatingBy returns the rating entry left by userID.
func (m *Movie) RatingBy(userID string) (Rating, bool) {
	for _, r := range m.Ratings {
		if r.UserID == userID {
			return r, true
		}
	}
	return Rating{}, false
}

// CommentByID returns the comment entry with the given id.
func (m *Movie) CommentByID(id string) (Comment, bool) {
	for _, c := range m.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// RecomputeAverage refreshes AverageRating from the rating ledger.
func (m *Movie) RecomputeAverage() {
	m.AverageRating = Average(m.Ratings)
}

// Clone returns a deep copy of m.
func (m *Movie) Clone() *Movie {
	c := *m
	c.Genre = append(make(Genres, 0, len(m.Genre)), m.Genre...)
	c.Ratings = append(make([]Rating, 0, len(m.Ratings)), m.Ratings...)
	c.Comments = append(make([]Comment, 0, len(m.Comments)), m.Comments...)
	return &c
}

func trimAll(in []string) Genres {
	out := make(Genres, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
