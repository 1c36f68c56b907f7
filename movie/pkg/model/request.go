package model

import "math"

// RatingRequest defines the body of rating requests. UserID is optional and
// must name the caller when present.
type RatingRequest struct {
	UserID string   `json:"userId"`
	Rating *float64 `json:"rating" validate:"required,min=1,max=5"`
}

// Score returns the requested score and whether it is a whole number.
func (r *RatingRequest) Score() (Score, bool) {
	if r.Rating == nil || *r.Rating != math.Trunc(*r.Rating) {
		return 0, false
	}
	return Score(*r.Rating), true
}

// CommentRequest defines the body of comment requests.
type CommentRequest struct {
	Text string `json:"comment" validate:"required"`
}

// PosterRequest defines the body of poster update requests.
type PosterRequest struct {
	PosterURL string `json:"posterUrl" validate:"required"`
}
