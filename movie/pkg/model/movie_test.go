package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name    string
		ratings []Rating
		want    float64
	}{
		{name: "empty ledger", want: 0},
		{name: "single", ratings: []Rating{{Score: 4}}, want: 4},
		{name: "mean", ratings: []Rating{{Score: 5}, {Score: 2}}, want: 3.5},
		{name: "thirds", ratings: []Rating{{Score: 1}, {Score: 1}, {Score: 2}}, want: 4.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Average(tt.ratings), 1e-9)
		})
	}
}

func TestScoreValid(t *testing.T) {
	for s, want := range map[Score]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		assert.Equal(t, want, s.Valid(), "score %d", s)
	}
}

func TestGenresUnmarshal(t *testing.T) {
	var single struct {
		Genre Genres `json:"genre"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"genre":"Sci-Fi"}`), &single))
	assert.Equal(t, Genres{"Sci-Fi"}, single.Genre)

	var many struct {
		Genre Genres `json:"genre"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"genre":["Sci-Fi","Drama"]}`), &many))
	assert.Equal(t, Genres{"Sci-Fi", "Drama"}, many.Genre)

	assert.Error(t, json.Unmarshal([]byte(`{"genre":42}`), &many))
}

func TestMovieUpdate(t *testing.T) {
	str := func(s string) *string { return &s }
	year := 1984

	tests := []struct {
		name    string
		update  MovieUpdate
		wantErr string
		want    Movie
	}{
		{
			name:   "title only",
			update: MovieUpdate{Title: str("  Dune: Part Two ")},
			want:   Movie{Title: "Dune: Part Two", Description: "desc", Genre: Genres{"Sci-Fi"}, ReleaseYear: 2021, Category: "Film"},
		},
		{
			name:   "genre and year",
			update: MovieUpdate{Genre: Genres{" Drama "}, ReleaseYear: &year},
			want:   Movie{Title: "Dune", Description: "desc", Genre: Genres{"Drama"}, ReleaseYear: 1984, Category: "Film"},
		},
		{
			name:    "empty title",
			update:  MovieUpdate{Title: str("  ")},
			wantErr: "title must not be empty",
		},
		{
			name:    "empty genre list and category",
			update:  MovieUpdate{Genre: Genres{}, Category: str("")},
			wantErr: "genre must have at least 1 item(s); category must not be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Movie{Title: "Dune", Description: "desc", Genre: Genres{"Sci-Fi"}, ReleaseYear: 2021, Category: "Film"}
			tt.update.Normalize()
			err := tt.update.Validate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.update.Apply(&m)
			if diff := cmp.Diff(tt.want, m); diff != "" {
				t.Errorf("apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMovieUpdateEmpty(t *testing.T) {
	assert.True(t, (&MovieUpdate{}).Empty())
	poster := "https://example.com/p.jpg"
	assert.False(t, (&MovieUpdate{PosterURL: &poster}).Empty())
}

func TestLedgerLookups(t *testing.T) {
	m := &Movie{
		Ratings:  []Rating{{UserID: "a", Score: 4}, {UserID: "b", Score: 2}},
		Comments: []Comment{{ID: "c1", UserID: "a", Text: "great"}},
	}
	r, ok := m.RatingBy("b")
	assert.True(t, ok)
	assert.Equal(t, Score(2), r.Score)
	_, ok = m.RatingBy("c")
	assert.False(t, ok)

	c, ok := m.CommentByID("c1")
	assert.True(t, ok)
	assert.Equal(t, "a", c.UserID)
	_, ok = m.CommentByID("c2")
	assert.False(t, ok)

	m.RecomputeAverage()
	assert.Equal(t, 3.0, m.AverageRating)

	clone := m.Clone()
	clone.Ratings[0].Score = 1
	assert.Equal(t, Score(4), m.Ratings[0].Score)
}
