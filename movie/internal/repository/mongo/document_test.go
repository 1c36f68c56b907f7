package mongo

import (
	"testing"
	"time"

	"cineview/movie/pkg/model"
	"cineview/pkg/ident"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocumentConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	edited := now.Add(time.Hour)
	m := &model.Movie{
		ID:            ident.New(),
		Title:         "Dune",
		Description:   "Spice",
		Genre:         model.Genres{"Sci-Fi", "Drama"},
		ReleaseYear:   2021,
		Category:      "Film",
		PosterURL:     "https://example.com/dune.jpg",
		AverageRating: 4,
		Ratings:       []model.Rating{{UserID: ident.New(), Score: 4, CreatedAt: now}},
		Comments: []model.Comment{
			{ID: ident.New(), UserID: ident.New(), Username: "alice", Text: "great", CreatedAt: now, UpdatedAt: &edited},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc, err := movieFromModel(m)
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded movieDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	if diff := cmp.Diff(m, decoded.toModel()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int32(4), bson.Raw(raw).Lookup("ratings", "0", "rating").Int32())
}

func TestDocumentConversionRejectsMalformedIDs(t *testing.T) {
	_, err := movieFromModel(&model.Movie{ID: "not-an-id"})
	assert.Error(t, err)

	_, err = movieFromModel(&model.Movie{ID: ident.New(), Ratings: []model.Rating{{UserID: "bad"}}})
	assert.Error(t, err)
}
