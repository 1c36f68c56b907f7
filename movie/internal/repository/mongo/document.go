package mongo

import (
	"time"

	"cineview/movie/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type movieDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Genre         []string           `bson:"genre"`
	ReleaseYear   int                `bson:"releaseYear"`
	Category      string             `bson:"category"`
	PosterURL     string             `bson:"posterUrl,omitempty"`
	AverageRating float64            `bson:"averageRating"`
	Ratings       []ratingDocument   `bson:"ratings"`
	Comments      []commentDocument  `bson:"comments"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type ratingDocument struct {
	UserID    primitive.ObjectID `bson:"userId"`
	Rating    int                `bson:"rating"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"userId"`
	Username  string             `bson:"username"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
}

func movieFromModel(m *model.Movie) (*movieDocument, error) {
	id, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return nil, err
	}
	doc := &movieDocument{
		ID:            id,
		Title:         m.Title,
		Description:   m.Description,
		Genre:         append([]string{}, m.Genre...),
		ReleaseYear:   m.ReleaseYear,
		Category:      m.Category,
		PosterURL:     m.PosterURL,
		AverageRating: m.AverageRating,
		Ratings:       make([]ratingDocument, 0, len(m.Ratings)),
		Comments:      make([]commentDocument, 0, len(m.Comments)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, r := range m.Ratings {
		rd, err := ratingFromModel(r)
		if err != nil {
			return nil, err
		}
		doc.Ratings = append(doc.Ratings, rd)
	}
	for _, c := range m.Comments {
		cd, err := commentFromModel(c)
		if err != nil {
			return nil, err
		}
		doc.Comments = append(doc.Comments, cd)
	}
	return doc, nil
}

func ratingFromModel(r model.Rating) (ratingDocument, error) {
	uid, err := primitive.ObjectIDFromHex(r.UserID)
	if err != nil {
		return ratingDocument{}, err
	}
	return ratingDocument{UserID: uid, Rating: int(r.Score), CreatedAt: r.CreatedAt}, nil
}

func commentFromModel(c model.Comment) (commentDocument, error) {
	id, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return commentDocument{}, err
	}
	uid, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return commentDocument{}, err
	}
	return commentDocument{
		ID:        id,
		UserID:    uid,
		Username:  c.Username,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func (d *movieDocument) toModel() *model.Movie {
	m := &model.Movie{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		Genre:         append(model.Genres{}, d.Genre...),
		ReleaseYear:   d.ReleaseYear,
		Category:      d.Category,
		PosterURL:     d.PosterURL,
		AverageRating: d.AverageRating,
		Ratings:       make([]model.Rating, 0, len(d.Ratings)),
		Comments:      make([]model.Comment, 0, len(d.Comments)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, r := range d.Ratings {
		m.Ratings = append(m.Ratings, model.Rating{
			UserID:    r.UserID.Hex(),
			Score:     model.Score(r.Rating),
			CreatedAt: r.CreatedAt,
		})
	}
	for _, c := range d.Comments {
		m.Comments = append(m.Comments, model.Comment{
			ID:        c.ID.Hex(),
			UserID:    c.UserID.Hex(),
			Username:  c.Username,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return m
}
