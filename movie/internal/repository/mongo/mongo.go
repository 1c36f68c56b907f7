package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"cineview/movie/internal/repository"
	"cineview/movie/pkg/model"
	"cineview/pkg/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	tracerID       = "movie-repository-mongo"
	collectionName = "movies"
)

// averageExpr recomputes averageRating from the ratings array in the same
// update that changed it; $avg of an empty array is null, hence $ifNull.
var averageExpr = bson.D{{Key: "$ifNull", Value: bson.A{
	bson.D{{Key: "$avg", Value: "$ratings.rating"}},
	0.0,
}}}

// Repository defines a MongoDB-based movie repository. Every ledger
// mutation is a single-document update so concurrent requests on the same
// movie never lose writes.
type Repository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// New creates a new MongoDB-based movie repository and ensures its indexes.
func New(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "mongo"),
	)
	coll := db.Collection(collectionName)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "ratings.userId", Value: 1}}},
	})
	if err != nil {
		return nil, err
	}
	return &Repository{coll: coll, logger: logger}, nil
}

// Create stores a new movie.
func (r *Repository) Create(ctx context.Context, m *model.Movie) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()
	doc, err := movieFromModel(m)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Warn("Failed to insert movie", zap.String(logging.FieldMovieID, m.ID), zap.Error(err))
		return err
	}
	return nil
}

// List returns movies ordered by creation whose title contains search,
// ignoring case.
func (r *Repository) List(ctx context.Context, search string) ([]*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/List")
	defer span.End()
	filter := bson.M{}
	if search != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}}
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// Get retrieves a movie by id.
func (r *Repository) Get(ctx context.Context, id string) (*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Get")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc movieDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Warn("Failed to get movie", zap.String(logging.FieldMovieID, id), zap.Error(err))
		return nil, err
	}
	return doc.toModel(), nil
}

// GetMany retrieves the existing movies among ids, preserving the order of ids.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMany")
	defer span.End()
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*model.Movie{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	found, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Movie, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	res := make([]*model.Movie, 0, len(found))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			res = append(res, m)
		}
	}
	return res, nil
}

// Update merges a partial update into a movie.
func (r *Repository) Update(ctx context.Context, id string, u *model.MovieUpdate, at time.Time) (*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Update")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	set := bson.M{"updatedAt": at}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Genre != nil {
		set["genre"] = []string(u.Genre)
	}
	if u.ReleaseYear != nil {
		set["releaseYear"] = *u.ReleaseYear
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.PosterURL != nil {
		set["posterUrl"] = *u.PosterURL
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

// Delete removes a movie. Ratings and comments are embedded in the movie
// document and go with it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Delete")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddRating appends a rating unless the user already rated the movie and
// recomputes the average in the same update.
func (r *Repository) AddRating(ctx context.Context, movieID string, rating model.Rating) (*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddRating")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	rd, err := ratingFromModel(rating)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "ratings.userId": bson.M{"$ne": rd.UserID}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "ratings", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$ratings", bson.A{}}}},
			bson.D{{Key: "$literal", Value: bson.A{rd}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "averageRating", Value: averageExpr},
			{Key: "updatedAt", Value: rating.CreatedAt},
		}}},
	}
	m, err := r.findOneAndUpdate(ctx, filter, pipeline)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, r.missing(ctx, oid, repository.ErrAlreadyExists)
	}
	return m, err
}

// UpdateRating replaces the score of the user's rating and recomputes the
// average in the same update.
func (r *Repository) UpdateRating(ctx context.Context, movieID string, rating model.Rating) (*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateRating")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(rating.UserID)
	if err != nil {
		return nil, repository.ErrEntryNotFound
	}
	filter := bson.M{"_id": oid, "ratings.userId": uid}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "ratings", Value: bson.D{{Key: "$map", Value: bson.D{
			{Key: "input", Value: "$ratings"},
			{Key: "as", Value: "r"},
			{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$$r.userId", uid}}},
				bson.D{{Key: "$mergeObjects", Value: bson.A{"$$r", bson.D{
					{Key: "rating", Value: int(rating.Score)},
					{Key: "createdAt", Value: rating.CreatedAt},
				}}}},
				"$$r",
			}}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "averageRating", Value: averageExpr},
			{Key: "updatedAt", Value: rating.CreatedAt},
		}}},
	}
	m, err := r.findOneAndUpdate(ctx, filter, pipeline)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, r.missing(ctx, oid, repository.ErrEntryNotFound)
	}
	return m, err
}

// DeleteRating removes the user's rating and recomputes the average, which
// drops to 0 once the ledger is empty.
func (r *Repository) DeleteRating(ctx context.Context, movieID, userID string) (*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteRating")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrEntryNotFound
	}
	filter := bson.M{"_id": oid, "ratings.userId": uid}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "ratings", Value: bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: "$ratings"},
			{Key: "as", Value: "r"},
			{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$r.userId", uid}}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "averageRating", Value: averageExpr},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	m, err := r.findOneAndUpdate(ctx, filter, pipeline)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, r.missing(ctx, oid, repository.ErrEntryNotFound)
	}
	return m, err
}

// AddComment appends a comment.
func (r *Repository) AddComment(ctx context.Context, movieID string, c model.Comment) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddComment")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return repository.ErrNotFound
	}
	cd, err := commentFromModel(c)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"comments": cd},
		"$set":  bson.M{"updatedAt": c.CreatedAt},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateComment replaces the text of a comment owned by c.UserID.
func (r *Repository) UpdateComment(ctx context.Context, movieID string, c model.Comment) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateComment")
	defer span.End()
	oid, filter, err := commentFilter(movieID, c.ID, c.UserID)
	if err != nil {
		return err
	}
	at := time.Now().UTC()
	if c.UpdatedAt != nil {
		at = *c.UpdatedAt
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"comments.$.text":      c.Text,
		"comments.$.updatedAt": at,
		"updatedAt":            at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missing(ctx, oid, repository.ErrEntryNotFound)
	}
	return nil
}

// DeleteComment removes a comment owned by ownerID.
func (r *Repository) DeleteComment(ctx context.Context, movieID, commentID, ownerID string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteComment")
	defer span.End()
	oid, filter, err := commentFilter(movieID, commentID, ownerID)
	if err != nil {
		return err
	}
	elem := filter["comments"].(bson.M)["$elemMatch"]
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"comments": elem},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missing(ctx, oid, repository.ErrEntryNotFound)
	}
	return nil
}

func commentFilter(movieID, commentID, ownerID string) (primitive.ObjectID, bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return oid, nil, repository.ErrNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return oid, nil, repository.ErrEntryNotFound
	}
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return oid, nil, repository.ErrEntryNotFound
	}
	return oid, bson.M{
		"_id":      oid,
		"comments": bson.M{"$elemMatch": bson.M{"_id": cid, "userId": uid}},
	}, nil
}

func (r *Repository) findOneAndUpdate(ctx context.Context, filter bson.M, update any) (*model.Movie, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc movieDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Warn("Failed to update movie", zap.Error(err))
		return nil, err
	}
	return doc.toModel(), nil
}

// missing tells a conditional update that matched nothing apart: the movie
// is gone (ErrNotFound) or the ledger condition failed (ledgerErr).
func (r *Repository) missing(ctx context.Context, oid primitive.ObjectID, ledgerErr error) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return ledgerErr
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*model.Movie, error) {
	defer cur.Close(ctx)
	res := []*model.Movie{}
	for cur.Next(ctx) {
		var doc movieDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		res = append(res, doc.toModel())
	}
	return res, cur.Err()
}
