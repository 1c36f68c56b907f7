package mongo

import (
	"context"
	"errors"
	"time"

	"cineview/pkg/logging"
	"cineview/user/internal/repository"
	"cineview/user/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	tracerID       = "user-repository-mongo"
	collectionName = "users"
)

type userDocument struct {
	ID             primitive.ObjectID   `bson:"_id"`
	Username       string               `bson:"username"`
	Email          string               `bson:"email"`
	Password       string               `bson:"password"`
	FavoriteMovies []primitive.ObjectID `bson:"favoriteMovies"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func userFromModel(u *model.User) (*userDocument, error) {
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, err
	}
	favs, err := objectIDs(u.Favorites)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:             id,
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.PasswordHash,
		FavoriteMovies: favs,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}, nil
}

func (d *userDocument) toModel() *model.User {
	u := &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Favorites:    make([]string, 0, len(d.FavoriteMovies)),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, id := range d.FavoriteMovies {
		u.Favorites = append(u.Favorites, id.Hex())
	}
	return u
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	res := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		res = append(res, oid)
	}
	return res, nil
}

// Repository defines a MongoDB-based user repository.
type Repository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// New creates a new MongoDB-based user repository and ensures the unique
// username and email indexes.
func New(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "mongo"),
	)
	coll := db.Collection(collectionName)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "favoriteMovies", Value: 1}}},
	})
	if err != nil {
		return nil, err
	}
	return &Repository{coll: coll, logger: logger}, nil
}

// Create stores a new user.
func (r *Repository) Create(ctx context.Context, u *model.User) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()
	doc, err := userFromModel(u)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Get retrieves a user by id.
func (r *Repository) Get(ctx context.Context, id string) (*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Get")
	defer span.End()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetByUsername")
	defer span.End()
	return r.findOne(ctx, bson.M{"username": username})
}

// GetMany retrieves the existing users among ids.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMany")
	defer span.End()
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*model.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// List returns all users in registration order.
func (r *Repository) List(ctx context.Context) ([]*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/List")
	defer span.End()
	return r.find(ctx, bson.M{})
}

// UpdateUsername renames a user.
func (r *Repository) UpdateUsername(ctx context.Context, id, username string, at time.Time) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateUsername")
	defer span.End()
	err := r.updateByID(ctx, id, bson.M{"$set": bson.M{"username": username, "updatedAt": at}})
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrAlreadyExists
	}
	return err
}

// UpdatePassword replaces a user's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdatePassword")
	defer span.End()
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"password": hash, "updatedAt": at}})
}

// Delete removes a user.
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

// AddFavorite adds movieID to the user's favorites with $addToSet, so
// adding a member again is a no-op.
func (r *Repository) AddFavorite(ctx context.Context, userID, movieID string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddFavorite")
	defer span.End()
	mid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return err
	}
	return r.updateByID(ctx, userID, bson.M{"$addToSet": bson.M{"favoriteMovies": mid}})
}

// RemoveFavorite removes movieID from the user's favorites.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, movieID string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/RemoveFavorite")
	defer span.End()
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}
	mid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return repository.ErrEntryNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": uid, "favoriteMovies": mid},
		bson.M{"$pull": bson.M{"favoriteMovies": mid}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": uid}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrEntryNotFound
}

// RemoveFavoriteEverywhere removes movieID from every favorites set and
// returns the number of users changed.
func (r *Repository) RemoveFavoriteEverywhere(ctx context.Context, movieID string) (int64, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/RemoveFavoriteEverywhere")
	defer span.End()
	mid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return 0, nil
	}
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"favoriteMovies": mid},
		bson.M{"$pull": bson.M{"favoriteMovies": mid}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FavoriteMovieIDs returns the distinct movie ids referenced by any
// favorites set.
func (r *Repository) FavoriteMovieIDs(ctx context.Context) ([]string, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/FavoriteMovieIDs")
	defer span.End()
	values, err := r.coll.Distinct(ctx, "favoriteMovies", bson.M{})
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			res = append(res, oid.Hex())
		}
	}
	return res, nil
}

func (r *Repository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		r.logger.Warn("Failed to find user", zap.Error(err))
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *Repository) find(ctx context.Context, filter bson.M) ([]*model.User, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	res := []*model.User{}
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		res = append(res, doc.toModel())
	}
	return res, cur.Err()
}
