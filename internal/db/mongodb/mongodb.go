// Package mongodb stores users and ratings as MongoDB documents, one collection each.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patric-chuzhbe/hotelratings/internal/db/storage"
	"github.com/patric-chuzhbe/hotelratings/internal/logger"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

const (
	usersCollection   = "users"
	ratingsCollection = "ratings"
)

type MongoDB struct {
	client            *mongo.Client
	users             *mongo.Collection
	ratings           *mongo.Collection
	connectionTimeout time.Duration
}

// New connects to uri, checks the connection and makes sure the rating
// lookup indexes exist.
func New(ctx context.Context, uri, database string, connectionTimeout time.Duration) (*MongoDB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/New(): error while `mongo.Connect()` calling: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/New(): error while `client.Ping()` calling: %w", err)
	}

	db := client.Database(database)
	result := &MongoDB{
		client:            client,
		users:             db.Collection(usersCollection),
		ratings:           db.Collection(ratingsCollection),
		connectionTimeout: connectionTimeout,
	}

	_, err = result.ratings.Indexes().CreateMany(connectCtx, []mongo.IndexModel{
		{Keys: bson.D{{Key: storage.FieldUserID, Value: 1}}},
		{Keys: bson.D{{Key: storage.FieldHotelID, Value: 1}}},
	})
	if err != nil {
		logger.Log.Warnw("failed to create rating indexes", "error", err)
	}

	return result, nil
}

func (db *MongoDB) SaveUser(ctx context.Context, usr models.User) (models.User, error) {
	if _, err := db.users.InsertOne(ctx, usr); err != nil {
		return models.User{}, fmt.Errorf("in internal/db/mongodb/mongodb.go/SaveUser(): error while `InsertOne()` calling: %w", err)
	}

	return usr, nil
}

func (db *MongoDB) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	var usr models.User
	err := db.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&usr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, false, nil
		}
		return models.User{}, false, fmt.Errorf("in internal/db/mongodb/mongodb.go/FindUserByID(): error while `FindOne()` calling: %w", err)
	}

	return usr, true, nil
}

func (db *MongoDB) FindAllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := db.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/FindAllUsers(): error while `Find()` calling: %w", err)
	}
	defer cursor.Close(ctx)

	result := []models.User{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/FindAllUsers(): error while `cursor.All()` calling: %w", err)
	}
	if result == nil {
		result = []models.User{}
	}

	return result, nil
}

func (db *MongoDB) SaveRating(ctx context.Context, rating models.Rating) (models.Rating, error) {
	rating.RatingID = primitive.NewObjectID().Hex()

	if _, err := db.ratings.InsertOne(ctx, rating); err != nil {
		return models.Rating{}, fmt.Errorf("in internal/db/mongodb/mongodb.go/SaveRating(): error while `InsertOne()` calling: %w", err)
	}

	return rating, nil
}

func (db *MongoDB) FindAllRatings(ctx context.Context) ([]models.Rating, error) {
	return db.findRatings(ctx, bson.D{})
}

func (db *MongoDB) FindRatingsByField(ctx context.Context, field, value string) ([]models.Rating, error) {
	if !storage.IsRatingField(field) {
		return nil, fmt.Errorf("unsupported rating field %q", field)
	}

	return db.findRatings(ctx, bson.D{{Key: field, Value: value}})
}

func (db *MongoDB) findRatings(ctx context.Context, filter bson.D) ([]models.Rating, error) {
	cursor, err := db.ratings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/findRatings(): error while `Find()` calling: %w", err)
	}
	defer cursor.Close(ctx)

	result := []models.Rating{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/findRatings(): error while `cursor.All()` calling: %w", err)
	}
	if result == nil {
		result = []models.Rating{}
	}

	return result, nil
}

func (db *MongoDB) UpdateRating(ctx context.Context, rating models.Rating) (models.Rating, bool, error) {
	res := db.ratings.FindOneAndUpdate(
		ctx,
		bson.M{"_id": rating.RatingID},
		bson.M{"$set": bson.M{
			"rating":   rating.Rating,
			"feedback": rating.Feedback,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Rating
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Rating{}, false, nil
		}
		return models.Rating{}, false, fmt.Errorf("in internal/db/mongodb/mongodb.go/UpdateRating(): error while `FindOneAndUpdate()` calling: %w", err)
	}

	return updated, true, nil
}

func (db *MongoDB) DeleteRating(ctx context.Context, ratingID string) (bool, error) {
	res, err := db.ratings.DeleteOne(ctx, bson.M{"_id": ratingID})
	if err != nil {
		return false, fmt.Errorf("in internal/db/mongodb/mongodb.go/DeleteRating(): error while `DeleteOne()` calling: %w", err)
	}

	return res.DeletedCount > 0, nil
}

func (db *MongoDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.client.Ping(ctxWithTimeout, nil)
}

func (db *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), db.connectionTimeout)
	defer cancel()

	return db.client.Disconnect(ctx)
}

// drop removes both collections. Tests use it to start from a clean database.
func (db *MongoDB) drop(ctx context.Context) error {
	if err := db.users.Drop(ctx); err != nil {
		return err
	}
	return db.ratings.Drop(ctx)
}
