// Package storage declares the document-store contract shared by every backend:
// a Users collection and a Ratings collection with key lookups and
// field-equality queries.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

// Queryable rating fields for FindRatingsByField.
const (
	FieldUserID  = "userId"
	FieldHotelID = "hotelId"
)

// IsRatingField reports whether name can be used with FindRatingsByField.
func IsRatingField(name string) bool {
	return name == FieldUserID || name == FieldHotelID
}

type UserKeeper interface {
	// SaveUser stores the user as given. The caller owns the identity.
	SaveUser(ctx context.Context, usr models.User) (models.User, error)

	FindUserByID(ctx context.Context, userID string) (models.User, bool, error)

	FindAllUsers(ctx context.Context) ([]models.User, error)
}

type RatingKeeper interface {
	// SaveRating stores a new rating and assigns its RatingID.
	SaveRating(ctx context.Context, rating models.Rating) (models.Rating, error)

	FindAllRatings(ctx context.Context) ([]models.Rating, error)

	FindRatingsByField(ctx context.Context, field, value string) ([]models.Rating, error)

	// UpdateRating replaces score and feedback of an existing rating.
	UpdateRating(ctx context.Context, rating models.Rating) (models.Rating, bool, error)

	DeleteRating(ctx context.Context, ratingID string) (bool, error)
}

type Storage interface {
	UserKeeper
	RatingKeeper
	Ping(ctx context.Context) error
	Close() error
}
