// Package ratingservice owns rating documents: create, list, and the by-user
// and by-hotel queries the user service consumes over HTTP.
package ratingservice

import (
	"context"
	"fmt"

	"github.com/patric-chuzhbe/hotelratings/internal/db/storage"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

type ratingKeeper interface {
	SaveRating(ctx context.Context, rating models.Rating) (models.Rating, error)
	FindAllRatings(ctx context.Context) ([]models.Rating, error)
	FindRatingsByField(ctx context.Context, field, value string) ([]models.Rating, error)
	UpdateRating(ctx context.Context, rating models.Rating) (models.Rating, bool, error)
	DeleteRating(ctx context.Context, ratingID string) (bool, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type store interface {
	ratingKeeper
	pinger
}

type Service struct {
	db store
}

func New(db store) *Service {
	return &Service{db: db}
}

// Create stores a new rating. No validation and no deduplication: two equal
// requests give two ratings.
func (s *Service) Create(ctx context.Context, req models.RatingRequest) (models.Rating, error) {
	return s.db.SaveRating(ctx, models.Rating{
		UserID:   req.UserID,
		HotelID:  req.HotelID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
}

func (s *Service) GetRatings(ctx context.Context) ([]models.Rating, error) {
	return s.db.FindAllRatings(ctx)
}

func (s *Service) GetRatingByUserID(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.db.FindRatingsByField(ctx, storage.FieldUserID, userID)
}

func (s *Service) GetRatingByHotelID(ctx context.Context, hotelID string) ([]models.Rating, error) {
	return s.db.FindRatingsByField(ctx, storage.FieldHotelID, hotelID)
}

// UpdateRating replaces score and feedback. The user and hotel references stay as stored.
func (s *Service) UpdateRating(ctx context.Context, ratingID string, req models.RatingRequest) (models.Rating, error) {
	updated, found, err := s.db.UpdateRating(ctx, models.Rating{
		RatingID: ratingID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		return models.Rating{}, err
	}
	if !found {
		return models.Rating{}, ratingNotFound(ratingID)
	}

	return updated, nil
}

func (s *Service) DeleteRating(ctx context.Context, ratingID string) error {
	deleted, err := s.db.DeleteRating(ctx, ratingID)
	if err != nil {
		return err
	}
	if !deleted {
		return ratingNotFound(ratingID)
	}

	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func ratingNotFound(ratingID string) error {
	return models.NewResourceNotFoundError(fmt.Sprintf("Rating with given id is not found on server: %s", ratingID))
}
