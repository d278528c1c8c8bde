// Package userservice manages user profiles and assembles the composite user
// view: the stored profile plus the user's ratings, each carrying the hotel it
// refers to.
package userservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"
	"golang.org/x/sync/errgroup"

	"github.com/patric-chuzhbe/hotelratings/internal/logger"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
	"github.com/patric-chuzhbe/hotelratings/internal/remote"
)

type userKeeper interface {
	SaveUser(ctx context.Context, usr models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, bool, error)
	FindAllUsers(ctx context.Context) ([]models.User, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type store interface {
	userKeeper
	pinger
}

type ratingsFetcher interface {
	GetRatingsByUserID(ctx context.Context, userID string) ([]models.Rating, error)
}

type hotelFetcher interface {
	GetHotel(ctx context.Context, hotelID string) (models.Hotel, error)
}

type Service struct {
	db             store
	ratings        ratingsFetcher
	hotels         hotelFetcher
	enrichmentMode string
	workers        int
}

type Option func(*Service)

// WithEnrichmentMode selects how hotels are attached to ratings:
// models.EnrichmentModeSequential (default) or models.EnrichmentModeConcurrent.
func WithEnrichmentMode(mode string) Option {
	return func(s *Service) {
		s.enrichmentMode = mode
	}
}

// WithWorkers bounds the number of hotel lookups in flight in concurrent mode.
func WithWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

func New(db store, ratings ratingsFetcher, hotels hotelFetcher, opts ...Option) *Service {
	s := &Service{
		db:             db,
		ratings:        ratings,
		hotels:         hotels,
		enrichmentMode: models.EnrichmentModeSequential,
		workers:        4,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SaveUser assigns a fresh id, replacing whatever the caller put there, and stores the user.
func (s *Service) SaveUser(ctx context.Context, usr models.User) (models.User, error) {
	usr.UserID = uuid.New().String()

	return s.db.SaveUser(ctx, usr)
}

func (s *Service) GetAllUser(ctx context.Context) ([]models.User, error) {
	return s.db.FindAllUsers(ctx)
}

// GetUser returns the user with every rating enriched by its hotel. A failed
// remote call fails the whole request; a partial view is never returned.
func (s *Service) GetUser(ctx context.Context, userID string) (models.UserView, error) {
	usr, found, err := s.db.FindUserByID(ctx, userID)
	if err != nil {
		return models.UserView{}, err
	}
	if !found {
		return models.UserView{}, models.NewResourceNotFoundError(
			fmt.Sprintf("User with given id is not found on server: %s", userID),
		)
	}

	ratings, err := s.ratings.GetRatingsByUserID(ctx, userID)
	if err != nil {
		return models.UserView{}, fmt.Errorf(
			"in internal/userservice/service.go/GetUser(): error while `GetRatingsByUserID()` calling: %w",
			err,
		)
	}

	var views []models.RatingView
	if s.enrichmentMode == models.EnrichmentModeConcurrent {
		views, err = s.enrichConcurrently(ctx, ratings)
	} else {
		views, err = s.enrichSequentially(ctx, ratings)
	}
	if err != nil {
		return models.UserView{}, err
	}

	return models.UserView{User: usr, Ratings: views}, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) enrichSequentially(ctx context.Context, ratings []models.Rating) ([]models.RatingView, error) {
	views := make([]models.RatingView, 0, len(ratings))
	for _, rating := range ratings {
		hotel, err := s.getHotel(ctx, rating.HotelID, rating.RatingID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.RatingView{Rating: rating, Hotel: hotel})
	}

	return views, nil
}

func (s *Service) enrichConcurrently(ctx context.Context, ratings []models.Rating) ([]models.RatingView, error) {
	if len(ratings) == 0 {
		return []models.RatingView{}, nil
	}

	hotelIDs := funk.UniqString(funk.Map(ratings, func(r models.Rating) string {
		return r.HotelID
	}).([]string))
	ratingIDsByHotel := make(map[string][]string, len(hotelIDs))
	for _, rating := range ratings {
		ratingIDsByHotel[rating.HotelID] = append(ratingIDsByHotel[rating.HotelID], rating.RatingID)
	}

	hotels := make([]models.Hotel, len(hotelIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, hotelID := range hotelIDs {
		i, hotelID := i, hotelID
		g.Go(func() error {
			hotel, err := s.getHotel(gctx, hotelID, ratingIDsByHotel[hotelID]...)
			if err != nil {
				return err
			}
			hotels[i] = hotel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Hotel, len(hotelIDs))
	for i, hotelID := range hotelIDs {
		byID[hotelID] = hotels[i]
	}

	views := make([]models.RatingView, 0, len(ratings))
	for _, rating := range ratings {
		views = append(views, models.RatingView{Rating: rating, Hotel: byID[rating.HotelID]})
	}

	return views, nil
}

// getHotel fetches one hotel. ratingIDs are the ratings referring to it; they
// only go to the log when the hotel service does not know the hotel.
func (s *Service) getHotel(ctx context.Context, hotelID string, ratingIDs ...string) (models.Hotel, error) {
	hotel, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		if remote.IsNotFound(err) {
			logger.Log.Warnw("ratings refer to a hotel the hotel service does not know",
				"hotelId", hotelID,
				"ratingIds", ratingIDs,
			)
		}
		return models.Hotel{}, fmt.Errorf(
			"in internal/userservice/service.go/getHotel(): error while `GetHotel()` calling: %w",
			err,
		)
	}

	return hotel, nil
}
