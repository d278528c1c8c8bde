// Package mockstorage provides testify-based mocks of the storage backends and
// the remote service clients. Service and router tests use them to simulate
// database and network behavior.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

// StorageMock is a testify mock implementing storage.Storage.
type StorageMock struct {
	mock.Mock
}

// Ping mocks the pinger interface to simulate a health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *StorageMock) SaveUser(ctx context.Context, usr models.User) (models.User, error) {
	args := m.Called(ctx, usr)
	return args.Get(0).(models.User), args.Error(1)
}

// FindUserByID mocks a user lookup. The second return value reports whether the user exists.
func (m *StorageMock) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *StorageMock) FindAllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *StorageMock) SaveRating(ctx context.Context, rating models.Rating) (models.Rating, error) {
	args := m.Called(ctx, rating)
	return args.Get(0).(models.Rating), args.Error(1)
}

func (m *StorageMock) FindAllRatings(ctx context.Context) ([]models.Rating, error) {
	args := m.Called(ctx)
	ratings, _ := args.Get(0).([]models.Rating)
	return ratings, args.Error(1)
}

func (m *StorageMock) FindRatingsByField(ctx context.Context, field, value string) ([]models.Rating, error) {
	args := m.Called(ctx, field, value)
	ratings, _ := args.Get(0).([]models.Rating)
	return ratings, args.Error(1)
}

func (m *StorageMock) UpdateRating(ctx context.Context, rating models.Rating) (models.Rating, bool, error) {
	args := m.Called(ctx, rating)
	return args.Get(0).(models.Rating), args.Bool(1), args.Error(2)
}

func (m *StorageMock) DeleteRating(ctx context.Context, ratingID string) (bool, error) {
	args := m.Called(ctx, ratingID)
	return args.Bool(0), args.Error(1)
}

// RatingClientMock mocks the HTTP client of the rating service.
type RatingClientMock struct {
	mock.Mock
}

func (m *RatingClientMock) GetRatingsByUserID(ctx context.Context, userID string) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	ratings, _ := args.Get(0).([]models.Rating)
	return ratings, args.Error(1)
}

// HotelClientMock mocks the HTTP client of the hotel service.
//
// OnGetHotel, when set, replaces testify's call matching. Concurrency tests
// use it to observe how many lookups are in flight.
type HotelClientMock struct {
	mock.Mock

	OnGetHotel func(ctx context.Context, hotelID string) (models.Hotel, error)
}

func (m *HotelClientMock) GetHotel(ctx context.Context, hotelID string) (models.Hotel, error) {
	if m.OnGetHotel != nil {
		return m.OnGetHotel(ctx, hotelID)
	}
	args := m.Called(ctx, hotelID)
	return args.Get(0).(models.Hotel), args.Error(1)
}
