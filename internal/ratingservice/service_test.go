package ratingservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/hotelratings/internal/db/memorystorage"
	"github.com/patric-chuzhbe/hotelratings/internal/mockstorage"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := memorystorage.New()
	require.NoError(t, err)
	return New(db)
}

func ratingIDs(ratings []models.Rating) []string {
	ids := make([]string, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.RatingID)
	}
	return ids
}

func TestCreateTwiceGivesTwoRatings(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	req := models.RatingRequest{UserID: "user123", HotelID: "hotel456", Rating: "5", Feedback: "Excellent stay!"}

	first, err := svc.Create(ctx, req)
	require.NoError(t, err)
	second, err := svc.Create(ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, first.RatingID)
	assert.NotEmpty(t, second.RatingID)
	assert.NotEqual(t, first.RatingID, second.RatingID)

	all, err := svc.GetRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateDoesNotValidate(t *testing.T) {
	svc := newService(t)

	created, err := svc.Create(context.Background(), models.RatingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, created.RatingID)
}

func TestGetRatingByField(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	seed := []models.RatingRequest{
		{UserID: "u-1", HotelID: "h-1", Rating: "5"},
		{UserID: "u-2", HotelID: "h-1", Rating: "4"},
		{UserID: "u-2", HotelID: "h-2", Rating: "3"},
		{UserID: "u-3", HotelID: "h-3", Rating: "2"},
		{UserID: "u-2", HotelID: "h-3", Rating: "1"},
	}
	created := make([]models.Rating, 0, len(seed))
	for _, req := range seed {
		r, err := svc.Create(ctx, req)
		require.NoError(t, err)
		created = append(created, r)
	}

	testCases := []struct {
		name    string
		query   func(context.Context, string) ([]models.Rating, error)
		value   string
		wantIDs []string
	}{
		{name: "user with no ratings", query: svc.GetRatingByUserID, value: "u-404", wantIDs: []string{}},
		{name: "user with one rating", query: svc.GetRatingByUserID, value: "u-1", wantIDs: []string{created[0].RatingID}},
		{
			name:    "user with many ratings",
			query:   svc.GetRatingByUserID,
			value:   "u-2",
			wantIDs: []string{created[1].RatingID, created[2].RatingID, created[4].RatingID},
		},
		{name: "hotel with no ratings", query: svc.GetRatingByHotelID, value: "h-404", wantIDs: []string{}},
		{name: "hotel with one rating", query: svc.GetRatingByHotelID, value: "h-2", wantIDs: []string{created[2].RatingID}},
		{
			name:    "hotel with many ratings",
			query:   svc.GetRatingByHotelID,
			value:   "h-3",
			wantIDs: []string{created[3].RatingID, created[4].RatingID},
		},
		{name: "match is exact", query: svc.GetRatingByUserID, value: "u-", wantIDs: []string{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ratings, err := testCase.query(ctx, testCase.value)
			require.NoError(t, err)
			assert.NotNil(t, ratings)
			assert.ElementsMatch(t, testCase.wantIDs, ratingIDs(ratings))
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.RatingRequest{UserID: "u-1", HotelID: "h-1", Rating: "2", Feedback: "noisy"})
	require.NoError(t, err)

	updated, err := svc.UpdateRating(ctx, created.RatingID, models.RatingRequest{UserID: "u-9", Rating: "4", Feedback: "quiet now"})
	require.NoError(t, err)
	assert.Equal(t, created.RatingID, updated.RatingID)
	assert.Equal(t, "u-1", updated.UserID)
	assert.Equal(t, "4", updated.Rating)

	_, err = svc.UpdateRating(ctx, "missing", models.RatingRequest{})
	assert.ErrorIs(t, err, models.ErrResourceNotFound)
	assert.Contains(t, err.Error(), "missing")

	require.NoError(t, svc.DeleteRating(ctx, created.RatingID))
	assert.ErrorIs(t, svc.DeleteRating(ctx, created.RatingID), models.ErrResourceNotFound)
}

func TestStoreErrorsPropagate(t *testing.T) {
	storeErr := errors.New("connection reset")
	db := &mockstorage.StorageMock{}
	db.On("SaveRating", mock.Anything, mock.Anything).Return(models.Rating{}, storeErr)
	db.On("FindRatingsByField", mock.Anything, "hotelId", "h-1").Return([]models.Rating(nil), storeErr)
	db.On("DeleteRating", mock.Anything, "r-1").Return(false, storeErr)

	svc := New(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.RatingRequest{})
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.GetRatingByHotelID(ctx, "h-1")
	assert.ErrorIs(t, err, storeErr)

	assert.ErrorIs(t, svc.DeleteRating(ctx, "r-1"), storeErr)

	db.AssertExpectations(t)
}
