package postgresdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/hotelratings/internal/db/storage"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

// TEST_DATABASE_DSN points at a disposable database; every public table in it is dropped.
func newTestDB(t *testing.T) *PostgresDB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := New(context.Background(), dsn, 5*time.Second, WithDBPreReset(true))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	return db
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"u-1", "u-2", "u-3"} {
		_, err := db.SaveUser(ctx, models.User{UserID: id, Name: "name " + id})
		require.NoError(t, err)
	}

	usr, found, err := db.FindUserByID(ctx, "u-2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "name u-2", usr.Name)

	_, found, err = db.FindUserByID(ctx, "u-404")
	require.NoError(t, err)
	assert.False(t, found)

	users, err := db.FindAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "u-1", users[0].UserID)

	_, err = db.SaveUser(ctx, models.User{UserID: "u-1"})
	assert.Error(t, err, "duplicate keys are a store fault")
}

func TestRatings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.SaveRating(ctx, models.Rating{UserID: "u-1", HotelID: "h-1", Rating: "4", Feedback: "ok"})
	require.NoError(t, err)
	second, err := db.SaveRating(ctx, models.Rating{UserID: "u-1", HotelID: "h-1", Rating: "4", Feedback: "ok"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.RatingID)
	assert.NotEqual(t, first.RatingID, second.RatingID)

	_, err = db.SaveRating(ctx, models.Rating{UserID: "u-2", HotelID: "h-2", Rating: "1"})
	require.NoError(t, err)

	byHotel, err := db.FindRatingsByField(ctx, storage.FieldHotelID, "h-1")
	require.NoError(t, err)
	require.Len(t, byHotel, 2)
	assert.Equal(t, first.RatingID, byHotel[0].RatingID)

	_, err = db.FindRatingsByField(ctx, "feedback", "ok")
	assert.Error(t, err)

	updated, found, err := db.UpdateRating(ctx, models.Rating{RatingID: second.RatingID, Rating: "5", Feedback: "great"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5", updated.Rating)
	assert.Equal(t, "h-1", updated.HotelID)

	deleted, err := db.DeleteRating(ctx, first.RatingID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := db.FindAllRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, db.Ping(ctx))
}
