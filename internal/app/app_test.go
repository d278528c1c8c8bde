package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/hotelratings/internal/config"
	"github.com/patric-chuzhbe/hotelratings/internal/db/jsondb"
	"github.com/patric-chuzhbe/hotelratings/internal/db/memorystorage"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

func TestGetAvailableStorageType(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      config.Config
		expected int
	}{
		{name: "memory by default", cfg: config.Config{}, expected: models.StorageTypeMemory},
		{name: "file", cfg: config.Config{DBFileName: "db.json"}, expected: models.StorageTypeFile},
		{name: "postgres over file", cfg: config.Config{DBFileName: "db.json", DatabaseDSN: "postgres://x"}, expected: models.StorageTypePostgresql},
		{name: "mongo over everything", cfg: config.Config{DBFileName: "db.json", DatabaseDSN: "postgres://x", MongoURI: "mongodb://x"}, expected: models.StorageTypeMongo},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, getAvailableStorageType(&testCase.cfg))
		})
	}
}

func TestGetStorageByType(t *testing.T) {
	db, err := getStorageByType(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &memorystorage.MemoryStorage{}, db)

	db, err = getStorageByType(&config.Config{DBFileName: filepath.Join(t.TempDir(), "db.json")})
	require.NoError(t, err)
	assert.IsType(t, &jsondb.JSONDB{}, db)
	require.NoError(t, db.Close())
}

func clearServiceEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVER_ADDRESS", "MONGO_URI", "DATABASE_DSN", "FILE_STORAGE_PATH", "CONFIG",
		"ENRICHMENT_MODE", "RATING_SERVICE_URL", "HOTEL_SERVICE_URL",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestNewUserAndRatingServices(t *testing.T) {
	clearServiceEnv(t)

	ratingApp, err := NewRatingService(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)
	assert.Equal(t, DefaultRatingServiceAddr, ratingApp.cfg.RunAddr)
	ratingSrv := httptest.NewServer(ratingApp.Handler())
	defer ratingSrv.Close()

	hotelSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"h-1","name":"Grand","location":"Lisbon","about":""}`))
	}))
	defer hotelSrv.Close()

	t.Setenv("RATING_SERVICE_URL", ratingSrv.URL)
	t.Setenv("HOTEL_SERVICE_URL", hotelSrv.URL)
	userApp, err := NewUserService(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)
	assert.Equal(t, DefaultUserServiceAddr, userApp.cfg.RunAddr)
	userSrv := httptest.NewServer(userApp.Handler())
	defer userSrv.Close()

	var usr models.User
	resp, err := resty.New().R().SetBody(models.CreateUserRequest{Name: "Ann"}).SetResult(&usr).Post(userSrv.URL + "/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = resty.New().R().
		SetBody(models.RatingRequest{UserID: usr.UserID, HotelID: "h-1", Rating: "5"}).
		Post(ratingSrv.URL + "/ratings")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	var view models.UserView
	resp, err = resty.New().R().SetResult(&view).Get(userSrv.URL + "/users/" + usr.UserID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, view.Ratings, 1)
	assert.Equal(t, "Grand", view.Ratings[0].Hotel.Name)

	userApp.Close()
	ratingApp.Close()
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func TestServeShutsDownAndFlushesStorage(t *testing.T) {
	clearServiceEnv(t)
	dbFile := filepath.Join(t.TempDir(), "ratings.json")
	addr := freeAddr(t)
	t.Setenv("SERVER_ADDRESS", addr)
	t.Setenv("FILE_STORAGE_PATH", dbFile)

	ratingApp, err := NewRatingService(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ratingApp.serve(ctx)
	}()

	client := resty.New().SetBaseURL("http://" + addr)
	require.Eventually(t, func() bool {
		resp, err := client.R().Get("/ping")
		return err == nil && resp.StatusCode() == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := client.R().SetBody(models.RatingRequest{UserID: "u-1", HotelID: "h-1", Rating: "4"}).Post("/ratings")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}

	reopened, err := jsondb.New(dbFile)
	require.NoError(t, err)
	ratings, err := reopened.FindAllRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "u-1", ratings[0].UserID)
}
