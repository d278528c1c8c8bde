// Package jsondb is a document store kept in memory and persisted to a JSON
// file on Close. Collections keep insertion order, which is their native order.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/hotelratings/internal/db/storage"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

type CacheStruct struct {
	Users   []models.User
	Ratings []models.Rating
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": [],
	"Ratings": []
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	if _, err = file.Write(jsonData); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

// New opens fileName, creating an empty database file when it does not exist.
// An empty fileName gives a purely in-memory database.
func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{
		fileName: fileName,
		Cache: CacheStruct{
			Users:   []models.User{},
			Ratings: []models.Rating{},
		},
	}
	if fileName == "" {
		return db, nil
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(db.fileName, &db.Cache); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the collections to the database file.
func (db *JSONDB) Close() error {
	if db.fileName == "" {
		return nil
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}

func (db *JSONDB) SaveUser(ctx context.Context, usr models.User) (models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.Users = append(db.Cache.Users, usr)

	return usr, nil
}

func (db *JSONDB) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.UserID == userID {
			return usr, true, nil
		}
	}

	return models.User{}, false, nil
}

func (db *JSONDB) FindAllUsers(ctx context.Context) ([]models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]models.User, len(db.Cache.Users))
	copy(result, db.Cache.Users)

	return result, nil
}

func (db *JSONDB) SaveRating(ctx context.Context, rating models.Rating) (models.Rating, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rating.RatingID = uuid.New().String()
	db.Cache.Ratings = append(db.Cache.Ratings, rating)

	return rating, nil
}

func (db *JSONDB) FindAllRatings(ctx context.Context) ([]models.Rating, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]models.Rating, len(db.Cache.Ratings))
	copy(result, db.Cache.Ratings)

	return result, nil
}

func (db *JSONDB) FindRatingsByField(ctx context.Context, field, value string) ([]models.Rating, error) {
	var fieldOf func(models.Rating) string
	switch field {
	case storage.FieldUserID:
		fieldOf = func(r models.Rating) string { return r.UserID }
	case storage.FieldHotelID:
		fieldOf = func(r models.Rating) string { return r.HotelID }
	default:
		return nil, fmt.Errorf("unsupported rating field %q", field)
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []models.Rating{}
	for _, rating := range db.Cache.Ratings {
		if fieldOf(rating) == value {
			result = append(result, rating)
		}
	}

	return result, nil
}

func (db *JSONDB) UpdateRating(ctx context.Context, rating models.Rating) (models.Rating, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.Cache.Ratings {
		if db.Cache.Ratings[i].RatingID == rating.RatingID {
			db.Cache.Ratings[i].Rating = rating.Rating
			db.Cache.Ratings[i].Feedback = rating.Feedback
			return db.Cache.Ratings[i], true, nil
		}
	}

	return models.Rating{}, false, nil
}

func (db *JSONDB) DeleteRating(ctx context.Context, ratingID string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.Cache.Ratings {
		if db.Cache.Ratings[i].RatingID == ratingID {
			db.Cache.Ratings = append(db.Cache.Ratings[:i], db.Cache.Ratings[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}
