// Package memorystorage is the default store: the JSON document store without
// a backing file, so nothing survives a restart.
package memorystorage

import (
	"github.com/patric-chuzhbe/hotelratings/internal/db/jsondb"
)

type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	db, err := jsondb.New("")
	if err != nil {
		return nil, err
	}

	return &MemoryStorage{JSONDB: db}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
