package models

import (
	"errors"
	"net/http"
	"strings"
)

// User is the persisted user document.
type User struct {
	UserID string `json:"userId" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	About  string `json:"about" bson:"about"`
}

// Rating is the persisted rating document. RatingID is assigned by the store.
type Rating struct {
	RatingID string `json:"ratingId" bson:"_id"`
	UserID   string `json:"userId" bson:"userId"`
	HotelID  string `json:"hotelId" bson:"hotelId"`
	Rating   string `json:"rating" bson:"rating"`
	Feedback string `json:"feedback" bson:"feedback"`
}

// Hotel is owned by the external hotel service and is never stored here.
type Hotel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	About    string `json:"about"`
}

// RatingView is a rating enriched with the hotel it refers to.
// It exists only in responses.
type RatingView struct {
	Rating
	Hotel Hotel `json:"hotel"`
}

// UserView is the composite returned by the single-user fetch.
type UserView struct {
	User
	Ratings []RatingView `json:"ratings"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	About string `json:"about"`
}

type RatingRequest struct {
	UserID   string `json:"userId"`
	HotelID  string `json:"hotelId"`
	Rating   string `json:"rating"`
	Feedback string `json:"feedback"`
}

// APIResponse is the structured error envelope.
type APIResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// NewNotFoundResponse builds the envelope written for a ResourceNotFoundError.
func NewNotFoundResponse(message string) APIResponse {
	return APIResponse{
		Message: message,
		Success: false,
		Status:  StatusName(http.StatusNotFound),
	}
}

// StatusName renders an HTTP status the way the envelope expects, e.g. NOT_FOUND.
func StatusName(code int) string {
	return strings.ToUpper(statusNameReplacer.Replace(http.StatusText(code)))
}

var statusNameReplacer = strings.NewReplacer(" ", "_", "-", "_")

const (
	StorageTypeUnknown = iota
	StorageTypeMongo
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

const (
	EnrichmentModeSequential = "sequential"
	EnrichmentModeConcurrent = "concurrent"
)

// ErrResourceNotFound is matched by every ResourceNotFoundError.
var ErrResourceNotFound = errors.New("resource not found on server")

// ResourceNotFoundError carries the client-facing message of a missing resource.
type ResourceNotFoundError struct {
	Message string
}

func NewResourceNotFoundError(message string) *ResourceNotFoundError {
	if message == "" {
		message = "Resource not found on server"
	}
	return &ResourceNotFoundError{Message: message}
}

func (e *ResourceNotFoundError) Error() string {
	return e.Message
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}
