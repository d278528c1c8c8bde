package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

type ratingService interface {
	Create(ctx context.Context, req models.RatingRequest) (models.Rating, error)
	GetRatings(ctx context.Context) ([]models.Rating, error)
	GetRatingByUserID(ctx context.Context, userID string) ([]models.Rating, error)
	GetRatingByHotelID(ctx context.Context, hotelID string) ([]models.Rating, error)
	UpdateRating(ctx context.Context, ratingID string, req models.RatingRequest) (models.Rating, error)
	DeleteRating(ctx context.Context, ratingID string) error
	Ping(ctx context.Context) error
}

// RatingRouter holds the handlers of the rating service.
type RatingRouter struct {
	ratings ratingService
}

// NewRatingRouter mounts the rating endpoints. The singular /ratings/user,
// /ratings/hotel and /rating paths are kept as aliases.
func NewRatingRouter(ratings ratingService) *chi.Mux {
	myRouter := RatingRouter{ratings: ratings}

	router := newMux()
	router.Get(`/ping`, myRouter.GetPing)
	router.Route(`/ratings`, func(r chi.Router) {
		r.Post(`/`, myRouter.PostRatings)
		r.Get(`/`, myRouter.GetRatings)
		r.Get(`/users/{userId}`, myRouter.GetRatingsByUser)
		r.Get(`/user/{userId}`, myRouter.GetRatingsByUser)
		r.Get(`/hotels/{hotelId}`, myRouter.GetRatingsByHotel)
		r.Get(`/hotel/{hotelId}`, myRouter.GetRatingsByHotel)
		r.Put(`/{ratingId}`, myRouter.PutRating)
		r.Delete(`/{ratingId}`, myRouter.DeleteRating)
	})
	router.Delete(`/rating/{ratingId}`, myRouter.DeleteRating)

	return router
}

func (router *RatingRouter) PostRatings(response http.ResponseWriter, request *http.Request) {
	var req models.RatingRequest
	if err := decodeJSON(request, &req); err != nil {
		http.Error(response, "malformed rating JSON", http.StatusBadRequest)
		return
	}

	rating, err := router.ratings.Create(request.Context(), req)
	if err != nil {
		writeError(response, request, err)
		return
	}

	writeJSON(response, http.StatusCreated, rating)
}

func (router *RatingRouter) GetRatings(response http.ResponseWriter, request *http.Request) {
	ratings, err := router.ratings.GetRatings(request.Context())
	router.writeRatings(response, request, ratings, err)
}

func (router *RatingRouter) GetRatingsByUser(response http.ResponseWriter, request *http.Request) {
	ratings, err := router.ratings.GetRatingByUserID(request.Context(), chi.URLParam(request, "userId"))
	router.writeRatings(response, request, ratings, err)
}

func (router *RatingRouter) GetRatingsByHotel(response http.ResponseWriter, request *http.Request) {
	ratings, err := router.ratings.GetRatingByHotelID(request.Context(), chi.URLParam(request, "hotelId"))
	router.writeRatings(response, request, ratings, err)
}

// PutRating replaces the score and feedback of an existing rating.
func (router *RatingRouter) PutRating(response http.ResponseWriter, request *http.Request) {
	var req models.RatingRequest
	if err := decodeJSON(request, &req); err != nil {
		http.Error(response, "malformed rating JSON", http.StatusBadRequest)
		return
	}

	rating, err := router.ratings.UpdateRating(request.Context(), chi.URLParam(request, "ratingId"), req)
	if err != nil {
		writeError(response, request, err)
		return
	}

	writeJSON(response, http.StatusOK, rating)
}

func (router *RatingRouter) DeleteRating(response http.ResponseWriter, request *http.Request) {
	if err := router.ratings.DeleteRating(request.Context(), chi.URLParam(request, "ratingId")); err != nil {
		writeError(response, request, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

func (router *RatingRouter) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := router.ratings.Ping(request.Context()); err != nil {
		writeError(response, request, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// writeRatings always answers a list with a JSON array, never null.
func (router *RatingRouter) writeRatings(
	response http.ResponseWriter,
	request *http.Request,
	ratings []models.Rating,
	err error,
) {
	if err != nil {
		writeError(response, request, err)
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}

	writeJSON(response, http.StatusOK, ratings)
}
