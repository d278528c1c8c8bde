package remote

import (
	"context"
	"net/http"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

const ratingServiceName = "rating-service"

// RatingClient talks to the rating service: the ratings-of-a-user query used
// by the aggregation, plus the write pass-through.
type RatingClient struct {
	c *client
}

func NewRatingClient(baseURL string, options ...Option) *RatingClient {
	return &RatingClient{c: newClient(ratingServiceName, baseURL, options...)}
}

// GetRatingsByUserID calls GET /ratings/users/{userId}. A JSON null body is
// returned as an empty slice.
func (r *RatingClient) GetRatingsByUserID(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/ratings/users/{userId}",
		pathParams: map[string]string{"userId": userID},
		result:     &ratings,
	})
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}

	return ratings, nil
}

func (r *RatingClient) CreateRating(ctx context.Context, rating models.RatingRequest) (models.Rating, error) {
	var created models.Rating
	err := r.c.do(ctx, call{
		method: http.MethodPost,
		path:   "/ratings",
		body:   rating,
		result: &created,
	})
	if err != nil {
		return models.Rating{}, err
	}

	return created, nil
}

func (r *RatingClient) UpdateRating(ctx context.Context, ratingID string, rating models.RatingRequest) (models.Rating, error) {
	var updated models.Rating
	err := r.c.do(ctx, call{
		method:     http.MethodPut,
		path:       "/ratings/{ratingId}",
		pathParams: map[string]string{"ratingId": ratingID},
		body:       rating,
		result:     &updated,
	})
	if err != nil {
		return models.Rating{}, err
	}

	return updated, nil
}

func (r *RatingClient) DeleteRating(ctx context.Context, ratingID string) error {
	return r.c.do(ctx, call{
		method:     http.MethodDelete,
		path:       "/ratings/{ratingId}",
		pathParams: map[string]string{"ratingId": ratingID},
	})
}
