package remote

import (
	"context"
	"net/http"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

const hotelServiceName = "hotel-service"

// HotelClient fetches hotels from the hotel service.
type HotelClient struct {
	c *client
}

func NewHotelClient(baseURL string, options ...Option) *HotelClient {
	return &HotelClient{c: newClient(hotelServiceName, baseURL, options...)}
}

// GetHotel calls GET /hotels/{hotelId}.
func (h *HotelClient) GetHotel(ctx context.Context, hotelID string) (models.Hotel, error) {
	var hotel models.Hotel
	err := h.c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/hotels/{hotelId}",
		pathParams: map[string]string{"hotelId": hotelID},
		result:     &hotel,
	})
	if err != nil {
		return models.Hotel{}, err
	}

	return hotel, nil
}
