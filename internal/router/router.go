// Package router exposes the user and rating services over HTTP with chi.
package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/patric-chuzhbe/hotelratings/internal/gzippedhttp"
	"github.com/patric-chuzhbe/hotelratings/internal/logger"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

func newMux() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		middleware.Recoverer,
		gzippedhttp.UngzipJSONRequest,
		gzippedhttp.GzipResponse,
	)

	return router
}

func writeJSON(response http.ResponseWriter, status int, body interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugln("error while encoding the response body:", err)
	}
}

// writeError answers a missing resource with the 404 envelope. Every other
// fault is logged and answered with a bare 500.
func writeError(response http.ResponseWriter, request *http.Request, err error) {
	var notFound *models.ResourceNotFoundError
	if errors.As(err, &notFound) {
		writeJSON(response, http.StatusNotFound, models.NewNotFoundResponse(notFound.Message))
		return
	}
	if errors.Is(err, models.ErrResourceNotFound) {
		writeJSON(response, http.StatusNotFound, models.NewNotFoundResponse(err.Error()))
		return
	}

	logger.Log.Errorw("request failed",
		"method", request.Method,
		"uri", request.RequestURI,
		"error", err,
	)
	response.WriteHeader(http.StatusInternalServerError)
}

func decodeJSON(request *http.Request, dst interface{}) error {
	return json.NewDecoder(request.Body).Decode(dst)
}
