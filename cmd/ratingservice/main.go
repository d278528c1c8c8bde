// Command ratingservice stores hotel ratings and answers the by-user and
// by-hotel queries.
package main

import (
	"log"

	"github.com/patric-chuzhbe/hotelratings/internal/app"
)

func main() {
	a, err := app.NewRatingService()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Close()
		log.Fatalf("app run failed: %v", err)
	}
}
