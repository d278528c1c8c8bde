// Command userservice serves user profiles and the composite user view that
// combines a user with their hotel ratings.
package main

import (
	"log"

	"github.com/patric-chuzhbe/hotelratings/internal/app"
)

func main() {
	a, err := app.NewUserService()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Close()
		log.Fatalf("app run failed: %v", err)
	}
}
