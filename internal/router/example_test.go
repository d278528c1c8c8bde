package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

func ExampleUserRouter_GetPing() {
	servers, err := setupServers()
	if err != nil {
		panic(err)
	}
	defer servers.Close()

	resp, err := http.Get(servers.users.URL + "/ping")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	fmt.Println("Status Code:", resp.StatusCode)

	// Output:
	// Status Code: 200
}

func ExampleUserRouter_GetUser() {
	servers, err := setupServers()
	if err != nil {
		panic(err)
	}
	defer servers.Close()

	resp, err := http.Post(servers.users.URL+"/users", "application/json", strings.NewReader(`{"name":"Ann"}`))
	if err != nil {
		panic(err)
	}
	var usr models.User
	if err := json.NewDecoder(resp.Body).Decode(&usr); err != nil {
		panic(err)
	}
	resp.Body.Close()

	rating := fmt.Sprintf(`{"userId":%q,"hotelId":"h-1","rating":"5","feedback":"Excellent stay!"}`, usr.UserID)
	resp, err = http.Post(servers.ratings.URL+"/ratings", "application/json", strings.NewReader(rating))
	if err != nil {
		panic(err)
	}
	resp.Body.Close()

	resp, err = http.Get(servers.users.URL + "/users/" + usr.UserID)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var view models.UserView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		panic(err)
	}

	fmt.Println("Status Code:", resp.StatusCode)
	fmt.Println("Name:", view.Name)
	for _, r := range view.Ratings {
		fmt.Printf("%s at %s, %s\n", r.Rating.Rating, r.Hotel.Name, r.Hotel.Location)
	}

	// Output:
	// Status Code: 200
	// Name: Ann
	// 5 at Grand Hotel, Lisbon
}

func ExampleRatingRouter_DeleteRating() {
	servers, err := setupServers()
	if err != nil {
		panic(err)
	}
	defer servers.Close()

	req, err := http.NewRequest(http.MethodDelete, servers.ratings.URL+"/ratings/unknown", nil)
	if err != nil {
		panic(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}

	fmt.Println("Status Code:", resp.StatusCode)
	fmt.Print(string(body))

	// Output:
	// Status Code: 404
	// {"message":"Rating with given id is not found on server: unknown","success":false,"status":"NOT_FOUND"}
}
