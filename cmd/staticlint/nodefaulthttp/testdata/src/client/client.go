package client

import (
	"net/http"
	"net/url"
	"time"
)

func fetch(u string) (*http.Response, error) {
	return http.Get(u) // want "use a client with an explicit timeout instead of http.Get"
}

func head(u string) (*http.Response, error) {
	return http.DefaultClient.Head(u) // want "use a client with an explicit timeout instead of http.DefaultClient"
}

func submit(u string) (*http.Response, error) {
	return http.PostForm(u, url.Values{}) // want "use a client with an explicit timeout instead of http.PostForm"
}

func fetchWithTimeout(u string) (*http.Response, error) {
	c := &http.Client{Timeout: time.Second}
	return c.Get(u)
}
