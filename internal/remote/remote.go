// Package remote holds the HTTP clients the user service uses to reach the
// rating and hotel services. Every failure surfaces as a *RemoteCallError.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/patric-chuzhbe/hotelratings/internal/logger"
)

const defaultTimeout = 5 * time.Second

// RemoteCallError reports a failed call to another service: either the request
// never completed (Err is set) or the service answered with a non-2xx status.
type RemoteCallError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", e.Service, e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: unexpected status %d", e.Service, e.Method, e.URL, e.StatusCode)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var callErr *RemoteCallError
	return errors.As(err, &callErr) && callErr.StatusCode == http.StatusNotFound
}

type clientOptions struct {
	timeout        time.Duration
	circuitBreaker bool
	httpClient     *http.Client
}

// Option configures a remote client.
type Option func(*clientOptions)

// WithTimeout bounds every single call. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(options *clientOptions) {
		if timeout > 0 {
			options.timeout = timeout
		}
	}
}

// WithCircuitBreaker makes calls fail fast once the remote service keeps failing.
func WithCircuitBreaker(enabled bool) Option {
	return func(options *clientOptions) {
		options.circuitBreaker = enabled
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(options *clientOptions) {
		options.httpClient = httpClient
	}
}

type client struct {
	service string
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func newClient(service, baseURL string, optionsProto ...Option) *client {
	options := &clientOptions{timeout: defaultTimeout}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	var httpClient *resty.Client
	if options.httpClient != nil {
		httpClient = resty.NewWithClient(options.httpClient)
	} else {
		httpClient = resty.New()
	}
	httpClient.
		SetBaseURL(baseURL).
		SetTimeout(options.timeout).
		SetHeader("Accept", "application/json")

	c := &client{
		service: service,
		http:    httpClient,
	}
	if options.circuitBreaker {
		c.breaker = newBreaker(service)
	}

	return c
}

func newBreaker(service string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        service,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// A 4xx answer means the service is up; only transport errors and 5xx trip the breaker.
		// A call the caller cancelled says nothing about the service.
		IsSuccessful: func(err error) bool {
			if errors.Is(err, context.Canceled) {
				return true
			}
			var callErr *RemoteCallError
			if errors.As(err, &callErr) && callErr.Err == nil {
				return callErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warnw("circuit breaker state changed", "service", name, "from", from.String(), "to", to.String())
		},
	})
}

type call struct {
	method     string
	path       string
	pathParams map[string]string
	body       interface{}
	result     interface{}
}

// resolvedPath fills the path template the way resty does, for error reports.
func (cl call) resolvedPath() string {
	path := cl.path
	for name, value := range cl.pathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return path
}

func (c *client) do(ctx context.Context, cl call) error {
	if c.breaker == nil {
		return c.send(ctx, cl)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.send(ctx, cl)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &RemoteCallError{
			Service: c.service,
			Method:  cl.method,
			URL:     cl.resolvedPath(),
			Err:     err,
		}
	}

	return err
}

func (c *client) send(ctx context.Context, cl call) error {
	start := time.Now()

	req := c.http.R().SetContext(ctx).SetPathParams(cl.pathParams)
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		logger.Log.Debugw("remote call failed", "service", c.service, "method", cl.method, "path", cl.resolvedPath(), "error", err)
		return &RemoteCallError{
			Service: c.service,
			Method:  cl.method,
			URL:     cl.resolvedPath(),
			Err:     err,
		}
	}

	logger.Log.Debugw(
		"remote call",
		"service", c.service,
		"method", cl.method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
	)

	if !resp.IsSuccess() {
		return &RemoteCallError{
			Service:    c.service,
			Method:     cl.method,
			URL:        resp.Request.URL,
			StatusCode: resp.StatusCode(),
		}
	}

	if cl.result == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), cl.result); err != nil {
		return &RemoteCallError{
			Service:    c.service,
			Method:     cl.method,
			URL:        resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("decoding response body: %w", err),
		}
	}

	return nil
}
