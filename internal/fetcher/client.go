// Package fetcher issues listings API requests, one city at a time.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"primesquare/internal/config"
	"primesquare/internal/models"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// excerptLimit caps how much of an error response body a FetchError carries.
const excerptLimit = 512

// FetchError reports a failed listings request. StatusCode is zero when the
// request never produced a response.
type FetchError struct {
	StatusCode int
	Excerpt    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("listings request: status %d: %s", e.StatusCode, e.Excerpt)
	}

	return fmt.Sprintf("listings request: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches raw listing documents from the listings API.
type Client struct {
	api    config.APIConfig
	client *http.Client
}

// NewClient creates a client with the given credentials and timeout.
func NewClient(api config.APIConfig, timeout time.Duration) *Client {
	return &Client{
		api: api,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchListings issues one GET for the city's listings and returns the raw
// response body. Exactly one attempt, no retry; any failure is a *FetchError.
func (c *Client) FetchListings(ctx context.Context, city models.City) (body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api.BaseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.api.Key)

	query := url.Values{}
	query.Set("city", city.Name)
	query.Set("state", city.State)
	req.URL.RawQuery = query.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, excerptLimit))

		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Excerpt:    string(excerpt),
			Err:        fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode),
		}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return body, nil
}
