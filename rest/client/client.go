// Package client is a Go client for eventfinder's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/findrandomevents/eventfinder/errors"
)

// Client provides a client to eventfinder's REST API.
//
// Don't construct a Client directly. Use New() instead.
type Client struct {
	// HTTP is the underlying HTTP client used send requests.
	HTTP *http.Client
	// BaseURL is the HTTP endpoint for the REST API. Can be overridden for tests.
	// It defaults to http://localhost:8080
	BaseURL string

	Sessions  *SessionsClient
	Events    *EventsClient
	Favorites *FavoritesClient
}

// New constructs a new Client
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &Client{
		HTTP:    http.DefaultClient,
		BaseURL: baseURL,
	}

	client.Sessions = &SessionsClient{client}
	client.Events = &EventsClient{client}
	client.Favorites = &FavoritesClient{client}

	return client
}

func (c Client) doJSON(ctx context.Context, method, path string, req interface{}, resp interface{}) error {
	var reqBody io.Reader
	if req != nil {
		reqJS, err := json.Marshal(req)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(reqJS)
	}

	r, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	r = r.WithContext(ctx)
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := c.HTTP.Do(r)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if status := w.StatusCode; status != http.StatusOK {
		var resp errors.Response
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			return errors.Errorf("status %d: %v", status, err)
		}
		if resp.Status == 0 {
			resp.Status = status
		}
		return resp.ToError()
	}

	if resp != nil {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			return err
		}
	}

	return nil
}
