package client

import (
	"context"

	"github.com/findrandomevents/eventfinder"
)

// SessionsClient provides access to the eventfinder /sessions endpoint
type SessionsClient struct {
	client *Client
}

// Create starts a new session. The returned id scopes every other call.
func (c *SessionsClient) Create(ctx context.Context) (eventfinder.Session, error) {
	var resp eventfinder.Session
	if err := c.client.doJSON(ctx, "POST", "/sessions", nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Delete ends a session.
func (c *SessionsClient) Delete(ctx context.Context, id eventfinder.SessionID) error {
	return c.client.doJSON(ctx, "DELETE", "/sessions/"+string(id), nil, nil)
}
