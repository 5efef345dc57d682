package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/findrandomevents/eventfinder"
)

// EventsClient provides access to a session's searches and events
type EventsClient struct {
	client *Client
}

// Search looks for events in the locality named by req.Query.
func (c *EventsClient) Search(ctx context.Context, sid eventfinder.SessionID, req eventfinder.SearchRequest) (eventfinder.SearchReply, error) {
	endpoint := fmt.Sprintf("/sessions/%s/search?q=%s", sid, url.QueryEscape(req.Query))
	var resp eventfinder.SearchReply
	if err := c.client.doJSON(ctx, "POST", endpoint, nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// SearchNearby looks for events around a device position.
func (c *EventsClient) SearchNearby(ctx context.Context, sid eventfinder.SessionID, req eventfinder.NearbyRequest) (eventfinder.SearchReply, error) {
	endpoint := fmt.Sprintf("/sessions/%s/search/nearby", sid)
	var resp eventfinder.SearchReply
	if err := c.client.doJSON(ctx, "POST", endpoint, req, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// List returns the events currently shown in the session.
func (c *EventsClient) List(ctx context.Context, sid eventfinder.SessionID) ([]eventfinder.Event, error) {
	var resp []eventfinder.Event
	if err := c.client.doJSON(ctx, "GET", "/sessions/"+string(sid)+"/events", nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Get retrieves one event from the session's list or favorites.
func (c *EventsClient) Get(ctx context.Context, sid eventfinder.SessionID, id eventfinder.EventID) (eventfinder.Event, error) {
	var resp eventfinder.Event
	if err := c.client.doJSON(ctx, "GET", "/sessions/"+string(sid)+"/events/"+string(id), nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}
