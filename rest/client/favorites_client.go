package client

import (
	"context"

	"github.com/findrandomevents/eventfinder"
)

// FavoritesClient provides access to a session's favorites
type FavoritesClient struct {
	client *Client
}

// List returns the session's favorite events in the order they were added.
func (c *FavoritesClient) List(ctx context.Context, sid eventfinder.SessionID) ([]eventfinder.Event, error) {
	var resp []eventfinder.Event
	if err := c.client.doJSON(ctx, "GET", favoritesPath(sid, ""), nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Add marks an event as favorite.
func (c *FavoritesClient) Add(ctx context.Context, sid eventfinder.SessionID, id eventfinder.EventID) (eventfinder.FavoriteReply, error) {
	var resp eventfinder.FavoriteReply
	err := c.client.doJSON(ctx, "PUT", favoritesPath(sid, id), nil, &resp)
	return resp, err
}

// Remove unmarks an event.
func (c *FavoritesClient) Remove(ctx context.Context, sid eventfinder.SessionID, id eventfinder.EventID) (eventfinder.FavoriteReply, error) {
	var resp eventfinder.FavoriteReply
	err := c.client.doJSON(ctx, "DELETE", favoritesPath(sid, id), nil, &resp)
	return resp, err
}

// Toggle flips an event's favorite status.
func (c *FavoritesClient) Toggle(ctx context.Context, sid eventfinder.SessionID, id eventfinder.EventID) (eventfinder.FavoriteReply, error) {
	var resp eventfinder.FavoriteReply
	err := c.client.doJSON(ctx, "POST", favoritesPath(sid, id)+"/toggle", nil, &resp)
	return resp, err
}

func favoritesPath(sid eventfinder.SessionID, id eventfinder.EventID) string {
	p := "/sessions/" + string(sid) + "/favorites"
	if id != "" {
		p += "/" + string(id)
	}
	return p
}
