package eventfinder

import (
	"time"
)

// SessionID identifies a client session. Sessions hold the state a single
// UI needs between requests: the current results and the favorites.
type SessionID string

// Session is the externally visible description of a session.
type Session struct {
	ID        SessionID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchRequest asks for events in a locality, usually a city name typed in
// by the user.
type SearchRequest struct {
	Query string `json:"q"`
}

// NearbyRequest asks for events around a device's position. The position is
// resolved to a locality before searching.
type NearbyRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchResult describes what happened to a search and whether its events
// were shown.
type SearchResult string

const (
	// SearchOK means events were found and they replaced the session's list.
	SearchOK SearchResult = "ok"
	// SearchNoResults means the provider had no events for the locality. The
	// session's list was emptied.
	SearchNoResults SearchResult = "no-results"
	// SearchStale means a newer search was issued on the same session before
	// this one finished. The session's list was not touched.
	SearchStale SearchResult = "stale"
	// SearchError means the search failed. The session's list was not touched.
	SearchError SearchResult = "error"
)

// SearchReply is returned for SearchRequests and NearbyRequests.
type SearchReply struct {
	Result SearchResult `json:"result"`
	// Seq is the session-local sequence number the search ran under.
	Seq uint64 `json:"seq"`
	// Query is the locality that was searched. For nearby searches this is
	// the resolved locality.
	Query  string  `json:"query"`
	Events []Event `json:"events"`
}

// FavoriteReply reports an event's favorite status after a change.
type FavoriteReply struct {
	ID       EventID `json:"id"`
	Favorite bool    `json:"favorite"`
}
