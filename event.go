package eventfinder

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EventID is a stable identifier derived from an Event's content. SerpApi
// doesn't assign ids to event results, so it's computed by NewEventID.
type EventID string

// Event describes one entry from the Google Events results returned by SerpApi.
type Event struct {
	ID EventID `json:"id"`

	// These fields are extracted from the SerpApi events_results elements
	Title       string            `json:"title"`
	Address     []string          `json:"address"`
	Date        EventDate         `json:"date"`
	Link        *string           `json:"link,omitempty"`
	Description *string           `json:"description,omitempty"`
	Thumbnail   *string           `json:"thumbnail,omitempty"`
	Image       *string           `json:"image,omitempty"`
	Venue       *Venue            `json:"venue,omitempty"`
	TicketInfo  []TicketInfo      `json:"ticketInfo"`
	LocationMap *EventLocationMap `json:"eventLocationMap,omitempty"`
}

// EventDate holds the date information SerpApi gives for an event. StartDate
// is a short form like "Dec 7", When is the display text, eg.
// "Sat, Dec 7, 8 – 11 PM".
type EventDate struct {
	StartDate *string `json:"startDate,omitempty"`
	When      string  `json:"when"`
}

// Venue is the place hosting an event, as rated on Google.
type Venue struct {
	Name    *string  `json:"name,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
	Reviews *int     `json:"reviews,omitempty"`
	Link    *string  `json:"link,omitempty"`
}

// TicketInfo is a place to buy tickets. LinkType is "tickets" for the
// official seller and "more info" for everything else.
type TicketInfo struct {
	Source   *string `json:"source,omitempty"`
	Link     *string `json:"link,omitempty"`
	LinkType *string `json:"linkType,omitempty"`
}

// EventLocationMap points at a static map of the event's location.
type EventLocationMap struct {
	Image       *string `json:"image,omitempty"`
	Link        *string `json:"link,omitempty"`
	SerpAPILink *string `json:"serpapiLink,omitempty"`
}

// NewEventID computes the id for an event with the given title, link and
// display date. Two results with the same three values are the same event.
func NewEventID(title string, link *string, when string) EventID {
	var l string
	if link != nil {
		l = *link
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{title, l, when}, "\x1f")))
	return EventID(hex.EncodeToString(sum[:16]))
}

// Placeholders substituted for fields missing from a search result.
const (
	NoTitle = "No title"
	NoDate  = "No date"
)
