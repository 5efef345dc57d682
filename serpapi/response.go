package serpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Error is an error returned by SerpApi. SerpApi reports problems as a JSON
// object with a single "error" field.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return fmt.Sprintf("serpapi: %s (status %d)", e.Message, e.Status)
}

func parseError(status int, body []byte) Error {
	resp := Error{Status: status}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Message == "" {
		resp.Message = http.StatusText(status)
	}
	return resp
}

// IsRateLimited returns true if err is, or wraps, SerpApi refusing a search
// because the account ran out of searches or is sending them too fast.
func IsRateLimited(err error) bool {
	for err != nil {
		if e, ok := err.(Error); ok {
			return e.Status == http.StatusTooManyRequests
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// searchResponse is the part of a SerpApi search.json response we read.
// Results are kept raw so that one bad element can't fail the whole batch.
type searchResponse struct {
	SearchMetadata json.RawMessage `json:"search_metadata"`
	EventsResults  json.RawMessage `json:"events_results"`
	Error          optString       `json:"error"`
}

type searchMetadata struct {
	ID     optString `json:"id"`
	Status optString `json:"status"`
}

// wireEvent is one element of events_results. Every field may be missing,
// null or of an unexpected type. A field that can't be read counts as
// missing and the rest of the event is kept.
type wireEvent struct {
	Title            optString   `json:"title"`
	Address          optLines    `json:"address"`
	Date             optDate     `json:"date"`
	Link             optString   `json:"link"`
	Description      optString   `json:"description"`
	Thumbnail        optString   `json:"thumbnail"`
	Image            optString   `json:"image"`
	Venue            optVenue    `json:"venue"`
	TicketInfo       optTickets  `json:"ticket_info"`
	EventLocationMap optLocation `json:"event_location_map"`
}

type wireDate struct {
	StartDate optString `json:"start_date"`
	When      optString `json:"when"`
}

type wireVenue struct {
	Name    optString `json:"name"`
	Rating  optFloat  `json:"rating"`
	Reviews optInt    `json:"reviews"`
	Link    optString `json:"link"`
}

type wireTicket struct {
	Source   optString `json:"source"`
	Link     optString `json:"link"`
	LinkType optString `json:"link_type"`
}

type wireLocation struct {
	Image       optString `json:"image"`
	Link        optString `json:"link"`
	SerpAPILink optString `json:"serpapi_link"`
}

// The opt types below never fail to decode. Their UnmarshalJSON methods
// leave the value nil when the JSON doesn't fit.

// optString holds a string. Numbers and booleans are kept as their text.
type optString struct{ v *string }

func (o *optString) UnmarshalJSON(b []byte) error {
	o.v = nil
	switch t := bytes.TrimSpace(b); {
	case len(t) == 0 || string(t) == "null":
	case t[0] == '"':
		var s string
		if json.Unmarshal(t, &s) == nil {
			o.v = &s
		}
	case t[0] == 't' || t[0] == 'f' || t[0] == '-' || (t[0] >= '0' && t[0] <= '9'):
		s := string(t)
		o.v = &s
	}
	return nil
}

// optFloat holds a number. Numeric strings like "4.5" are accepted.
type optFloat struct{ v *float64 }

func (o *optFloat) UnmarshalJSON(b []byte) error {
	o.v = nil
	if f, ok := number(b); ok {
		o.v = &f
	}
	return nil
}

// optInt holds a count. Numeric strings like "1,234" are accepted.
type optInt struct{ v *int }

func (o *optInt) UnmarshalJSON(b []byte) error {
	o.v = nil
	if f, ok := number(b); ok && f >= math.MinInt32 && f <= math.MaxInt32 {
		n := int(f)
		o.v = &n
	}
	return nil
}

// number reads a JSON number or a string holding one, with thousands
// separators removed.
func number(b []byte) (float64, bool) {
	var f float64
	if json.Unmarshal(b, &f) == nil && string(bytes.TrimSpace(b)) != "null" {
		return f, true
	}
	var s string
	if json.Unmarshal(b, &s) != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// optLines holds address lines. A single string is taken as one line and
// elements that aren't strings are dropped.
type optLines struct{ v []string }

func (o *optLines) UnmarshalJSON(b []byte) error {
	o.v = nil

	var one optString
	one.UnmarshalJSON(b)
	if one.v != nil {
		o.v = []string{*one.v}
		return nil
	}

	var raws []json.RawMessage
	if json.Unmarshal(b, &raws) != nil {
		return nil
	}
	for _, raw := range raws {
		var line optString
		line.UnmarshalJSON(raw)
		if line.v != nil {
			o.v = append(o.v, *line.v)
		}
	}
	return nil
}

type optDate struct{ v *wireDate }

func (o *optDate) UnmarshalJSON(b []byte) error {
	o.v = new(wireDate)
	if !decodeObject(b, o.v) {
		o.v = nil
	}
	return nil
}

type optVenue struct{ v *wireVenue }

func (o *optVenue) UnmarshalJSON(b []byte) error {
	o.v = new(wireVenue)
	if !decodeObject(b, o.v) {
		o.v = nil
	}
	return nil
}

type optLocation struct{ v *wireLocation }

func (o *optLocation) UnmarshalJSON(b []byte) error {
	o.v = new(wireLocation)
	if !decodeObject(b, o.v) {
		o.v = nil
	}
	return nil
}

// optTickets holds the ticket options. Elements that aren't objects are
// dropped.
type optTickets struct{ v []wireTicket }

func (o *optTickets) UnmarshalJSON(b []byte) error {
	o.v = nil

	var raws []json.RawMessage
	if json.Unmarshal(b, &raws) != nil {
		return nil
	}
	for _, raw := range raws {
		var t wireTicket
		if decodeObject(raw, &t) {
			o.v = append(o.v, t)
		}
	}
	return nil
}

// decodeObject decodes raw into v if raw is a JSON object.
func decodeObject(raw []byte, v interface{}) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || t[0] != '{' {
		return false
	}
	return json.Unmarshal(t, v) == nil
}
