package serpapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
)

// Parse decodes a search.json response body. A body without events_results
// (or with a null one, or one that isn't a list) is not an error, it yields
// no events. Elements of events_results that aren't event objects are
// dropped and reported in skipped.
func Parse(body []byte) (resp Response, skipped int, err error) {
	const op errors.Op = "serpapi.Parse"

	if len(bytes.TrimSpace(body)) == 0 || isNull(body) {
		return resp, 0, errors.E(op, errors.EmptyBody)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return resp, 0, errors.E(op, errors.Malformed, err)
	}

	var md searchMetadata
	if decodeObject(sr.SearchMetadata, &md) && md.ID.v != nil {
		resp.SearchID = *md.ID.v
	}
	if sr.Error.v != nil {
		resp.Message = *sr.Error.v
	}

	var results []json.RawMessage
	if len(sr.EventsResults) > 0 && json.Unmarshal(sr.EventsResults, &results) != nil {
		results = nil
	}

	resp.Events = make([]eventfinder.Event, 0, len(results))
	for _, raw := range results {
		var w wireEvent
		if !decodeObject(raw, &w) {
			skipped++
			continue
		}
		resp.Events = append(resp.Events, toEvent(w))
	}

	return resp, skipped, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// toEvent maps a decoded result onto an Event. This is the one place where
// placeholders are substituted for missing fields.
func toEvent(w wireEvent) eventfinder.Event {
	e := eventfinder.Event{
		Title:       orDefault(w.Title.v, eventfinder.NoTitle),
		Address:     []string{},
		Date:        eventfinder.EventDate{When: eventfinder.NoDate},
		Link:        opt(w.Link.v),
		Description: opt(w.Description.v),
		Thumbnail:   opt(w.Thumbnail.v),
		Image:       opt(w.Image.v),
		TicketInfo:  []eventfinder.TicketInfo{},
	}

	for _, line := range w.Address.v {
		if strings.TrimSpace(line) != "" {
			e.Address = append(e.Address, line)
		}
	}

	if d := w.Date.v; d != nil {
		e.Date.StartDate = opt(d.StartDate.v)
		e.Date.When = orDefault(d.When.v, eventfinder.NoDate)
	}

	if v := w.Venue.v; v != nil {
		e.Venue = &eventfinder.Venue{
			Name:    opt(v.Name.v),
			Rating:  v.Rating.v,
			Reviews: v.Reviews.v,
			Link:    opt(v.Link.v),
		}
	}

	for _, t := range w.TicketInfo.v {
		e.TicketInfo = append(e.TicketInfo, eventfinder.TicketInfo{
			Source:   opt(t.Source.v),
			Link:     opt(t.Link.v),
			LinkType: opt(t.LinkType.v),
		})
	}

	if m := w.EventLocationMap.v; m != nil {
		e.LocationMap = &eventfinder.EventLocationMap{
			Image:       opt(m.Image.v),
			Link:        opt(m.Link.v),
			SerpAPILink: opt(m.SerpAPILink.v),
		}
	}

	e.ID = eventfinder.NewEventID(e.Title, e.Link, e.Date.When)
	return e
}

// opt treats blank strings like missing ones.
func opt(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func orDefault(s *string, def string) string {
	if s = opt(s); s == nil {
		return def
	}
	return *s
}
