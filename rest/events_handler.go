package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/prom"
	"github.com/findrandomevents/eventfinder/service"
)

// EventsHandler provides a REST interface to a session's searches and
// events.
type EventsHandler struct {
	http.Handler // router

	service *service.Service
}

func newEventsHandler(service *service.Service) *EventsHandler {
	h := &EventsHandler{
		service: service,
	}

	m := mux.NewRouter()
	m.Handle(
		"/search",
		prom.InstrumentHandler("EventSearch", http.HandlerFunc(h.HandleSearch)),
	).Methods("POST", "GET")
	m.Handle(
		"/search/nearby",
		prom.InstrumentHandler("EventSearchNearby", http.HandlerFunc(h.HandleSearchNearby)),
	).Methods("POST", "GET")
	m.Handle(
		"/events",
		prom.InstrumentHandler("EventList", http.HandlerFunc(h.HandleList)),
	).Methods("GET")
	m.Handle(
		"/events/{id}",
		prom.InstrumentHandler("EventGet", http.HandlerFunc(h.HandleGet)),
	).Methods("GET")

	h.Handler = m

	return h
}

// HandleSearch wraps Service.EventSearch in a REST interface. The locality
// is read from the q parameter or from a JSON body.
func (h *EventsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		req := eventfinder.SearchRequest{Query: r.FormValue("q")}
		if req.Query == "" && r.Method == "POST" {
			if err := decodeBody(r, &req); err != nil {
				return nil, err
			}
		}

		return h.service.EventSearch(ctx, sessionID(ctx), req)
	})
}

// HandleSearchNearby wraps Service.EventSearchNearby in a REST interface.
// The position is read from the lat and lng parameters or from a JSON body.
func (h *EventsHandler) HandleSearchNearby(w http.ResponseWriter, r *http.Request) {
	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		var req eventfinder.NearbyRequest

		lat, lng := r.FormValue("lat"), r.FormValue("lng")
		switch {
		case lat != "" || lng != "":
			var err error
			if req.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
				return nil, errors.E(errors.Invalid, errors.Errorf("bad lat: %v", err))
			}
			if req.Lng, err = strconv.ParseFloat(lng, 64); err != nil {
				return nil, errors.E(errors.Invalid, errors.Errorf("bad lng: %v", err))
			}
		case r.Method == "POST":
			if err := decodeBody(r, &req); err != nil {
				return nil, err
			}
		default:
			return nil, errors.E(errors.Invalid, "missing lat and lng")
		}

		return h.service.EventSearchNearby(ctx, sessionID(ctx), req)
	})
}

// HandleList wraps Service.EventList in a REST interface
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.EventList(ctx, sessionID(ctx))
	})
}

// HandleGet wraps Service.EventGet in a REST interface
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.EventGet(ctx, sessionID(ctx), eventfinder.EventID(eventID))
	})
}
