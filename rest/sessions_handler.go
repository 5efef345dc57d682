package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/prom"
	"github.com/findrandomevents/eventfinder/service"
)

// SessionsHandler provides a REST interface to eventfinder's sessions. It
// handles session creation and deletion itself and hands requests for a
// session's events and favorites to EventsHandler and FavoritesHandler.
type SessionsHandler struct {
	EventsHandler    *EventsHandler
	FavoritesHandler *FavoritesHandler

	router  http.Handler
	service *service.Service
}

func newSessionsHandler(service *service.Service) *SessionsHandler {
	h := &SessionsHandler{
		EventsHandler:    newEventsHandler(service),
		FavoritesHandler: newFavoritesHandler(service),
		service:          service,
	}

	m := mux.NewRouter()
	m.Handle(
		"/",
		prom.InstrumentHandler("SessionCreate", http.HandlerFunc(h.HandleCreate)),
	).Methods("POST")
	m.Handle(
		"/{sid}",
		prom.InstrumentHandler("SessionDelete", http.HandlerFunc(h.HandleDelete)),
	).Methods("DELETE")
	h.router = m

	return h
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid, tail := ShiftPath(r.URL.Path)
	if sid == "" || tail == "/" {
		h.router.ServeHTTP(w, r)
		return
	}

	r = withSession(r, eventfinder.SessionID(sid))
	r.URL.Path = tail

	head, _ := ShiftPath(tail)
	switch head {
	case "search", "events":
		h.EventsHandler.ServeHTTP(w, r)
	case "favorites":
		h.FavoritesHandler.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleCreate wraps Service.SessionCreate in a REST interface
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.SessionCreate(ctx)
	})
}

// HandleDelete wraps Service.SessionDelete in a REST interface
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sid := mux.Vars(r)["sid"]

	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		if err := h.service.SessionDelete(ctx, eventfinder.SessionID(sid)); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	})
}
