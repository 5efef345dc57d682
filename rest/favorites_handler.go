package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/prom"
	"github.com/findrandomevents/eventfinder/service"
)

// FavoritesHandler provides a REST interface to a session's favorites.
type FavoritesHandler struct {
	http.Handler // router

	service *service.Service
}

func newFavoritesHandler(service *service.Service) *FavoritesHandler {
	h := &FavoritesHandler{
		service: service,
	}

	m := mux.NewRouter()
	m.Handle(
		"/favorites",
		prom.InstrumentHandler("FavoriteList", http.HandlerFunc(h.HandleList)),
	).Methods("GET")
	m.Handle(
		"/favorites/{id}",
		prom.InstrumentHandler("FavoriteAdd", http.HandlerFunc(h.HandleAdd)),
	).Methods("PUT")
	m.Handle(
		"/favorites/{id}",
		prom.InstrumentHandler("FavoriteRemove", http.HandlerFunc(h.HandleRemove)),
	).Methods("DELETE")
	m.Handle(
		"/favorites/{id}/toggle",
		prom.InstrumentHandler("FavoriteToggle", http.HandlerFunc(h.HandleToggle)),
	).Methods("POST")

	h.Handler = m

	return h
}

// HandleList wraps Service.FavoriteList in a REST interface
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.FavoriteList(ctx, sessionID(ctx))
	})
}

// HandleAdd wraps Service.FavoriteAdd in a REST interface
func (h *FavoritesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.FavoriteAdd(ctx, sessionID(ctx), eventfinder.EventID(eventID))
	})
}

// HandleRemove wraps Service.FavoriteRemove in a REST interface
func (h *FavoritesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.FavoriteRemove(ctx, sessionID(ctx), eventfinder.EventID(eventID))
	})
}

// HandleToggle wraps Service.FavoriteToggle in a REST interface
func (h *FavoritesHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	handleJSON(w, r, func(ctx context.Context) (interface{}, error) {
		return h.service.FavoriteToggle(ctx, sessionID(ctx), eventfinder.EventID(eventID))
	})
}
