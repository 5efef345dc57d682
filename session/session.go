// Package session keeps the transient per-client state of eventfinder: the
// events currently shown, the favorites, and the bookkeeping that makes the
// newest search win.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/geojson"
)

// Session is one client's state. It's safe for concurrent use.
//
// Every search runs under a sequence number handed out by Begin. Only the
// search holding the latest number may replace the event list, so a slow
// response can't overwrite the results of a search issued after it.
type Session struct {
	ID        eventfinder.SessionID
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time

	seq    uint64
	cancel context.CancelFunc

	query  string
	events []eventfinder.Event

	favorites map[eventfinder.EventID]eventfinder.Event
	favOrder  []eventfinder.EventID

	// last resolved device position, for nearby searches
	origin   *geojson.Point
	locality string
}

func newSession(id eventfinder.SessionID, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		lastUsed:  now,
		events:    []eventfinder.Event{},
		favorites: map[eventfinder.EventID]eventfinder.Event{},
	}
}

// Begin starts a new search. The previous search, if it's still running, has
// its context canceled. The returned context must be used for the new
// search and the returned sequence number passed to Apply and Finish.
func (s *Session) Begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	ctx, s.cancel = context.WithCancel(ctx)
	return ctx, s.seq
}

// Apply replaces the event list with events if seq is still the latest
// search. It reports whether the list was replaced.
func (s *Session) Apply(seq uint64, query string, events []eventfinder.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}
	s.query = query
	s.events = append([]eventfinder.Event{}, events...)
	return true
}

// Finish releases the resources of search seq. It must be called once for
// every Begin.
func (s *Session) Finish(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq == s.seq && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Latest returns the sequence number of the most recent search.
func (s *Session) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// abort cancels the running search, if any.
func (s *Session) abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Events returns the query and events of the last applied search.
func (s *Session) Events() (string, []eventfinder.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, append([]eventfinder.Event{}, s.events...)
}

// Event finds an event in the current list or, failing that, in the
// favorites, so a favorite stays viewable after the list is replaced.
func (s *Session) Event(id eventfinder.EventID) (eventfinder.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	e, ok := s.favorites[id]
	return e, ok
}

// Favorites returns the favorite events in the order they were added.
func (s *Session) Favorites() []eventfinder.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := make([]eventfinder.Event, 0, len(s.favOrder))
	for _, id := range s.favOrder {
		favs = append(favs, s.favorites[id])
	}
	return favs
}

// IsFavorite reports whether id is a favorite.
func (s *Session) IsFavorite(id eventfinder.EventID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[id]
	return ok
}

// AddFavorite marks the event with id as a favorite. The event has to be in
// the current list or already be a favorite; ok is false otherwise.
func (s *Session) AddFavorite(id eventfinder.EventID) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFavorite(id)
}

func (s *Session) addFavorite(id eventfinder.EventID) bool {
	if _, ok := s.favorites[id]; ok {
		return true
	}
	for _, e := range s.events {
		if e.ID == id {
			s.favorites[id] = e
			s.favOrder = append(s.favOrder, id)
			return true
		}
	}
	return false
}

// RemoveFavorite unmarks id. It reports whether id was a favorite.
func (s *Session) RemoveFavorite(id eventfinder.EventID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFavorite(id)
}

func (s *Session) removeFavorite(id eventfinder.EventID) bool {
	if _, ok := s.favorites[id]; !ok {
		return false
	}
	delete(s.favorites, id)
	for i, fid := range s.favOrder {
		if fid == id {
			s.favOrder = append(s.favOrder[:i], s.favOrder[i+1:]...)
			break
		}
	}
	return true
}

// ToggleFavorite flips the favorite status of id and returns the new status.
// ok is false if id is neither a favorite nor in the current list.
func (s *Session) ToggleFavorite(id eventfinder.EventID) (favorite, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeFavorite(id) {
		return false, true
	}
	if s.addFavorite(id) {
		return true, true
	}
	return false, false
}

// Locality returns the locality last resolved for a position within minMoveM
// meters of p.
func (s *Session) Locality(p geojson.Point, minMoveM float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.origin == nil || s.locality == "" {
		return "", false
	}
	if s.origin.Distance(p) >= minMoveM {
		return "", false
	}
	return s.locality, true
}

// SetLocality remembers that p resolved to locality.
func (s *Session) SetLocality(p geojson.Point, locality string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.origin = &p
	s.locality = locality
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
