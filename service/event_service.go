package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/geojson"
	"github.com/findrandomevents/eventfinder/log"
	"github.com/findrandomevents/eventfinder/prom"
	"github.com/findrandomevents/eventfinder/serpapi"
	"github.com/findrandomevents/eventfinder/session"
)

// EventSearch searches for events in the locality named by req.Query and
// shows them in the session, unless a newer search was issued on the session
// in the meantime. On failure the session's list is left as it was.
func (s *Service) EventSearch(ctx context.Context, id eventfinder.SessionID, req eventfinder.SearchRequest) (eventfinder.SearchReply, error) {
	const op errors.Op = "Service.EventSearch"

	reply := eventfinder.SearchReply{Result: eventfinder.SearchError, Events: []eventfinder.Event{}}

	sess, err := s.session(op, id)
	if err != nil {
		return reply, err
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return reply, errors.E(op, id, errors.Invalid, "empty query")
	}

	return s.search(ctx, op, sess, query)
}

// EventSearchNearby resolves the device position in req to a locality and
// searches there. The locality of the previous nearby search is reused while
// the device stays within MinMoveMeters of it. The search takes its place in
// the session's order before the position is resolved, so a search issued
// while resolving supersedes it.
func (s *Service) EventSearchNearby(ctx context.Context, id eventfinder.SessionID, req eventfinder.NearbyRequest) (eventfinder.SearchReply, error) {
	const op errors.Op = "Service.EventSearchNearby"

	reply := eventfinder.SearchReply{Result: eventfinder.SearchError, Events: []eventfinder.Event{}}

	sess, err := s.session(op, id)
	if err != nil {
		return reply, err
	}

	p := geojson.Point{Lat: req.Lat, Lng: req.Lng}
	if !p.Valid() {
		return reply, errors.E(op, id, errors.Invalid, "coordinates out of range")
	}

	locality, cached := sess.Locality(p, s.minMove())
	if !cached && s.Resolver == nil {
		return reply, errors.E(op, id, errors.Internal, "no locality resolver configured")
	}

	searchCtx, seq := sess.Begin(ctx)
	defer sess.Finish(seq)
	reply.Seq = seq

	if !cached {
		locality, err = s.Resolver.Locality(searchCtx, p)
		if err == nil {
			sess.SetLocality(p, locality)
		}
		if sess.Latest() != seq {
			reply.Result = eventfinder.SearchStale
			prom.ObserveSearch(string(reply.Result))
			log.FromContext(ctx).Debug("nearby search superseded while resolving", zap.Uint64("seq", seq))
			return reply, nil
		}
		if err != nil {
			prom.ObserveSearch(string(reply.Result))
			log.FromContext(ctx).Warn("resolve locality failed", zap.Error(err))
			return reply, errors.E(op, id, err)
		}
	}

	return s.run(ctx, searchCtx, op, sess, seq, locality)
}

// search runs one search in sess under a fresh sequence number.
func (s *Service) search(ctx context.Context, op errors.Op, sess *session.Session, query string) (eventfinder.SearchReply, error) {
	searchCtx, seq := sess.Begin(ctx)
	defer sess.Finish(seq)

	return s.run(ctx, searchCtx, op, sess, seq, query)
}

// run queries the provider with searchCtx and applies the results to sess
// if seq is still the session's latest search.
func (s *Service) run(ctx, searchCtx context.Context, op errors.Op, sess *session.Session, seq uint64, query string) (eventfinder.SearchReply, error) {
	logger := log.FromContext(ctx).With(zap.String("query", query))

	reply := eventfinder.SearchReply{
		Result: eventfinder.SearchError,
		Seq:    seq,
		Query:  query,
		Events: []eventfinder.Event{},
	}

	resp, err := s.Searcher.Search(searchCtx, query)
	if err != nil {
		if sess.Latest() != seq {
			// Canceled because a newer search started. Not a failure.
			reply.Result = eventfinder.SearchStale
			prom.ObserveSearch(string(reply.Result))
			logger.Debug("search superseded", zap.Uint64("seq", seq))
			return reply, nil
		}

		prom.ObserveSearch(string(reply.Result))
		switch {
		case serpapi.IsRateLimited(err):
			logger.Error("search provider rate limit reached", zap.Error(err))
		case errors.Is(errors.Canceled, err):
			logger.Debug("search canceled", zap.Error(err))
		default:
			logger.Warn("search failed", zap.Error(err))
		}
		return reply, errors.E(op, sess.ID, err)
	}

	reply.Events = resp.Events
	switch {
	case !sess.Apply(seq, query, resp.Events):
		reply.Result = eventfinder.SearchStale
		logger.Debug("discarded stale search results", zap.Uint64("seq", seq), zap.Uint64("latest", sess.Latest()))
	case len(resp.Events) == 0:
		reply.Result = eventfinder.SearchNoResults
		logger.Info("no events found")
	default:
		reply.Result = eventfinder.SearchOK
		logger.Info("loaded events", zap.Int("count", len(resp.Events)))
	}
	prom.ObserveSearch(string(reply.Result))

	return reply, nil
}

// EventList returns the events of the session's last applied search.
func (s *Service) EventList(ctx context.Context, id eventfinder.SessionID) ([]eventfinder.Event, error) {
	const op errors.Op = "Service.EventList"

	sess, err := s.session(op, id)
	if err != nil {
		return nil, err
	}

	_, events := sess.Events()
	return events, nil
}

// EventGet returns the details of an event that's listed in the session or
// is one of its favorites.
func (s *Service) EventGet(ctx context.Context, id eventfinder.SessionID, eventID eventfinder.EventID) (eventfinder.Event, error) {
	const op errors.Op = "Service.EventGet"

	sess, err := s.session(op, id)
	if err != nil {
		return eventfinder.Event{}, err
	}

	event, ok := sess.Event(eventID)
	if !ok {
		return event, errors.E(op, id, errors.NotExist, "event "+string(eventID))
	}
	return event, nil
}
