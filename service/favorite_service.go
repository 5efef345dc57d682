package service

import (
	"context"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
)

// FavoriteList lists the session's favorite events in the order they were
// added.
func (s *Service) FavoriteList(ctx context.Context, id eventfinder.SessionID) ([]eventfinder.Event, error) {
	const op errors.Op = "Service.FavoriteList"

	sess, err := s.session(op, id)
	if err != nil {
		return nil, err
	}
	return sess.Favorites(), nil
}

// FavoriteAdd marks a listed event as a favorite. Adding a favorite again is
// not an error.
func (s *Service) FavoriteAdd(ctx context.Context, id eventfinder.SessionID, eventID eventfinder.EventID) (eventfinder.FavoriteReply, error) {
	const op errors.Op = "Service.FavoriteAdd"

	reply := eventfinder.FavoriteReply{ID: eventID}

	sess, err := s.session(op, id)
	if err != nil {
		return reply, err
	}
	if !sess.AddFavorite(eventID) {
		return reply, errors.E(op, id, errors.NotExist, "event "+string(eventID))
	}

	reply.Favorite = true
	return reply, nil
}

// FavoriteRemove unmarks a favorite. Removing an event that isn't a favorite
// is not an error.
func (s *Service) FavoriteRemove(ctx context.Context, id eventfinder.SessionID, eventID eventfinder.EventID) (eventfinder.FavoriteReply, error) {
	const op errors.Op = "Service.FavoriteRemove"

	reply := eventfinder.FavoriteReply{ID: eventID}

	sess, err := s.session(op, id)
	if err != nil {
		return reply, err
	}
	sess.RemoveFavorite(eventID)

	return reply, nil
}

// FavoriteToggle flips an event's favorite status.
func (s *Service) FavoriteToggle(ctx context.Context, id eventfinder.SessionID, eventID eventfinder.EventID) (eventfinder.FavoriteReply, error) {
	const op errors.Op = "Service.FavoriteToggle"

	reply := eventfinder.FavoriteReply{ID: eventID}

	sess, err := s.session(op, id)
	if err != nil {
		return reply, err
	}

	favorite, ok := sess.ToggleFavorite(eventID)
	if !ok {
		return reply, errors.E(op, id, errors.NotExist, "event "+string(eventID))
	}

	reply.Favorite = favorite
	return reply, nil
}
