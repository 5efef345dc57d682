package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/errors"
	"github.com/findrandomevents/eventfinder/log"
	"github.com/findrandomevents/eventfinder/session"
)

// SessionCreate starts a new client session.
func (s *Service) SessionCreate(ctx context.Context) (eventfinder.Session, error) {
	sess := s.Sessions.Create()

	log.FromContext(ctx).Info("session created", zap.String("session", string(sess.ID)))

	return eventfinder.Session{ID: sess.ID, CreatedAt: sess.CreatedAt}, nil
}

// SessionDelete ends a session, dropping its results and favorites.
func (s *Service) SessionDelete(ctx context.Context, id eventfinder.SessionID) error {
	const op errors.Op = "Service.SessionDelete"

	if !s.Sessions.Delete(id) {
		return errors.E(op, id, errors.NotExist)
	}
	return nil
}

func (s *Service) session(op errors.Op, id eventfinder.SessionID) (*session.Session, error) {
	if id == "" {
		return nil, errors.E(op, errors.Invalid, "missing session id")
	}
	sess, ok := s.Sessions.Get(id)
	if !ok {
		return nil, errors.E(op, id, errors.NotExist, "unknown session")
	}
	return sess, nil
}
