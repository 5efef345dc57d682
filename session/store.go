package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/prom"
)

// DefaultTTL is how long a session may go unused before it is expired.
const DefaultTTL = 2 * time.Hour

// Store holds the live sessions in memory. Nothing survives a restart.
type Store struct {
	// TTL is the idle time after which Expire drops a session.
	TTL time.Duration
	// Now mocks out time.Now for testing.
	Now func() time.Time

	mu       sync.RWMutex
	sessions map[eventfinder.SessionID]*Session

	cron *cron.Cron
}

// NewStore creates an empty Store.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		TTL:      ttl,
		Now:      time.Now,
		sessions: map[eventfinder.SessionID]*Session{},
	}
}

func (st *Store) now() time.Time {
	if st.Now != nil {
		return st.Now()
	}
	return time.Now()
}

// Create starts a new session with a random id.
func (st *Store) Create() *Session {
	s := newSession(eventfinder.SessionID(uuid.NewString()), st.now())

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	prom.SetSessions(n)
	return s
}

// Get looks up a session and marks it as used. The session is touched
// under the store lock so Expire can't drop it in between.
func (st *Store) Get(id eventfinder.SessionID) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if ok {
		s.touch(st.now())
	}
	return s, ok
}

// Delete drops a session, canceling its running search. It reports whether
// the session existed.
func (st *Store) Delete(id eventfinder.SessionID) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if ok {
		s.abort()
		prom.SetSessions(n)
	}
	return ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Expire drops every session that hasn't been used for TTL and returns how
// many were dropped.
func (st *Store) Expire() int {
	cutoff := st.now().Add(-st.TTL)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	for _, s := range expired {
		s.abort()
	}
	prom.SetSessions(n)
	return len(expired)
}

// StartExpiry runs Expire on the cron schedule spec (eg. "@every 10m") until
// StopExpiry is called. A job started earlier is stopped first.
func (st *Store) StartExpiry(spec string, logger *zap.Logger) error {
	c := cron.New(cron.WithLogger(cronLogger{logger.Sugar()}))
	_, err := c.AddFunc(spec, func() {
		if n := st.Expire(); n > 0 {
			logger.Info("expired idle sessions", zap.Int("count", n), zap.Int("live", st.Len()))
		}
	})
	if err != nil {
		return err
	}

	st.StopExpiry()

	st.mu.Lock()
	st.cron = c
	st.mu.Unlock()

	c.Start()
	return nil
}

// StopExpiry stops the expiry job and waits for a running Expire to finish.
func (st *Store) StopExpiry() {
	st.mu.Lock()
	c := st.cron
	st.cron = nil
	st.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// cronLogger sends cron's logs to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
