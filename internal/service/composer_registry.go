package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrSessionNotFound = errors.New("composer session not found")

// ComposerSession is one open scheduling composer owned by a single user.
type ComposerSession struct {
	ID           string
	OwnerID      string
	CustomerID   string
	AssignmentID string
	Scheduler    *Scheduler

	lastUsed time.Time
}

// ComposerRegistry holds the open composers. Sessions are private to their
// owner; another user's lookup behaves as if the session did not exist.
type ComposerRegistry struct {
	mu       sync.Mutex
	sessions map[string]*ComposerSession
	now      func() time.Time
}

func NewComposerRegistry() *ComposerRegistry {
	return &ComposerRegistry{
		sessions: make(map[string]*ComposerSession),
		now:      time.Now,
	}
}

func (r *ComposerRegistry) Add(ownerID, customerID, assignmentID string, scheduler *Scheduler) (*ComposerSession, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	session := &ComposerSession{
		ID:           id,
		OwnerID:      ownerID,
		CustomerID:   customerID,
		AssignmentID: assignmentID,
		Scheduler:    scheduler,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	session.lastUsed = r.now()
	r.sessions[id] = session
	return session, nil
}

func (r *ComposerRegistry) Get(id, ownerID string) (*ComposerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok || session.OwnerID != ownerID {
		return nil, ErrSessionNotFound
	}
	session.lastUsed = r.now()
	return session, nil
}

// Remove closes the session's composer and forgets it.
func (r *ComposerRegistry) Remove(id, ownerID string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok || session.OwnerID != ownerID {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	session.Scheduler.Close()
	return nil
}

// Sweep closes sessions idle for longer than maxIdle and reports how many
// were removed.
func (r *ComposerRegistry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	cutoff := r.now().Add(-maxIdle)
	var stale []*ComposerSession
	for id, session := range r.sessions {
		if session.lastUsed.Before(cutoff) {
			stale = append(stale, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range stale {
		session.Scheduler.Close()
	}
	if len(stale) > 0 {
		slog.Info("closed idle composers", slog.Int("count", len(stale)))
	}
	return len(stale)
}

func (r *ComposerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
