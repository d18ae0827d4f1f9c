package session

import (
	"sync"
	"time"

	"github.com/oleg-dixon/appraiser-photo-bot/core/logger"
)

// Store is a concurrency-safe registry of user sessions. Released sessions
// linger for a grace period so a quick follow-up /start cancels the purge
// instead of racing it.
type Store struct {
	mu          sync.RWMutex
	sessions    map[int64]*Session
	purgeTimers map[int64]*time.Timer

	graceDelay time.Duration
	now        func() time.Time
}

// NewStore creates a store. graceDelay is how long a released session's slot
// stays reserved before the delayed purge fires.
func NewStore(graceDelay time.Duration) *Store {
	return &Store{
		sessions:    make(map[int64]*Session),
		purgeTimers: make(map[int64]*time.Timer),
		graceDelay:  graceDelay,
		now:         time.Now,
	}
}

// Start creates a fresh session for the user, replacing any existing one and
// cancelling a pending delayed purge.
func (s *Store) Start(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPurgeLocked(userID)
	now := s.now()
	sess := &Session{Stage: StageTitle, CreatedAt: now, UpdatedAt: now}
	s.sessions[userID] = sess
	logger.Sess.Debug("session.started", "user_id", userID)
	return sess
}

// Update runs fn against the user's session under the lock. It reports false
// without calling fn when no session exists.
func (s *Store) Update(userID int64, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return false
	}
	fn(sess)
	sess.UpdatedAt = s.now()
	return true
}

// View runs fn against a read-locked session. fn must not retain or mutate
// the session.
func (s *Store) View(userID int64, fn func(*Session)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return false
	}
	fn(sess)
	return true
}

// Exists reports whether the user has an active session.
func (s *Store) Exists(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}

// Count returns the number of active sessions and the total photos they hold.
func (s *Store) Count() (sessions, photos int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		photos += len(sess.Photos)
	}
	return len(s.sessions), photos
}

// AppendPhoto adds a photo to the user's session and returns the new count.
// A zero count means no session exists.
func (s *Store) AppendPhoto(userID int64, data []byte) int {
	count := 0
	s.Update(userID, func(sess *Session) {
		sess.Photos = append(sess.Photos, data)
		count = len(sess.Photos)
	})
	return count
}

// ClearPhotos drops the collected photos but keeps the session.
func (s *Store) ClearPhotos(userID int64) {
	s.Update(userID, func(sess *Session) {
		sess.Photos = nil
	})
}

// TakeForBuild snapshots the build parameters and transfers photo ownership
// out of the session, so a concurrent /clear cannot mutate a build in flight.
func (s *Store) TakeForBuild(userID int64) (BuildParams, [][]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return BuildParams{}, nil, false
	}
	params := BuildParams{Title: sess.Title, Rows: sess.Rows, Cols: sess.Cols, Size: sess.Size}
	photos := sess.Photos
	sess.Photos = nil
	return params, photos, true
}

// Release frees the session's photo memory immediately and schedules the
// session record itself for purge after the grace delay. Starting a new
// session before the timer fires cancels the purge.
func (s *Store) Release(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return
	}
	sess.Photos = nil

	s.cancelPurgeLocked(userID)
	s.purgeTimers[userID] = time.AfterFunc(s.graceDelay, func() {
		s.purge(userID)
	})
}

func (s *Store) purge(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.purgeTimers, userID)
	delete(s.sessions, userID)
	logger.Sess.Debug("session.purged", "user_id", userID)
}

// Delete removes the session immediately.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPurgeLocked(userID)
	delete(s.sessions, userID)
}

func (s *Store) cancelPurgeLocked(userID int64) {
	if t, ok := s.purgeTimers[userID]; ok {
		t.Stop()
		delete(s.purgeTimers, userID)
	}
}

// Reap deletes sessions older than maxAge and returns how many were removed.
// Age is counted from creation, not last activity: a dialog is expected to
// finish well within the timeout, so even a busy session goes once its
// creation age runs out.
func (s *Store) Reap(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for userID, sess := range s.sessions {
		if sess.CreatedAt.After(cutoff) {
			continue
		}
		s.cancelPurgeLocked(userID)
		delete(s.sessions, userID)
		removed++
	}
	if removed > 0 {
		logger.Sess.Info("session.reaped", "removed", removed, "max_age", maxAge)
	}
	return removed
}
