package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type Manager struct {
	sessions map[string]*Session
	mu       sync.Mutex
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// SetClock replaces the manager's time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Manager) CreateSession(userID string, duration time.Duration) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	session := &Session{
		ID:        generateSessionID(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
	m.sessions[session.ID] = session
	return session
}

// GetSession returns a live session; expired sessions are reported as missing.
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists || session.Expired(m.now()) {
		return nil, false
	}
	return session, true
}

// FindByUser returns the newest live session for userID.
func (m *Manager) FindByUser(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *Session
	now := m.now()
	for _, s := range m.sessions {
		if s.UserID != userID || s.Expired(now) {
			continue
		}
		if found == nil || s.CreatedAt.After(found.CreatedAt) {
			found = s
		}
	}
	return found, found != nil
}

// Active lists live sessions ordered by creation time.
func (m *Manager) Active() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if !s.Expired(now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
}

// CleanupExpiredSessions drops expired sessions and returns their IDs.
func (m *Manager) CleanupExpiredSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var removed []string
	for id, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func generateSessionID() string {
	return uuid.NewString()
}
