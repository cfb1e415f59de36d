package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = time.Hour

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager maps opaque ids to sessions for shells that serve many users.
// Idle sessions are dropped lazily whenever the manager is accessed.
type Manager struct {
	mu       sync.Mutex
	orch     *Orchestrator
	idle     time.Duration
	sessions map[string]*entry
}

// NewManager returns a manager creating sessions from orch. idle <= 0
// selects DefaultIdleTimeout.
func NewManager(orch *Orchestrator, idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{
		orch:     orch,
		idle:     idle,
		sessions: make(map[string]*entry),
	}
}

// Get returns the session for id and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.orch.now()
	m.evictLocked(now)

	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// Create starts a new session and returns its id.
func (m *Manager) Create() (string, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.orch.now()
	m.evictLocked(now)

	id := uuid.NewString()
	s := m.orch.NewSession()
	m.sessions[id] = &entry{session: s, lastSeen: now}
	m.orch.metrics.SessionStarted()
	return id, s
}

// GetOrCreate returns the session for id, creating a new one (with a new
// id) when id is unknown or expired.
func (m *Manager) GetOrCreate(id string) (string, *Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return id, s, false
		}
	}
	newID, s := m.Create()
	return newID, s, true
}

// Delete drops a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.orch.metrics.SessionEnded()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.orch.now())
	return len(m.sessions)
}

func (m *Manager) evictLocked(now time.Time) {
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.idle {
			delete(m.sessions, id)
			m.orch.metrics.SessionEnded()
			m.orch.log.Debug().Str("session", id).Msg("idle session evicted")
		}
	}
}
