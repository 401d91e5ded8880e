package telegram

import (
	"sync"
)

// Session is what the bot remembers about a chat between updates.
type Session struct {
	ChatID int64
	UserID string
	// Listing holds the story ids shown by the last /contos, in display order.
	Listing []string
}

// StateManager registers every chat the bot has seen so the daily loop can
// reach readers without them sending a message first.
type StateManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStateManager() *StateManager {
	return &StateManager{
		sessions: make(map[int64]*Session),
	}
}

// Touch registers the chat and returns a copy of its session.
func (m *StateManager) Touch(chatID int64, userID string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[chatID]
	if !ok {
		session = &Session{ChatID: chatID}
		m.sessions[chatID] = session
	}
	session.UserID = userID
	return copySession(session)
}

func (m *StateManager) Get(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[chatID]
	if !ok {
		return Session{ChatID: chatID}, false
	}
	return copySession(session), true
}

func (m *StateManager) SetListing(chatID int64, ids []string) {
	m.mu.Lock()
	if session, ok := m.sessions[chatID]; ok {
		session.Listing = append([]string(nil), ids...)
	}
	m.mu.Unlock()
}

// Snapshot returns every registered session.
func (m *StateManager) Snapshot() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		out = append(out, copySession(session))
	}
	return out
}

func copySession(s *Session) Session {
	out := *s
	out.Listing = append([]string(nil), s.Listing...)
	return out
}
