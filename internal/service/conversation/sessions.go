package conversation

import (
	"sync"
	"time"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// SessionStore keys in-flight sessions by chat ID. Sessions are independent
// of each other, so a single map lock is enough; within one session the
// transport delivers events sequentially.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*domain.Session),
	}
}

// Reset discards any in-progress session for the chat and installs a fresh
// one in AwaitingLanguage.
func (s *SessionStore) Reset(chatID, userID int64, displayName string) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &domain.Session{
		ChatID:      chatID,
		UserID:      userID,
		DisplayName: displayName,
		State:       domain.StateAwaitingLanguage,
		StartedAt:   time.Now(),
	}
	s.sessions[chatID] = sess
	return sess
}

// Get returns the session for the chat, or nil when no flow is in progress.
func (s *SessionStore) Get(chatID int64) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}

// Delete drops the session; called on cancel and after the terminal step.
func (s *SessionStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len reports the number of in-flight sessions (ops metric).
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
