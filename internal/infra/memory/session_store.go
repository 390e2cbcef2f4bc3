package memory

import (
	"sync"

	"quizforge-service/internal/domain"
)

// SessionStore keeps the session collection in process memory. It mirrors
// the file-backed store's contract (full collection reads and overwrites,
// insertion order preserved) and is used in tests and demos where
// durability is not needed.
type SessionStore struct {
	mu       sync.Mutex
	sessions []domain.UserSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: []domain.UserSession{}}
}

func (s *SessionStore) LoadAll() ([]domain.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserSession, len(s.sessions))
	copy(out, s.sessions)
	return out, nil
}

func (s *SessionStore) SaveAll(sessions []domain.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make([]domain.UserSession, len(sessions))
	copy(s.sessions, sessions)
	return nil
}

func (s *SessionStore) FindByUsername(username string) (domain.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.Username == username {
			return session, nil
		}
	}
	return domain.UserSession{}, domain.ErrUserNotFound
}

func (s *SessionStore) DeleteByUsername(username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sessions[:0]
	removed := false
	for _, session := range s.sessions {
		if session.Username == username {
			removed = true
			continue
		}
		kept = append(kept, session)
	}
	s.sessions = kept
	return removed, nil
}

func (s *SessionStore) AllUsernames() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.sessions))
	for _, session := range s.sessions {
		names = append(names, session.Username)
	}
	return names, nil
}
