package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"quizforge-service/internal/domain"
)

// SessionStore persists the whole session collection as a single JSON array
// on disk. Every operation performs a full load or a full overwrite; there is
// no cached state between calls. Writes go through a temp file and an atomic
// rename so a crashed writer can never leave a half-written collection
// behind. The store mutex serializes individual operations; callers that
// need a load-mutate-save transaction must hold their own lock around it.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// LoadAll reads the full session collection. A missing backing file is
// initialized to an empty collection and persisted before returning.
// Unparseable content is treated as an empty collection; the condition is
// logged because it usually means data was lost, not that no users exist.
func (s *SessionStore) LoadAll() ([]domain.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// SaveAll overwrites the backing file with the full collection.
func (s *SessionStore) SaveAll(sessions []domain.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(sessions)
}

// FindByUsername returns the session for an exact, case-sensitive username
// match, or domain.ErrUserNotFound.
func (s *SessionStore) FindByUsername(username string) (domain.UserSession, error) {
	sessions, err := s.LoadAll()
	if err != nil {
		return domain.UserSession{}, err
	}
	for _, session := range sessions {
		if session.Username == username {
			return session, nil
		}
	}
	return domain.UserSession{}, domain.ErrUserNotFound
}

// DeleteByUsername removes the matching session and persists the collection.
// It reports whether a removal occurred.
func (s *SessionStore) DeleteByUsername(username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked()
	if err != nil {
		return false, err
	}

	kept := sessions[:0]
	for _, session := range sessions {
		if session.Username != username {
			kept = append(kept, session)
		}
	}
	if len(kept) == len(sessions) {
		return false, nil
	}
	if err := s.saveLocked(kept); err != nil {
		return false, err
	}
	return true, nil
}

// AllUsernames lists usernames in the insertion order of the collection.
func (s *SessionStore) AllUsernames() ([]string, error) {
	sessions, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sessions))
	for _, session := range sessions {
		names = append(names, session.Username)
	}
	return names, nil
}

func (s *SessionStore) loadLocked() ([]domain.UserSession, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.saveLocked(nil); err != nil {
			return nil, err
		}
		return []domain.UserSession{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}

	var sessions []domain.UserSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  s.path,
			"error": err,
		}).Warn("session file is not valid JSON, treating as empty collection")
		return []domain.UserSession{}, nil
	}
	if sessions == nil {
		sessions = []domain.UserSession{}
	}
	return sessions, nil
}

func (s *SessionStore) saveLocked(sessions []domain.UserSession) error {
	if sessions == nil {
		sessions = []domain.UserSession{}
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write sessions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
