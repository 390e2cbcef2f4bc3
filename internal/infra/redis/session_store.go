package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"quizforge-service/internal/domain"
)

const sessionsKey = "quizforge:sessions"

// SessionStore keeps the session collection in Redis under a single key,
// serialized exactly like the file-backed store (one JSON array, insertion
// order preserved). Useful when several instances need to share the
// collection without a shared filesystem.
type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) LoadAll() ([]domain.UserSession, error) {
	ctx := context.Background()
	raw, err := s.client.Get(ctx, sessionsKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		if err := s.SaveAll(nil); err != nil {
			return nil, err
		}
		return []domain.UserSession{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sessions from redis: %w", err)
	}

	var sessions []domain.UserSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		logrus.WithField("error", err).Warn("session key holds invalid JSON, treating as empty collection")
		return []domain.UserSession{}, nil
	}
	if sessions == nil {
		sessions = []domain.UserSession{}
	}
	return sessions, nil
}

func (s *SessionStore) SaveAll(sessions []domain.UserSession) error {
	if sessions == nil {
		sessions = []domain.UserSession{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := s.client.Set(context.Background(), sessionsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save sessions to redis: %w", err)
	}
	return nil
}

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

func (s *SessionStore) DeleteByUsername(username string) (bool, error) {
	sessions, err := s.LoadAll()
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
	if err := s.SaveAll(kept); err != nil {
		return false, err
	}
	return true, nil
}

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
