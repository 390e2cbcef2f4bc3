package app

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizforge-service/internal/domain"
)

// broadcastLimit caps the leaderboard snapshot pushed to live subscribers.
const broadcastLimit = 10

// SessionRepository abstracts how the session collection is stored (JSON
// file, Redis, in-memory). Implementations persist the whole collection as
// one unit; every operation is a full load or a full overwrite.
type SessionRepository interface {
	LoadAll() ([]domain.UserSession, error)
	SaveAll(sessions []domain.UserSession) error
	FindByUsername(username string) (domain.UserSession, error)
	DeleteByUsername(username string) (bool, error)
	AllUsernames() ([]string, error)
}

// ScoreService owns the read-modify-write transaction that records one
// answer, plus leaderboard ranking and session lookups. A single mutex
// serializes the load-mutate-save cycle so concurrent submissions cannot
// silently discard each other's updates.
type ScoreService struct {
	sessions SessionRepository
	now      func() time.Time

	mu sync.Mutex
	sf singleflight.Group

	subMu       sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewScoreService(sessions SessionRepository) *ScoreService {
	return NewScoreServiceWithClock(sessions, time.Now)
}

// NewScoreServiceWithClock allows deterministic timestamps in tests.
func NewScoreServiceWithClock(sessions SessionRepository, now func() time.Time) *ScoreService {
	return &ScoreService{
		sessions:    sessions,
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// RecordAnswer appends one answer to the user's session, creating the
// session on first use, and persists the updated collection. The question ID
// is not validated against the dataset; recording an answer for an unknown
// question is accepted.
func (s *ScoreService) RecordAnswer(username string, questionID int, correct bool) (domain.UserSession, error) {
	if strings.TrimSpace(username) == "" {
		return domain.UserSession{}, domain.ErrInvalidUsername
	}

	s.mu.Lock()
	session, err := s.recordLocked(username, questionID, correct)
	s.mu.Unlock()
	if err != nil {
		return domain.UserSession{}, err
	}

	s.broadcast()
	return session, nil
}

func (s *ScoreService) recordLocked(username string, questionID int, correct bool) (domain.UserSession, error) {
	sessions, err := s.sessions.LoadAll()
	if err != nil {
		return domain.UserSession{}, fmt.Errorf("record answer: %w", err)
	}

	now := s.now().UTC()
	idx := -1
	for i := range sessions {
		if sessions[i].Username == username {
			idx = i
			break
		}
	}
	if idx == -1 {
		sessions = append(sessions, domain.UserSession{
			Username:  username,
			Answers:   []domain.AnswerRecord{},
			CreatedAt: now,
		})
		idx = len(sessions) - 1
	}

	session := &sessions[idx]
	session.Answers = append(session.Answers, domain.AnswerRecord{
		QuestionID: questionID,
		Correct:    correct,
		Timestamp:  now,
	})
	session.TotalAttempts++
	if correct {
		session.Score++
	}
	session.Accuracy = domain.Accuracy(session.Score, session.TotalAttempts)
	session.LastUpdated = now

	if err := s.sessions.SaveAll(sessions); err != nil {
		return domain.UserSession{}, fmt.Errorf("record answer: %w", err)
	}
	return *session, nil
}

// GetUserScore returns the session for a username, or domain.ErrUserNotFound.
func (s *ScoreService) GetUserScore(username string) (domain.UserSession, error) {
	return s.sessions.FindByUsername(username)
}

// GetLeaderboard ranks all sessions descending by score, with accuracy as
// the tiebreaker. Sessions tied on both keep their insertion order.
// Concurrent calls with the same limit share one collection load.
func (s *ScoreService) GetLeaderboard(limit int) (domain.Leaderboard, error) {
	v, err, _ := s.sf.Do(fmt.Sprintf("leaderboard:%d", limit), func() (interface{}, error) {
		return s.buildLeaderboard(limit)
	})
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return v.(domain.Leaderboard), nil
}

func (s *ScoreService) buildLeaderboard(limit int) (domain.Leaderboard, error) {
	sessions, err := s.sessions.LoadAll()
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("leaderboard: %w", err)
	}

	ranked := make([]domain.UserSession, len(sessions))
	copy(ranked, sessions)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Accuracy > ranked[j].Accuracy
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for _, session := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Username:      session.Username,
			Score:         session.Score,
			Accuracy:      session.Accuracy,
			TotalAttempts: session.TotalAttempts,
		})
	}

	return domain.Leaderboard{
		TotalUsers: len(sessions),
		Entries:    entries,
		UpdatedAt:  s.now().UTC(),
	}, nil
}

// ResetUserSession removes a user's session entirely. It reports whether a
// session existed.
func (s *ScoreService) ResetUserSession(username string) (bool, error) {
	s.mu.Lock()
	removed, err := s.sessions.DeleteByUsername(username)
	s.mu.Unlock()
	if err != nil {
		return false, fmt.Errorf("reset session: %w", err)
	}
	if removed {
		s.broadcast()
	}
	return removed, nil
}

// GetAllUsers lists every username with a session, in insertion order.
func (s *ScoreService) GetAllUsers() ([]string, error) {
	return s.sessions.AllUsernames()
}

// Subscribe returns a channel receiving a leaderboard snapshot immediately
// and after every scoring mutation. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *ScoreService) Subscribe() (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.buildLeaderboard(broadcastLimit)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	ch <- initial

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel, nil
}

func (s *ScoreService) broadcast() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subscribers) == 0 {
		return
	}

	lb, err := s.buildLeaderboard(broadcastLimit)
	if err != nil {
		return
	}
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale snapshot so a slow reader never blocks scoring.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
