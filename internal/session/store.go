package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/mensetsu/internal/metrics"
)

// Store holds one Conversation per user id and serialises access to each of them.
type Store struct {
	ttl      time.Duration
	recorder *metrics.Recorder
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	mu       sync.Mutex
	conv     *Conversation
	lastSeen time.Time
	holders  int
}

// NewStore creates a store; a zero ttl keeps conversations for the process lifetime.
func NewStore(ttl time.Duration, recorder *metrics.Recorder) *Store {
	return &Store{
		ttl:      ttl,
		recorder: recorder,
		now:      time.Now,
		entries:  make(map[string]*storeEntry),
	}
}

// Acquire returns the user's conversation, creating it on first use, locked until
// release is called. Calls for the same user are serialised.
func (s *Store) Acquire(userID string) (*Conversation, func()) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &storeEntry{conv: newConversation(userID), lastSeen: s.now()}
		s.entries[userID] = e
		s.recorder.SetSessions(len(s.entries))
		slog.Debug("conversation created", "user_id", userID, "sessions", len(s.entries))
	}
	e.holders++
	s.mu.Unlock()

	e.mu.Lock()
	var once sync.Once
	return e.conv, func() {
		once.Do(func() {
			e.mu.Unlock()
			s.mu.Lock()
			e.holders--
			e.lastSeen = s.now()
			s.mu.Unlock()
		})
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts conversations idle for longer than the ttl and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	evicted := 0
	for userID, e := range s.entries {
		if e.holders > 0 || now.Sub(e.lastSeen) <= s.ttl {
			continue
		}
		delete(s.entries, userID)
		evicted++
	}
	if evicted > 0 {
		s.recorder.SetSessions(len(s.entries))
		slog.Info("evicted idle conversations", "evicted", evicted, "sessions", len(s.entries), "ttl", s.ttl)
	}
	return evicted
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		slog.Info("conversation eviction disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
