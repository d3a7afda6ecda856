package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kavia-common/tic-tac-toe-classic/internal/bot"
)

// Manager owns every live session, keyed by id. Sessions are created on
// demand and evicted once they sit idle past the grace period.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	strategy bot.Strategy
	delay    time.Duration
	idleTTL  time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session registry. delay is the pause before computer
// moves, idleTTL the grace period before an untouched session is evicted.
func NewManager(strategy bot.Strategy, delay, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		strategy: strategy,
		delay:    delay,
		idleTTL:  idleTTL,
		done:     make(chan struct{}),
	}
}

// Create registers a new session and returns it.
func (m *Manager) Create(mode Mode) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	s := New(id, mode, m.strategy, m.delay)
	m.sessions[id] = s
	slog.Info("session created", "session.id", id, "session.mode", string(mode))
	return s
}

// Get returns the session with the given id, if it is still live.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with the given id, creating it in mode
// when no such session exists. Used by the websocket entry point, where a
// client may present an id minted on a previous visit.
func (m *Manager) GetOrCreate(id string, mode Mode) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	if id == "" {
		id = uuid.New().String()
	}
	s := New(id, mode, m.strategy, m.delay)
	m.sessions[id] = s
	slog.Info("session created", "session.id", id, "session.mode", string(mode))
	return s
}

// Run evicts idle sessions until Close is called. Meant to run on its own
// goroutine.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle(ctx)
		}
	}
}

func (m *Manager) evictIdle(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if time.Since(s.LastActive()) > m.idleTTL {
			slog.InfoContext(ctx, "evicting idle session", "session.id", id)
			delete(m.sessions, id)
			s.Close()
		}
	}
}

// Close stops the janitor and closes every session.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		delete(m.sessions, id)
		s.Close()
	}
}
