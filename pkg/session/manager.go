package session

import (
	"context"
	"sync"

	"github.com/matzehuels/songsort/pkg/strategy"
)

// Manager holds the single active session of a server. Each Start replaces
// the previous session wholesale.
type Manager struct {
	mu      sync.Mutex
	base    context.Context
	opts    Options
	current *Session
}

// NewManager creates a manager whose sessions run until ctx is done.
func NewManager(ctx context.Context, opts Options) *Manager {
	return &Manager{base: ctx, opts: opts}
}

// Start stops the current session, if any, and starts ranking items.
func (m *Manager) Start(items []string, strategyName string) (*Session, error) {
	s, err := strategy.New(strategyName)
	if err != nil {
		return nil, err
	}
	sess, err := New(items, s, m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.current != nil {
		m.current.Stop()
	}
	m.current = sess
	m.mu.Unlock()

	sess.Start(m.base)
	return sess, nil
}

// Current returns the active session or ErrNotFound.
func (m *Manager) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNotFound
	}
	return m.current, nil
}

// Get returns the active session if its ID is id.
func (m *Manager) Get(id string) (*Session, error) {
	sess, err := m.Current()
	if err != nil {
		return nil, err
	}
	if sess.ID.String() != id {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Close stops the active session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Stop()
		m.current = nil
	}
}
