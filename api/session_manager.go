package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/tsc-sim/tsc-sim/service"
	"github.com/tsc-sim/tsc-sim/vm"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session represents an active simulator session.
type Session struct {
	ID        string
	Service   *service.DebuggerService
	CreatedAt time.Time
}

// SessionManager manages multiple concurrent simulator sessions, each with
// its own Machine, isolated from all others (spec.md has no notion of a
// "session" — it is purely a monitoring-API convenience, SPEC_FULL.md §4.5).
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession creates a new session with a unique ID and a fresh Machine.
func (sm *SessionManager) CreateSession(opts SessionCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	cfg := vm.DefaultMachineConfig()
	if opts.MemSize != 0 {
		cfg.MemSize = opts.MemSize
	}
	if opts.SplitMemory {
		cfg.SplitMemory = true
		cfg.DMemStart = opts.DMemStart
		cfg.DMemSize = opts.DMemSize
	}
	if sm.broadcaster != nil {
		cfg.IOSink = vm.NewWriterSink(NewEventWriter(sm.broadcaster, sessionID, "io"))
	}

	machine, err := vm.NewMachine(cfg)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        sessionID,
		Service:   service.NewDebuggerService(machine),
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns all session IDs.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// generateSessionID generates a unique session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
