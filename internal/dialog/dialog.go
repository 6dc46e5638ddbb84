package dialog

import "sync"

// State marks what free-text reply the bot is waiting for from a user.
type State int

const (
	StateNone State = iota
	StateAwaitingMeasurement
	StateAwaitingBulkData
)

// Manager tracks transient per-user dialogue state. It must be cleared on
// both successful completion and unrecoverable failure so a user is never
// stranded in a dialogue they cannot exit.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]State
}

func NewManager() *Manager {
	return &Manager{states: make(map[int64]State)}
}

func (m *Manager) Set(userID int64, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = s
}

func (m *Manager) Get(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[userID]
}

func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
