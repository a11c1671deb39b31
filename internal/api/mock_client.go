package api

import (
	"context"
	"sync"
)

// MockBackend is a mock implementation of Backend for testing
type MockBackend struct {
	mu sync.Mutex

	// Mock return values
	Initialized   bool
	StatusErr     error
	InitializeErr error
	Answer        string
	ChatErr       error

	// InitializeSets makes a successful Initialize flip Initialized to true,
	// like the real backend does
	InitializeSets bool

	// Optional hooks, called before the canned values are returned
	StatusFunc     func(ctx context.Context) (bool, error)
	InitializeFunc func(ctx context.Context, repoURL string) error
	ChatFunc       func(ctx context.Context, question string) (string, error)

	// Call counters/recorders
	StatusCalls     int
	InitializeCalls int
	ChatCalls       int
	LastRepoURL     string
	LastQuestion    string
}

// Ensure MockBackend implements Backend
var _ Backend = (*MockBackend)(nil)

// Status implements Backend
func (m *MockBackend) Status(ctx context.Context) (bool, error) {
	m.mu.Lock()
	m.StatusCalls++
	fn := m.StatusFunc
	initialized, err := m.Initialized, m.StatusErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return initialized, err
}

// Initialize implements Backend
func (m *MockBackend) Initialize(ctx context.Context, repoURL string) error {
	m.mu.Lock()
	m.InitializeCalls++
	m.LastRepoURL = repoURL
	fn := m.InitializeFunc
	err := m.InitializeErr
	m.mu.Unlock()

	if fn != nil {
		err = fn(ctx, repoURL)
	}
	if err == nil {
		m.mu.Lock()
		if m.InitializeSets {
			m.Initialized = true
		}
		m.mu.Unlock()
	}
	return err
}

// Chat implements Backend
func (m *MockBackend) Chat(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.ChatCalls++
	m.LastQuestion = question
	fn := m.ChatFunc
	answer, err := m.Answer, m.ChatErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question)
	}
	return answer, err
}

// SetInitialized changes the flag reported by Status
func (m *MockBackend) SetInitialized(initialized bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Initialized = initialized
}

// Calls returns the status, initialize and chat call counts
func (m *MockBackend) Calls() (status, initialize, chat int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StatusCalls, m.InitializeCalls, m.ChatCalls
}
