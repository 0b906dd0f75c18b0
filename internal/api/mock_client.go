package api

import (
	"context"
	"sync"
)

// MockGenerator is a mock implementation of Generator for testing
type MockGenerator struct {
	// Mock return values
	Text string
	Err  error

	// GenerateFunc overrides Text/Err when set
	GenerateFunc func(ctx context.Context, prompt Prompt) (string, error)

	// Call recorders
	mu          sync.Mutex
	Calls       int
	LastPrompt  Prompt
	LastContext context.Context
}

// Ensure MockGenerator implements Generator
var _ Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastPrompt = prompt
	m.LastContext = ctx
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.Text, m.Err
}

// CallCount returns how many times Generate was called
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
