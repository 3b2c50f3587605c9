package extract

import (
	"context"
	"sync"
)

// MockEngine is an Engine for testing. It records every request and
// returns scripted results.
type MockEngine struct {
	Result *Result
	Err    error

	mu       sync.Mutex
	requests []Request
}

// Extract records the request and returns the scripted outcome.
func (m *MockEngine) Extract(_ context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &Result{Extractions: []Extraction{}, ModelID: req.Model}, nil
}

// Requests returns a copy of every request seen so far.
func (m *MockEngine) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Verify interface
var _ Engine = (*MockEngine)(nil)
