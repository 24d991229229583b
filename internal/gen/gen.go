// Package gen provides the generative-model adapter used by every pipeline
// stage. The rest of the system consumes the narrow Generator interface; the
// Anthropic-backed Client is its production implementation.
package gen

import (
	"context"
	"sync"
)

// Request is a single prompt-and-parse invocation.
type Request struct {
	// System is the agent persona prompt (project manager, frontend dev, ...).
	System string
	// Prompt is the task prompt built by internal/prompts.
	Prompt string
}

// Result is the raw outcome of a model call. Output is free text; callers
// run it through internal/normalize.
type Result struct {
	Output    string
	TokensIn  int64
	TokensOut int64
}

// Generator is the adapter boundary. Implementations must be safe for
// concurrent use: projects run pipelines in parallel against one client.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// TokenTracker accumulates token usage across calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
