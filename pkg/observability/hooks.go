// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline runs, session storage, and model calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStepStart(ctx, sessionID, step)
//	// ... run the step ...
//	observability.Pipeline().OnStepComplete(ctx, sessionID, step, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the editing pipeline.
type PipelineHooks interface {
	// Step events, one pair per pipeline step.
	OnStepStart(ctx context.Context, sessionID, step string)
	OnStepComplete(ctx context.Context, sessionID, step string, duration time.Duration, err error)

	// Run events, one pair per chat request.
	OnRunStart(ctx context.Context, sessionID string, componentCount int)
	OnRunComplete(ctx context.Context, sessionID string, operationCount int, duration time.Duration, err error)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from session storage operations.
type SessionHooks interface {
	// OnSessionCreate records a new session.
	OnSessionCreate(ctx context.Context, sessionID string)

	// OnSessionUpdate records a session write.
	OnSessionUpdate(ctx context.Context, sessionID string, err error)

	// OnSessionDelete records a session removal.
	OnSessionDelete(ctx context.Context, sessionID string)
}

// =============================================================================
// Model Hooks
// =============================================================================

// ModelHooks receives events from model invocations.
type ModelHooks interface {
	// OnInvoke records an outgoing model call.
	OnInvoke(ctx context.Context, model string, promptBytes int)

	// OnResponse records a model response.
	OnResponse(ctx context.Context, model string, responseBytes int, duration time.Duration)

	// OnError records a model failure (after retries).
	OnError(ctx context.Context, model string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStepStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnStepComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnRunStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreate(context.Context, string)        {}
func (NoopSessionHooks) OnSessionUpdate(context.Context, string, error) {}
func (NoopSessionHooks) OnSessionDelete(context.Context, string)        {}

// NoopModelHooks is a no-op implementation of ModelHooks.
type NoopModelHooks struct{}

func (NoopModelHooks) OnInvoke(context.Context, string, int)                  {}
func (NoopModelHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (NoopModelHooks) OnError(context.Context, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	sessionHooks  SessionHooks  = NoopSessionHooks{}
	modelHooks    ModelHooks    = NoopModelHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before any session operations.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetModelHooks registers custom model hooks.
// This should be called once at application startup before any model calls.
func SetModelHooks(h ModelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		modelHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Model returns the registered model hooks.
func Model() ModelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return modelHooks
}

// Reset restores all hooks to their no-op defaults. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	sessionHooks = NoopSessionHooks{}
	modelHooks = NoopModelHooks{}
}
