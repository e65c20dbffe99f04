// Package bridge exposes the persistence facade as named commands, the way
// the desktop UI invokes them, and serves those commands over local HTTP.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/user/eliteos/internal/state"
	"github.com/user/eliteos/internal/types"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
)

// Boundary codes that are not facade error kinds.
const (
	CodeUnknownCommand state.Code = "UNKNOWN_COMMAND"
	CodeInvalidArgs    state.Code = "INVALID_ARGS"
	CodeUnauthorized   state.Code = "UNAUTHORIZED"
)

// Handler executes one command with its JSON-encoded arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry holds named command handlers and dispatches invocations.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Get returns the handler registered for name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the named command. Calls are not serialized: two dispatches
// touching the same file race exactly as the filesystem lets them.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	id := types.NewInvocationID()
	start := time.Now()
	result, err := h(ctx, args)
	elapsed := time.Since(start)

	if err != nil {
		slog.Warn("command failed",
			"command", name,
			"invocation_id", id,
			"duration", elapsed,
			"code", CodeOf(err),
			"error", err,
		)
		return nil, err
	}
	slog.Debug("command completed", "command", name, "invocation_id", id, "duration", elapsed)
	return result, nil
}

// CodeOf maps an error from Dispatch to its boundary code.
func CodeOf(err error) state.Code {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return CodeUnknownCommand
	case errors.Is(err, ErrInvalidArgs):
		return CodeInvalidArgs
	default:
		return state.CodeOf(err)
	}
}
