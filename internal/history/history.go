// Package history records state-mutating actions as transactions over a
// snapshot of the caller's state. A failed action restores the snapshot it
// captured; a rollback is itself a recorded, reversible action.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxEntries caps the history; the oldest entries are dropped first.
const MaxEntries = 80

// Defaults for blank entry fields.
const (
	DefaultLayer  = "SYSTEM"
	DefaultAction = "action"
	DefaultLabel  = "Run action"
)

// Rollback entry vocabulary.
const (
	RollbackAction = "rollback"
	RollbackLabel  = "Apply history rollback"
)

// Status is the lifecycle state of an entry: running, then done or failed.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

var (
	ErrNotFound   = errors.New("history entry not found")
	ErrNoSnapshot = errors.New("history entry has no snapshot to roll back to")
	ErrDeclined   = errors.New("rollback declined")
)

// Entry is one recorded action. Snapshot holds the state captured before
// the action ran, or nil when none could be captured.
type Entry[S any] struct {
	ID       string            `json:"id" yaml:"id"`
	Time     time.Time         `json:"ts" yaml:"ts"`
	Layer    string            `json:"layer" yaml:"layer"`
	Action   string            `json:"action" yaml:"action"`
	Label    string            `json:"label" yaml:"label"`
	Status   Status            `json:"status" yaml:"status"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
	Meta     map[string]string `json:"meta" yaml:"meta"`
	Snapshot *S                `json:"-" yaml:"-"`
}

// CanRollback reports whether the entry carries a usable snapshot.
func (e Entry[S]) CanRollback() bool { return e.Snapshot != nil }

// Options wires an Engine to the state it guards.
type Options[S any] struct {
	// Capture returns the current state. ok=false records the entry
	// without a snapshot.
	Capture func() (state S, ok bool)
	// Restore replaces the current state with s.
	Restore func(s S)
	// Clone deep-copies a state. Defaults to the state's own Clone method,
	// then to a JSON round trip.
	Clone func(s S) S
	// Confirm is asked before a rollback runs. nil always confirms.
	Confirm func(target Entry[S]) bool
	// OnFailure receives the message of every failed action.
	OnFailure func(msg string)
	// OnRollback is called after a rollback restored target's snapshot.
	OnRollback func(target Entry[S])
	Logger     *slog.Logger
	Now        func() time.Time
}

// Engine is the action history for one state.
type Engine[S any] struct {
	opts Options[S]

	mu      sync.Mutex
	entries []Entry[S] // newest first
}

// New returns an Engine. Capture and Restore are required.
func New[S any](opts Options[S]) *Engine[S] {
	if opts.Clone == nil {
		opts.Clone = defaultClone[S]
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine[S]{opts: opts}
}

// Mutation changes the guarded state. A returned error or a panic fails the
// action and restores the captured snapshot.
type Mutation func(ctx context.Context) error

// Run records an action and applies mutate. It never returns an error for a
// failed mutation: the failure is recorded on the entry, the snapshot is
// restored, and OnFailure is told. The returned entry is its final state.
func (e *Engine[S]) Run(ctx context.Context, layer, action, label string, meta map[string]string, mutate Mutation) Entry[S] {
	entry := Entry[S]{
		ID:     "cta-" + uuid.NewString(),
		Time:   e.opts.Now(),
		Layer:  orDefault(layer, DefaultLayer),
		Action: orDefault(action, DefaultAction),
		Label:  orDefault(label, DefaultLabel),
		Status: StatusRunning,
		Meta:   map[string]string{},
	}
	if meta != nil {
		entry.Meta = maps.Clone(meta)
	}
	if state, ok := e.opts.Capture(); ok {
		snap := e.opts.Clone(state)
		entry.Snapshot = &snap
	}
	e.push(entry)

	if mutate == nil {
		return e.patch(entry.ID, StatusDone, "")
	}
	if err := safeMutate(ctx, mutate); err != nil {
		return e.fail(entry, err)
	}
	return e.patch(entry.ID, StatusDone, "")
}

func (e *Engine[S]) fail(entry Entry[S], err error) Entry[S] {
	if entry.Snapshot != nil {
		e.opts.Restore(e.opts.Clone(*entry.Snapshot))
	}
	msg := err.Error()
	e.opts.Logger.Warn("action failed",
		slog.String("id", entry.ID),
		slog.String("layer", entry.Layer),
		slog.String("action", entry.Action),
		slog.String("error", msg))
	final := e.patch(entry.ID, StatusFailed, msg)
	if e.opts.OnFailure != nil {
		e.opts.OnFailure(msg)
	}
	return final
}

func safeMutate(ctx context.Context, mutate Mutation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return mutate(ctx)
}

// Rollback restores the snapshot recorded before entry id, as a new
// recorded action. The returned entry is the rollback's own entry.
func (e *Engine[S]) Rollback(ctx context.Context, id string) (Entry[S], error) {
	target, ok := e.Get(id)
	if !ok {
		return Entry[S]{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !target.CanRollback() {
		return Entry[S]{}, fmt.Errorf("%w: %s", ErrNoSnapshot, id)
	}
	if e.opts.Confirm != nil && !e.opts.Confirm(target) {
		return Entry[S]{}, ErrDeclined
	}
	snapshot := e.opts.Clone(*target.Snapshot)
	meta := map[string]string{
		"target_id":     target.ID,
		"target_layer":  target.Layer,
		"target_action": target.Action,
	}
	entry := e.Run(ctx, DefaultLayer, RollbackAction, RollbackLabel, meta, func(context.Context) error {
		e.opts.Restore(snapshot)
		if e.opts.OnRollback != nil {
			e.opts.OnRollback(target)
		}
		return nil
	})
	return entry, nil
}

// Entries returns the history, newest first.
func (e *Engine[S]) Entries() []Entry[S] {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry[S], len(e.entries))
	copy(out, e.entries)
	return out
}

// Get returns the entry with id.
func (e *Engine[S]) Get(id string) (Entry[S], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, en := range e.entries {
		if en.ID == id {
			return en, true
		}
	}
	return Entry[S]{}, false
}

// Reset clears the history.
func (e *Engine[S]) Reset() {
	e.mu.Lock()
	e.entries = nil
	e.mu.Unlock()
}

func (e *Engine[S]) push(entry Entry[S]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append([]Entry[S]{entry}, e.entries...)
	if len(e.entries) > MaxEntries {
		e.entries = e.entries[:MaxEntries]
	}
}

// patch updates the status of entry id and returns the updated entry. An
// entry already evicted by the cap is returned as last known.
func (e *Engine[S]) patch(id string, status Status, msg string) Entry[S] {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.entries {
		if e.entries[i].ID == id {
			e.entries[i].Status = status
			e.entries[i].Error = msg
			return e.entries[i]
		}
	}
	return Entry[S]{ID: id, Status: status, Error: msg}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
