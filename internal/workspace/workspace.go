package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/focus"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/history"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/integrity"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/intel"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Layers that record actions.
const (
	LayerL1       = "L1"
	LayerL2       = "L2"
	LayerWarnings = "L4"
)

// Actions that are not attached to a warning.
const (
	ActionEditHypothesis = "edit-hypothesis"
	ActionEditAxis       = "edit-axis"
)

var (
	ErrNotLoaded      = errors.New("no spec loaded")
	ErrUnknownWarning = errors.New("warning is not active")
	ErrUnknownAction  = errors.New("action is not offered by this warning")
	ErrNoAutoAction   = errors.New("warning has no auto action")
)

// Entry is a recorded panel action.
type Entry = history.Entry[Panel]

// Option configures a Workspace.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	confirm func(Entry) bool
}

// WithLogger sets the logger for action outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithConfirm sets the rollback confirmation hook.
func WithConfirm(fn func(Entry) bool) Option {
	return func(c *config) { c.confirm = fn }
}

// Workspace is the panel plus its action history.
type Workspace struct {
	mu     sync.Mutex
	panel  Panel
	loaded bool
	status string

	history *history.Engine[Panel]
	logger  *slog.Logger
}

// New returns an empty Workspace. Call Load before applying actions.
func New(opts ...Option) *Workspace {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(&cfg)
	}
	w := &Workspace{logger: cfg.logger}
	w.history = history.New(history.Options[Panel]{
		Capture: func() (Panel, bool) {
			w.mu.Lock()
			defer w.mu.Unlock()
			return w.panel, w.loaded
		},
		Restore: func(p Panel) {
			w.mu.Lock()
			w.panel = p
			w.mu.Unlock()
		},
		Clone:   Panel.Clone,
		Confirm: cfg.confirm,
		OnFailure: func(msg string) {
			w.setStatus("Action failed, state restored: " + msg)
		},
		OnRollback: func(target Entry) {
			w.setStatus(fmt.Sprintf("Rolled back to before [%s] %s.", target.Layer, target.Label))
		},
		Logger: cfg.logger,
	})
	return w
}

// Load replaces the panel with a fresh one for spec and clears the history.
func (w *Workspace) Load(vibe string, spec schema.Spec) {
	w.mu.Lock()
	w.panel = NewPanel(vibe, spec)
	w.loaded = true
	w.status = ""
	w.mu.Unlock()
	w.history.Reset()
	w.logger.Debug("workspace loaded", slog.Int("completeness", spec.Completeness.Score))
}

// Panel returns a deep copy of the current panel.
func (w *Workspace) Panel() Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panel.Clone()
}

// Evaluate derives the current signals, warnings and gate.
func (w *Workspace) Evaluate() Evaluation {
	return Evaluate(w.Panel())
}

// Status is the message left by the last failed action or rollback.
func (w *Workspace) Status() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Workspace) setStatus(s string) {
	w.mu.Lock()
	w.status = s
	w.mu.Unlock()
}

// History returns the recorded actions, newest first.
func (w *Workspace) History() []Entry { return w.history.Entries() }

// Rollback restores the state from before entry id, as a new action.
func (w *Workspace) Rollback(ctx context.Context, id string) (Entry, error) {
	return w.history.Rollback(ctx, id)
}

// PreviewRollback shows what rolling back to entry id would change.
func (w *Workspace) PreviewRollback(id string) (string, error) {
	return w.history.Preview(id)
}

// update applies fn to the panel under the lock and prunes stale resolutions.
func (w *Workspace) update(fn func(p *Panel) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fn(&w.panel); err != nil {
		return err
	}
	pruneResolved(&w.panel)
	return nil
}

func (w *Workspace) run(ctx context.Context, layer, action, label string, meta map[string]string, fn func(p *Panel) error) (Entry, error) {
	if !w.isLoaded() {
		return Entry{}, ErrNotLoaded
	}
	entry := w.history.Run(ctx, layer, action, label, meta, func(context.Context) error {
		return w.update(fn)
	})
	w.logger.Debug("action recorded",
		slog.String("layer", entry.Layer),
		slog.String("action", entry.Action),
		slog.String("status", string(entry.Status)))
	return entry, nil
}

func (w *Workspace) isLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// EditHypothesis sets one hypothesis field. An edited hypothesis needs to
// be confirmed again.
func (w *Workspace) EditHypothesis(ctx context.Context, field schema.Field, value string) (Entry, error) {
	if schema.FieldIndex(field) < 0 {
		return Entry{}, fmt.Errorf("unknown hypothesis field %q", field)
	}
	meta := map[string]string{"field": string(field)}
	return w.run(ctx, LayerL1, ActionEditHypothesis, "Edit hypothesis", meta, func(p *Panel) error {
		p.Hypothesis.Set(field, strings.TrimSpace(value))
		p.Confirmed = false
		return nil
	})
}

// EditAxis replaces one logic map axis and marks it as just changed.
func (w *Workspace) EditAxis(ctx context.Context, axis schema.Axis, value string) (Entry, error) {
	if _, err := schema.ParseAxis(string(axis)); err != nil {
		return Entry{}, err
	}
	meta := map[string]string{"axis": string(axis)}
	return w.run(ctx, LayerL2, ActionEditAxis, "Edit logic map", meta, func(p *Panel) error {
		p.LogicMap.Set(axis, value)
		p.ChangedAxis = axis
		return nil
	})
}

// Focus returns the focus guide for an active warning without changing state.
func (w *Workspace) Focus(warningID string) (schema.FocusGuide, error) {
	ev := w.Evaluate()
	warn, ok := integrity.Find(ev.Active, warningID)
	if !ok {
		return schema.FocusGuide{}, fmt.Errorf("%w: %s", ErrUnknownWarning, warningID)
	}
	return focus.Guide(warn, ev.Intent.LowFields), nil
}

// ApplyAuto runs the auto action of an active warning.
func (w *Workspace) ApplyAuto(ctx context.Context, warningID string) (Entry, error) {
	warn, _, err := w.activeWarning(warningID)
	if err != nil {
		return Entry{}, err
	}
	if warn.AutoAction == "" {
		return Entry{}, fmt.Errorf("%w: %s", ErrNoAutoAction, warningID)
	}
	return w.ApplyAction(ctx, warningID, warn.AutoAction)
}

func (w *Workspace) activeWarning(id string) (schema.Warning, Evaluation, error) {
	if !w.isLoaded() {
		return schema.Warning{}, Evaluation{}, ErrNotLoaded
	}
	ev := w.Evaluate()
	warn, ok := integrity.Find(ev.Active, id)
	if !ok {
		return schema.Warning{}, ev, fmt.Errorf("%w: %s", ErrUnknownWarning, id)
	}
	return warn, ev, nil
}

// ApplyAction runs one of an active warning's actions through the history.
// A failed action is recorded and its state restored; it is reported on the
// returned entry and by Status, not as an error.
func (w *Workspace) ApplyAction(ctx context.Context, warningID, actionID string) (Entry, error) {
	warn, ev, err := w.activeWarning(warningID)
	if err != nil {
		return Entry{}, err
	}
	label := ""
	for _, a := range warn.Actions {
		if a.ID == actionID {
			label = a.Label
		}
	}
	if label == "" {
		return Entry{}, fmt.Errorf("%w: %s on %s", ErrUnknownAction, actionID, warningID)
	}
	mutate, err := w.mutationFor(warn, actionID, ev)
	if err != nil {
		return Entry{}, err
	}
	meta := map[string]string{"warning_id": warn.ID}
	return w.run(ctx, LayerWarnings, actionID, label, meta, mutate)
}

func (w *Workspace) mutationFor(warn schema.Warning, actionID string, ev Evaluation) (func(p *Panel) error, error) {
	switch actionID {
	case integrity.ActionGoL1:
		guide := focus.Guide(warn, ev.Intent.LowFields)
		return func(p *Panel) error {
			p.ActiveLayer = LayerL1
			p.Focus = &guide
			return nil
		}, nil
	case integrity.ActionGoL2:
		return func(p *Panel) error {
			p.ActiveLayer = LayerL2
			p.Focus = nil
			return nil
		}, nil
	case integrity.ActionMarkResolved:
		return func(p *Panel) error {
			if p.Resolved == nil {
				p.Resolved = map[string]string{}
			}
			p.Resolved[warn.ID] = warn.Detail
			return nil
		}, nil
	case integrity.ActionConfirmIntent:
		return func(p *Panel) error {
			p.Confirmed = true
			return nil
		}, nil
	case integrity.ActionApplySuggestedHypothesis:
		suggested := ev.Intent.Suggested
		return func(p *Panel) error {
			if suggested == (schema.Hypothesis{}) {
				return errors.New("no suggested hypothesis could be derived from the vibe")
			}
			p.Hypothesis = suggested
			p.Confirmed = false
			return nil
		}, nil
	case integrity.ActionSyncApply:
		return func(p *Panel) error {
			rebuilt := intel.BuildLogicMap(p.Spec, p.Hypothesis)
			if p.ChangedAxis != "" {
				rebuilt.Set(p.ChangedAxis, p.LogicMap.Get(p.ChangedAxis))
			}
			p.LogicMap = rebuilt
			p.ChangedAxis = ""
			return nil
		}, nil
	case integrity.ActionApplyPermissionGuard:
		return func(p *Panel) error {
			p.PermissionGuard = true
			return nil
		}, nil
	case integrity.ActionAlignIntent:
		return func(p *Panel) error {
			what := strings.TrimSpace(p.Hypothesis.What)
			if what == "" {
				return errors.New("hypothesis what is empty, nothing to align")
			}
			p.LogicMap.Text = intel.AppendLine(p.LogicMap.Text, "- Core problem: "+what)
			return nil
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
}
