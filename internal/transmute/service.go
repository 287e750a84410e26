// Package transmute runs a vibe through the model gateway, recovers JSON from
// the reply, and normalizes it into a canonical Spec or StackGuide.
package transmute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/extract"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/normalize"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/profile"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/redact"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

const tracerName = "github.com/dudcjfsp-cyber/vive-to-spec-V2/transmute"

// ErrorKind classifies a failed run.
type ErrorKind string

const (
	KindUpstream   ErrorKind = "upstream"
	KindMalformed  ErrorKind = "malformed"
	KindSuperseded ErrorKind = "superseded"
)

// Operations reported in Error.Op.
const (
	OpTransmute = "transmute"
	OpStacks    = "stacks"
)

// ErrInterrupted matches every *Error.
var ErrInterrupted = errors.New("transmutation interrupted by model or JSON parsing failure")

// errSuperseded is the cause recorded when a newer request has started.
var errSuperseded = errors.New("a newer request superseded this one")

// Error is the single failure surface of the service. Its message never
// carries request details; Unwrap exposes the cause for logs.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == OpStacks {
		return "hybrid stack recommendation interrupted by model or JSON parsing failure"
	}
	return ErrInterrupted.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrInterrupted }

// Config fixes the model call parameters of a Service.
type Config struct {
	Kind         llm.Kind
	Model        string
	Temperature  float64 // sent as given; 0 is a valid setting
	MaxTokens    int
	ShowThinking bool
	Policy       *profile.Profile
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for failures and superseded results.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSecrets lists values that must never appear in logged error text.
func WithSecrets(secrets ...string) Option {
	return func(s *Service) { s.secrets = append(s.secrets, secrets...) }
}

// Service turns vibes into specs. A request whose result arrives after a
// newer request of the same operation started is discarded.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
	secrets  []string

	specSeq  atomic.Uint64
	stackSeq atomic.Uint64
}

// New returns a Service that generates through p.
func New(p llm.Provider, cfg Config, opts ...Option) *Service {
	s := &Service{provider: p, cfg: cfg, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Result is one successful transmutation.
type Result struct {
	Spec schema.Spec
	Meta schema.Meta
	Seq  uint64
}

func (s *Service) generator(model *string) extract.Generator {
	return extract.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		temperature := s.cfg.Temperature
		resp, err := s.provider.Complete(ctx, &llm.Request{
			UserPrompt:  prompt,
			Temperature: &temperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
		if err != nil {
			return "", err
		}
		if resp.Model != "" {
			*model = resp.Model
		}
		return resp.Content, nil
	})
}

func (s *Service) meta(model string) schema.Meta {
	if model == "" {
		model = fmt.Sprintf("%s:%s", s.cfg.Kind, s.cfg.Model)
	}
	return schema.Meta{Provider: string(s.cfg.Kind), Model: model, Temperature: s.cfg.Temperature}
}

// Transmute generates a spec for vibe with at most one JSON repair request.
func (s *Service) Transmute(ctx context.Context, vibe string) (*Result, error) {
	ticket := s.specSeq.Add(1)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "transmute.spec")
	defer span.End()
	span.SetAttributes(
		attribute.String("vibespec.provider", string(s.cfg.Kind)),
		attribute.Int64("vibespec.seq", int64(ticket)),
		attribute.Int("vibespec.vibe_len", len(vibe)),
	)

	var model string
	prompt := llm.GenerationPrompt(s.cfg.Policy, vibe, s.cfg.ShowThinking)
	raw, err := extract.ParseWithRepair(ctx, s.generator(&model), prompt, llm.RepairPrompt)
	if err != nil {
		return nil, s.fail(span, OpTransmute, err)
	}
	if latest := s.specSeq.Load(); latest != ticket {
		s.logger.Info("discarding superseded result", "op", OpTransmute, "seq", ticket, "latest", latest)
		return nil, s.fail(span, OpTransmute, errSuperseded)
	}

	spec := normalize.Normalize(raw)
	span.SetAttributes(attribute.Int("vibespec.completeness", spec.Completeness.Score))
	return &Result{Spec: spec, Meta: s.meta(model), Seq: ticket}, nil
}

// RecommendStacks asks for a three-frame stack recommendation for vibe and
// its normalized spec.
func (s *Service) RecommendStacks(ctx context.Context, vibe string, spec schema.Spec) (*schema.StackGuide, error) {
	ticket := s.stackSeq.Add(1)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "transmute.stacks")
	defer span.End()
	span.SetAttributes(attribute.String("vibespec.provider", string(s.cfg.Kind)))

	var model string
	prompt := llm.StackPrompt(vibe, spec)
	repair := func(previous string) string { return llm.StackRepairPrompt(prompt, previous) }
	raw, err := extract.ParseWithRepair(ctx, s.generator(&model), prompt, repair)
	if err != nil {
		return nil, s.fail(span, OpStacks, err)
	}
	if latest := s.stackSeq.Load(); latest != ticket {
		s.logger.Info("discarding superseded result", "op", OpStacks, "seq", ticket, "latest", latest)
		return nil, s.fail(span, OpStacks, errSuperseded)
	}

	guide := normalize.NormalizeStackGuide(raw, string(s.cfg.Kind), s.cfg.Model)
	return &guide, nil
}

func (s *Service) fail(span trace.Span, op string, err error) *Error {
	kind := KindUpstream
	var malformed *extract.MalformedOutputError
	switch {
	case errors.Is(err, errSuperseded):
		kind = KindSuperseded
	case errors.As(err, &malformed):
		kind = KindMalformed
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))
	if kind != KindSuperseded {
		s.logger.Error("generation failed", "op", op, "kind", kind, "error", redact.Secrets(err.Error(), s.secrets...))
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
