package transmute

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/normalize"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// scripted answers each Complete call with the next reply in order.
type scripted struct {
	mu      sync.Mutex
	replies []reply
	prompts []string
	temps   []*float64
}

type reply struct {
	content string
	err     error
	wait    <-chan struct{}
	started chan<- struct{}
}

func (s *scripted) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	s.mu.Lock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, req.UserPrompt)
	s.temps = append(s.temps, req.Temperature)
	var r reply
	if i < len(s.replies) {
		r = s.replies[i]
	}
	s.mu.Unlock()

	if r.started != nil {
		close(r.started)
	}
	if r.wait != nil {
		<-r.wait
	}
	if r.err != nil {
		return nil, r.err
	}
	return &llm.Response{Content: r.content, Model: "openai:gpt-test"}, nil
}

func (s *scripted) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

func newService(p llm.Provider, opts ...Option) *Service {
	return New(p, Config{Kind: llm.KindOpenAI, Model: "gpt-test", Temperature: llm.DefaultTemperature}, opts...)
}

const goodSpec = "```json\n{\"one_line_summary\": \"Yoga class booking\", \"core_features\": {\"must\": [\"Book a class\"]}}\n```"

func TestTransmute_FirstParseSucceeds(t *testing.T) {
	p := &scripted{replies: []reply{{content: goodSpec}}}
	res, err := newService(p).Transmute(context.Background(), "yoga booking")
	require.NoError(t, err)

	assert.Equal(t, "Yoga class booking", res.Spec.Summary)
	assert.Equal(t, []string{"Book a class"}, res.Spec.Features.Must)
	assert.Len(t, res.Spec.Flow, schema.FlowStepCount)
	assert.Equal(t, "openai", res.Meta.Provider)
	assert.Equal(t, "openai:gpt-test", res.Meta.Model)
	assert.Equal(t, llm.DefaultTemperature, res.Meta.Temperature)
	assert.Len(t, p.calls(), 1)
	assert.Contains(t, p.calls()[0], "User vibe:\nyoga booking")
	require.NotNil(t, p.temps[0])
	assert.Equal(t, llm.DefaultTemperature, *p.temps[0])
}

func TestTransmute_KeepsZeroTemperature(t *testing.T) {
	p := &scripted{replies: []reply{{content: goodSpec}}}
	svc := New(p, Config{Kind: llm.KindOpenAI, Model: "gpt-test", Temperature: 0})
	res, err := svc.Transmute(context.Background(), "yoga booking")
	require.NoError(t, err)

	assert.Zero(t, res.Meta.Temperature)
	require.Len(t, p.temps, 1)
	require.NotNil(t, p.temps[0])
	assert.Zero(t, *p.temps[0])
}

func TestTransmute_RepairsOnce(t *testing.T) {
	p := &scripted{replies: []reply{{content: "Sure! Here is your spec: {"}, {content: goodSpec}}}
	res, err := newService(p).Transmute(context.Background(), "yoga booking")
	require.NoError(t, err)
	assert.Equal(t, "Yoga class booking", res.Spec.Summary)

	calls := p.calls()
	require.Len(t, calls, 2)
	assert.True(t, strings.HasPrefix(calls[1], "Your previous response was invalid JSON."))
	assert.True(t, strings.HasSuffix(calls[1], "Sure! Here is your spec: {"))
}

func TestTransmute_MalformedTwice(t *testing.T) {
	p := &scripted{replies: []reply{{content: "nope"}, {content: "still nope"}, {content: goodSpec}}}
	_, err := newService(p).Transmute(context.Background(), "vibe")
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrInterrupted)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, KindMalformed, terr.Kind)
	assert.Equal(t, "transmutation interrupted by model or JSON parsing failure", err.Error())
	assert.Len(t, p.calls(), 2, "no retry beyond one repair")
}

func TestTransmute_UpstreamFailureIsRedactedInLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cause := &llm.UpstreamError{Kind: llm.KindOpenAI, Err: errors.New("401 for key sk-live-secret-value")}
	p := &scripted{replies: []reply{{err: cause}}}

	_, err := newService(p, WithLogger(logger), WithSecrets("sk-live-secret-value")).Transmute(context.Background(), "vibe")
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, KindUpstream, terr.Kind)
	var up *llm.UpstreamError
	assert.ErrorAs(t, err, &up)
	assert.NotContains(t, err.Error(), "401")
	assert.NotContains(t, buf.String(), "sk-live-secret-value")
	assert.Contains(t, buf.String(), "generation failed")
}

func TestTransmute_StaleResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := &scripted{replies: []reply{
		{content: goodSpec, wait: release, started: started},
		{content: `{"one_line_summary": "newer"}`},
	}}
	svc := newService(p)

	type outcome struct {
		res *Result
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := svc.Transmute(context.Background(), "old vibe")
		first <- outcome{res, err}
	}()
	<-started

	res, err := svc.Transmute(context.Background(), "new vibe")
	require.NoError(t, err)
	assert.Equal(t, "newer", res.Spec.Summary)
	assert.Equal(t, uint64(2), res.Seq)

	close(release)
	out := <-first
	require.Error(t, out.err)
	var terr *Error
	require.ErrorAs(t, out.err, &terr)
	assert.Equal(t, KindSuperseded, terr.Kind)
}

func TestRecommendStacks(t *testing.T) {
	answer := `{"frames": [
	  {"id": "option_b", "strategy": "Managed backend", "stacks": [
	    {"name": "Supabase", "why": "auth and db", "confidence": "HIGH"},
	    {"name": "supabase", "why": "duplicate"}
	  ]},
	  {"id": "option_a", "stacks": [{"name": "Firebase", "confidence": "중간"}]}
	]}`
	p := &scripted{replies: []reply{{content: "not json"}, {content: answer}}}
	spec := normalize.Normalize(map[string]any{"one_line_summary": "Yoga booking"})

	guide, err := newService(p).RecommendStacks(context.Background(), "yoga", spec)
	require.NoError(t, err)

	require.Len(t, guide.Frames, 3)
	assert.Equal(t, "openai", guide.Provider)
	assert.Equal(t, "gpt-test", guide.Model)
	assert.Equal(t, "option_a", guide.Frames[0].ID)
	assert.Equal(t, "medium", guide.Frames[0].Stacks[0].Confidence)
	assert.Equal(t, "Managed backend", guide.Frames[1].Strategy)
	require.Len(t, guide.Frames[1].Stacks, 1)
	assert.Equal(t, "high", guide.Frames[1].Stacks[0].Confidence)
	assert.Empty(t, guide.Frames[2].Stacks)

	calls := p.calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], "- summary: Yoga booking")
	assert.True(t, strings.HasPrefix(calls[1], "Your previous output was invalid JSON."))
}

func TestRecommendStacks_ErrorMessage(t *testing.T) {
	p := &scripted{replies: []reply{{err: errors.New("boom")}}}
	_, err := newService(p).RecommendStacks(context.Background(), "yoga", schema.Spec{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, "hybrid stack recommendation interrupted by model or JSON parsing failure", err.Error())
}
