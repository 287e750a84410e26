package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// sharedHTTPClient is used by all providers; a 5-minute timeout covers slow LLM responses.
var sharedHTTPClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// defaultMaxTokens is the fallback when Request.MaxTokens is not set.
const defaultMaxTokens = 4096

// DefaultTemperature is the sampling temperature used for generation.
const DefaultTemperature = 0.2

// Kind selects a model gateway implementation.
type Kind string

const (
	KindGemini    Kind = "gemini"
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
)

// Kinds lists the supported provider kinds.
var Kinds = []Kind{KindGemini, KindOpenAI, KindAnthropic}

// ParseKind maps a provider name to a Kind. Unknown or empty names become
// gemini.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindOpenAI, KindAnthropic:
		return k
	}
	return KindGemini
}

// DisplayName is the human-readable provider name.
func (k Kind) DisplayName() string {
	switch k {
	case KindOpenAI:
		return "OpenAI"
	case KindAnthropic:
		return "Anthropic"
	}
	return "Gemini"
}

// APIKeyEnv is the environment variable that holds the provider's API key.
func (k Kind) APIKeyEnv() string {
	switch k {
	case KindOpenAI:
		return "OPENAI_API_KEY"
	case KindAnthropic:
		return "ANTHROPIC_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// Request holds the parameters for an LLM completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	// Temperature is sent when non-nil; nil leaves the provider default.
	Temperature *float64
	MaxTokens   int
	// Model overrides the provider's configured model when non-empty.
	Model string
}

// Response holds the result of an LLM completion call.
type Response struct {
	Content string
	Model   string // actual model used, echoed back for meta
}

// Provider is the interface for LLM completion backends.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// UpstreamError reports a provider, network, auth, or empty-output failure.
type UpstreamError struct {
	Kind Kind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream failure: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// guarded wraps every failure of the inner provider in *UpstreamError and
// treats blank content as a failure.
type guarded struct {
	kind  Kind
	inner Provider
}

func (g *guarded) Complete(ctx context.Context, req *Request) (*Response, error) {
	resp, err := g.inner.Complete(ctx, req)
	if err != nil {
		return nil, &UpstreamError{Kind: g.kind, Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, &UpstreamError{Kind: g.kind, Err: fmt.Errorf("%s generation returned empty text", g.kind.DisplayName())}
	}
	return resp, nil
}

// NewProvider returns the Provider for kind bound to model. The API key is
// validated immediately.
func NewProvider(ctx context.Context, kind Kind, model, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", kind.APIKeyEnv())
	}
	if model == "" {
		model = DefaultModels(kind)[0]
	}
	var p Provider
	switch kind {
	case KindOpenAI:
		p = &openaiProvider{model: model, apiKey: apiKey}
	case KindAnthropic:
		p = newAnthropicProvider(model, apiKey)
	case KindGemini:
		gp, err := newGeminiProvider(ctx, model, apiKey)
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		p = gp
	default:
		return nil, fmt.Errorf("unknown provider %q: supported providers are gemini, openai, anthropic", kind)
	}
	return &guarded{kind: kind, inner: p}, nil
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
