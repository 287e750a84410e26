package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/profile"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

func withOpenAI(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	prev := OpenAIBaseURL()
	SetOpenAIBaseURL(srv.URL)
	t.Cleanup(func() { SetOpenAIBaseURL(prev) })
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"gemini":      KindGemini,
		"OpenAI":      KindOpenAI,
		" anthropic ": KindAnthropic,
		"":            KindGemini,
		"mistral":     KindGemini,
	}
	for in, want := range cases {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
	if KindOpenAI.DisplayName() != "OpenAI" || KindAnthropic.APIKeyEnv() != "ANTHROPIC_API_KEY" {
		t.Error("unexpected display name or key env")
	}
}

func TestNewProvider_NoKey(t *testing.T) {
	for _, k := range Kinds {
		if _, err := NewProvider(context.Background(), k, "", ""); err == nil {
			t.Errorf("%s: expected error when API key is empty", k)
		} else if !strings.Contains(err.Error(), k.APIKeyEnv()) {
			t.Errorf("%s: error should name %s: %v", k, k.APIKeyEnv(), err)
		}
	}
}

func TestNewProvider_WithKey(t *testing.T) {
	for _, k := range Kinds {
		p, err := NewProvider(context.Background(), k, "", "test-key-for-construction-only")
		if err != nil {
			t.Fatalf("%s: NewProvider: %v", k, err)
		}
		if p == nil {
			t.Errorf("%s: expected non-nil provider", k)
		}
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint("  "); got != "empty" {
		t.Errorf("blank key: got %q", got)
	}
	if got := Fingerprint("ab"); got != "00000c21" {
		t.Errorf("Fingerprint(ab) = %q, want 00000c21", got)
	}
	if Fingerprint("sk-one") == Fingerprint("sk-two") {
		t.Error("distinct keys should fingerprint differently")
	}
	if strings.Contains(Fingerprint("sk-secret"), "secret") {
		t.Error("fingerprint must not contain the key")
	}
}

func TestSortByPreference(t *testing.T) {
	got := SortByPreference(KindOpenAI, []string{"zeta", "gpt-4.1", "alpha", "gpt-4o-mini", "gpt-4.1", ""})
	want := []string{"gpt-4o-mini", "gpt-4.1", "alpha", "zeta"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPickModel(t *testing.T) {
	models := []string{"gpt-4.1", "custom-x"}
	if got := pickModel(KindOpenAI, models, "CUSTOM-X"); got != "custom-x" {
		t.Errorf("preferred match: got %q", got)
	}
	if got := pickModel(KindOpenAI, models, "missing"); got != "gpt-4.1" {
		t.Errorf("preference fallback: got %q", got)
	}
	if got := pickModel(KindOpenAI, []string{"custom-x"}, ""); got != "custom-x" {
		t.Errorf("first listed: got %q", got)
	}
	if got := pickModel(KindGemini, nil, ""); got != "gemini-2.5-flash" {
		t.Errorf("default fallback: got %q", got)
	}
}

func TestCatalog_OpenAIFilterAndCache(t *testing.T) {
	var hits int32
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer auth")
		}
		w.Write([]byte(`{"data":[{"id":"text-embedding-3"},{"id":"gpt-4.1"},{"id":"dall-e-3"},{"id":"o3-mini"},{"id":"gpt-4o-mini"},{"id":"babbage"}]}`))
	})

	c := NewCatalog(4, time.Minute, nil)
	got := c.List(context.Background(), KindOpenAI, "sk-test")
	want := "gpt-4o-mini,gpt-4.1,o3-mini"
	if strings.Join(got, ",") != want {
		t.Errorf("got %v, want %s", got, want)
	}
	c.List(context.Background(), KindOpenAI, "sk-test")
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected one fetch, got %d", n)
	}
	if m := c.Resolve(context.Background(), KindOpenAI, "sk-test", "O3-MINI"); m != "o3-mini" {
		t.Errorf("Resolve preferred: got %q", m)
	}
}

func TestCatalog_FailureCachesDefaults(t *testing.T) {
	var hits int32
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})

	c := NewCatalog(4, time.Minute, nil)
	got := c.List(context.Background(), KindOpenAI, "sk-bad")
	if strings.Join(got, ",") != strings.Join(DefaultModels(KindOpenAI), ",") {
		t.Errorf("expected defaults, got %v", got)
	}
	c.List(context.Background(), KindOpenAI, "sk-bad")
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("fallback list should be cached, got %d fetches", n)
	}
}

func TestCatalog_NoKeyReturnsDefaults(t *testing.T) {
	c := NewCatalog(4, time.Minute, nil)
	got := c.List(context.Background(), KindAnthropic, "")
	if len(got) != 3 || got[0] != "claude-3-5-haiku-latest" {
		t.Errorf("unexpected defaults %v", got)
	}
}

func TestCatalog_GeminiAndAnthropic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1beta/models":
			if r.Header.Get("x-goog-api-key") == "" {
				t.Errorf("missing gemini key header")
			}
			w.Write([]byte(`{"models":[
			  {"name":"models/embedding-001","supportedGenerationMethods":["embedContent"]},
			  {"name":"models/gemini-2.0-flash","supportedGenerationMethods":["generateContent"]},
			  {"name":"models/gemini-2.5-flash","supportedGenerationMethods":["generateContent","countTokens"]}
			]}`))
		case "/v1/models":
			if r.Header.Get("anthropic-version") != "2023-06-01" {
				t.Errorf("missing anthropic-version header")
			}
			w.Write([]byte(`{"data":[{"id":"claude-3-7-sonnet-latest"},{"id":"other"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	prevG, prevA := GeminiBaseURL(), AnthropicBaseURL()
	SetGeminiBaseURL(srv.URL)
	SetAnthropicBaseURL(srv.URL)
	defer func() { SetGeminiBaseURL(prevG); SetAnthropicBaseURL(prevA) }()

	c := NewCatalog(4, time.Minute, nil)
	if got := c.List(context.Background(), KindGemini, "g-key"); strings.Join(got, ",") != "gemini-2.5-flash,gemini-2.0-flash" {
		t.Errorf("gemini: got %v", got)
	}
	if got := c.List(context.Background(), KindAnthropic, "a-key"); strings.Join(got, ",") != "claude-3-7-sonnet-latest" {
		t.Errorf("anthropic: got %v", got)
	}
}

func TestOpenAI_ResponsesAPI(t *testing.T) {
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["input"] != "hello" {
			t.Errorf("unexpected input %v", body["input"])
		}
		w.Write([]byte(`{"model":"gpt-4o-mini","output":[{"content":[{"type":"output_text","text":"{\"ok\":true}"}]}]}`))
	})

	p := &openaiProvider{model: "gpt-4o-mini", apiKey: "sk"}
	resp, err := p.Complete(context.Background(), &Request{UserPrompt: "hello"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"ok":true}` || resp.Model != "openai:gpt-4o-mini" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestOpenAI_FallsBackToChat(t *testing.T) {
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/responses" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"not supported"}}`))
			return
		}
		w.Write([]byte(`{"model":"gpt-4.1","choices":[{"message":{"role":"assistant","content":" chat text "}}]}`))
	})

	p := &openaiProvider{model: "gpt-4.1", apiKey: "sk"}
	temp := 0.2
	resp, err := p.Complete(context.Background(), &Request{SystemPrompt: "sys", UserPrompt: "hi", Temperature: &temp})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "chat text" {
		t.Errorf("unexpected content %q", resp.Content)
	}
}

func TestOpenAI_SendsZeroTemperature(t *testing.T) {
	var got map[string]any
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"model":"gpt-4.1","output":[{"content":[{"type":"output_text","text":"ok"}]}]}`))
	})

	p := &openaiProvider{model: "gpt-4.1", apiKey: "sk"}
	zero := 0.0
	if _, err := p.Complete(context.Background(), &Request{UserPrompt: "hi", Temperature: &zero}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	temp, ok := got["temperature"]
	if !ok {
		t.Fatal("temperature 0 was dropped from the request")
	}
	if temp != 0.0 {
		t.Errorf("temperature = %v, want 0", temp)
	}
}

func TestOpenAI_OmitsUnsetTemperature(t *testing.T) {
	var got map[string]any
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"model":"gpt-4.1","output":[{"content":[{"type":"output_text","text":"ok"}]}]}`))
	})

	p := &openaiProvider{model: "gpt-4.1", apiKey: "sk"}
	if _, err := p.Complete(context.Background(), &Request{UserPrompt: "hi"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok := got["temperature"]; ok {
		t.Errorf("unexpected temperature %v", got["temperature"])
	}
}

func TestOpenAI_BothFailReportsPrimary(t *testing.T) {
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if r.URL.Path == "/responses" {
			w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"primary failure"}}`))
			return
		}
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"chat failure"}}`))
	})

	p := &openaiProvider{model: "gpt-4.1", apiKey: "sk"}
	_, err := p.Complete(context.Background(), &Request{UserPrompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "primary failure") {
		t.Errorf("expected primary error, got %v", err)
	}
}

func TestGuarded_EmptyContentIsUpstreamError(t *testing.T) {
	withOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/responses" {
			w.Write([]byte(`{"model":"gpt-4.1","output":[]}`))
			return
		}
		w.Write([]byte(`{"model":"gpt-4.1","choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	})

	p, err := NewProvider(context.Background(), KindOpenAI, "gpt-4.1", "sk")
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Complete(context.Background(), &Request{UserPrompt: "hi"})
	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if up.Kind != KindOpenAI {
		t.Errorf("unexpected kind %q", up.Kind)
	}
}

func TestAnthropic_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "ak" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",
		  "content":[{"type":"text","text":"{\"a\":1}"}],"stop_reason":"end_turn",
		  "usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()
	prev := AnthropicBaseURL()
	SetAnthropicBaseURL(srv.URL)
	defer SetAnthropicBaseURL(prev)

	p, err := NewProvider(context.Background(), KindAnthropic, "claude-3-5-haiku-latest", "ak")
	if err != nil {
		t.Fatal(err)
	}
	temp := 0.2
	resp, err := p.Complete(context.Background(), &Request{SystemPrompt: "sys", UserPrompt: "hi", Temperature: &temp})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"a":1}` || resp.Model != "anthropic:claude-3-5-haiku-latest" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestGemini_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"b\":2}"}]}}]}`))
	}))
	defer srv.Close()
	prev := GeminiBaseURL()
	SetGeminiBaseURL(srv.URL)
	defer SetGeminiBaseURL(prev)

	p, err := NewProvider(context.Background(), KindGemini, "gemini-2.5-flash", "gk")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Complete(context.Background(), &Request{UserPrompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"b":2}` || resp.Model != "gemini:gemini-2.5-flash" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestGenerationPrompt(t *testing.T) {
	p, _ := profile.Get(profile.BeginnerZeroShot)
	out := GenerationPrompt(p, "  a cafe inventory app  ", false)
	for _, want := range []string{
		"SYSTEM:\nYou are the \"Vibe-to-Spec Transmuter\"",
		"Hard constraints:\n- Translate the user vibe",
		"Output schema shape:\n{",
		"Runtime option:\n- showThinking=OFF.",
		"User vibe:\na cafe inventory app",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "Return only the fixed schema above.") {
		t.Error("prompt should end with the schema reminder")
	}
	if strings.Contains(GenerationPrompt(nil, "x", true), "Optional examples") {
		t.Error("baseline prompt should not attach examples")
	}
}

func TestRepairPrompt(t *testing.T) {
	out := RepairPrompt("{broken")
	if !strings.HasPrefix(out, "Your previous response was invalid JSON.") {
		t.Errorf("unexpected prefix: %q", out)
	}
	if !strings.HasSuffix(out, "Previous output:\n{broken") {
		t.Errorf("previous output not appended: %q", out)
	}
	if !strings.Contains(out, SchemaHint) {
		t.Error("repair prompt must carry the schema hint")
	}
}

func TestStackPrompt(t *testing.T) {
	out := StackPrompt("vibe", schema.Spec{})
	for _, want := range []string{"- summary: -", "- must_features: -", "- risks: -", "User vibe:\nvibe"} {
		if !strings.Contains(out, want) {
			t.Errorf("stack prompt missing %q", want)
		}
	}
	s := schema.Spec{Summary: "Tracker", Features: schema.Features{Must: []string{"a", "b", "c", "d", "e", "f"}}, Risks: []string{"r1", "r2"}}
	out = StackPrompt("vibe", s)
	if !strings.Contains(out, "- must_features: a | b | c | d | e\n") {
		t.Errorf("must features should cap at five: %q", out)
	}
	if !strings.Contains(StackRepairPrompt(out, "oops"), "Schema reminder:\n"+out) {
		t.Error("stack repair prompt must embed the original prompt")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short string: got %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate long string: got %q", got)
	}
	if got := truncate("héllo", 3); got != "hél..." {
		t.Errorf("truncate multibyte: got %q, want %q", got, "hél...")
	}
}
