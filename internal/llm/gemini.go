package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiBaseURL overrides the SDK endpoint when non-empty; tests point it
// at an httptest server.
var geminiBaseURL = ""

// GeminiBaseURL returns the current Gemini base URL override.
func GeminiBaseURL() string { return geminiBaseURL }

// SetGeminiBaseURL overrides the Gemini base URL.
// Intended for use in tests only.
func SetGeminiBaseURL(u string) { geminiBaseURL = u }

type geminiProvider struct {
	cli   *genai.Client
	model string
}

func newGeminiProvider(ctx context.Context, model, apiKey string) (*geminiProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: sharedHTTPClient,
	}
	if geminiBaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: geminiBaseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &geminiProvider{cli: cli, model: model}, nil
}

func (p *geminiProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  int32(maxTokens),
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr[float32](float32(*req.Temperature))
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}

	resp, err := p.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.UserPrompt}}}},
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("gemini: no text content in response (got %d candidates)", len(resp.Candidates))
	}

	return &Response{
		Content: strings.TrimSpace(strings.Join(parts, "\n")),
		Model:   fmt.Sprintf("gemini:%s", model),
	}, nil
}
