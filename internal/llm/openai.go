package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// openaiBaseURL is a var to allow test overrides via httptest.
var openaiBaseURL = "https://api.openai.com/v1"

// OpenAIBaseURL returns the current OpenAI API base URL.
// Exposed for use by integration tests via httptest servers.
func OpenAIBaseURL() string { return openaiBaseURL }

// SetOpenAIBaseURL overrides the OpenAI API base URL.
// Intended for use in tests only.
func SetOpenAIBaseURL(u string) { openaiBaseURL = strings.TrimRight(u, "/") }

const maxBodyBytes = 10 * 1024 * 1024 // 10 MiB

type openaiProvider struct {
	model  string
	apiKey string // unexported; never serialized by encoding/json
}

type openaiResponsesRequest struct {
	Model           string   `json:"model"`
	Input           string   `json:"input"`
	Instructions    string   `json:"instructions,omitempty"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type openaiResponsesResponse struct {
	Model      string `json:"model"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *openaiError `json:"error"`
}

type openaiChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *openaiError `json:"error"`
}

type openaiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Complete tries the Responses API first and falls back to chat completions
// when it fails or returns no text. Some model and account combinations only
// accept the chat path.
func (p *openaiProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	resp, primaryErr := p.responses(ctx, model, req)
	if primaryErr == nil && resp.Content != "" {
		return resp, nil
	}

	resp, err := p.chat(ctx, model, req)
	if err != nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, err
	}
	return resp, nil
}

func (p *openaiProvider) responses(ctx context.Context, model string, req *Request) (*Response, error) {
	body := openaiResponsesRequest{
		Model:        model,
		Input:        req.UserPrompt,
		Instructions: req.SystemPrompt,
	}
	if req.Temperature != nil {
		t := *req.Temperature
		body.Temperature = &t
	}
	if req.MaxTokens > 0 {
		body.MaxOutputTokens = req.MaxTokens
	}

	status, respBytes, err := p.post(ctx, openaiBaseURL+"/responses", body)
	if err != nil {
		return nil, err
	}
	var rr openaiResponsesResponse
	if err := json.Unmarshal(respBytes, &rr); err != nil {
		return nil, fmt.Errorf("parsing response JSON (HTTP %d, body: %s): %w", status, truncate(string(respBytes), 200), err)
	}
	if status != http.StatusOK {
		return nil, statusError(status, rr.Error, respBytes)
	}

	text := strings.TrimSpace(rr.OutputText)
	if text == "" {
		var parts []string
		for _, item := range rr.Output {
			for _, c := range item.Content {
				if c.Text != "" {
					parts = append(parts, c.Text)
				}
			}
		}
		text = strings.TrimSpace(strings.Join(parts, "\n"))
	}
	return &Response{Content: text, Model: fmt.Sprintf("openai:%s", orModel(rr.Model, model))}, nil
}

func (p *openaiProvider) chat(ctx context.Context, model string, req *Request) (*Response, error) {
	// Only include system message when non-empty to avoid unnecessary token usage.
	var messages []openaiMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.UserPrompt})

	body := openaiChatRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Temperature != nil {
		t := *req.Temperature
		body.Temperature = &t
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}

	status, respBytes, err := p.post(ctx, openaiBaseURL+"/chat/completions", body)
	if err != nil {
		return nil, err
	}
	var cr openaiChatResponse
	if err := json.Unmarshal(respBytes, &cr); err != nil {
		return nil, fmt.Errorf("parsing response JSON (HTTP %d, body: %s): %w", status, truncate(string(respBytes), 200), err)
	}
	if status != http.StatusOK {
		return nil, statusError(status, cr.Error, respBytes)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty choices in response")
	}

	return &Response{
		Content: strings.TrimSpace(cr.Choices[0].Message.Content),
		Model:   fmt.Sprintf("openai:%s", orModel(cr.Model, model)),
	}, nil
}

func (p *openaiProvider) post(ctx context.Context, url string, body any) (int, []byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := sharedHTTPClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, respBytes, nil
}

func statusError(status int, e *openaiError, body []byte) error {
	if e != nil && e.Message != "" {
		return fmt.Errorf("openai: %s: %s", e.Type, e.Message)
	}
	return fmt.Errorf("openai: HTTP %d: %s", status, truncate(string(body), 200))
}

func orModel(echoed, requested string) string {
	if echoed != "" {
		return echoed
	}
	return requested
}
