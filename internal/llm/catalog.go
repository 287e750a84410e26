package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var defaultModels = map[Kind][]string{
	KindGemini:    {"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"},
	KindOpenAI:    {"gpt-4o-mini", "gpt-4.1-mini", "gpt-4.1", "o4-mini"},
	KindAnthropic: {"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest", "claude-3-7-sonnet-latest"},
}

var preferenceOrder = map[Kind][]string{
	KindGemini:    {"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
	KindOpenAI:    {"gpt-4o-mini", "gpt-4.1-mini", "gpt-4.1", "o4-mini", "o3-mini"},
	KindAnthropic: {"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest", "claude-3-7-sonnet-latest"},
}

// DefaultModels returns a copy of the built-in model list for kind.
func DefaultModels(kind Kind) []string {
	return append([]string(nil), defaultModels[ParseKind(string(kind))]...)
}

// Fingerprint is a 32-bit rolling hash of an API key, rendered as 8 hex
// digits. The raw key is never used as a cache key.
func Fingerprint(apiKey string) string {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return "empty"
	}
	var h int32
	for _, c := range utf16.Encode([]rune(key)) {
		h = h*31 + int32(c)
	}
	return fmt.Sprintf("%08x", uint32(h))
}

type catalogKey struct {
	kind        Kind
	fingerprint string
}

// Catalog lists the generation models available to an API key. Lists are
// cached per (kind, key fingerprint) with a TTL.
type Catalog struct {
	cache  *expirable.LRU[catalogKey, []string]
	client *http.Client
	logger *slog.Logger
}

// NewCatalog returns a catalog holding at most size lists for ttl each.
func NewCatalog(size int, ttl time.Duration, logger *slog.Logger) *Catalog {
	if size <= 0 {
		size = 32
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		cache:  expirable.NewLRU[catalogKey, []string](size, nil, ttl),
		client: sharedHTTPClient,
		logger: logger,
	}
}

// List returns the models available to apiKey, sorted by preference then
// name. It never fails: without a key, or when the fetch fails or comes back
// empty, it returns the built-in defaults. Fallback lists are cached too.
func (c *Catalog) List(ctx context.Context, kind Kind, apiKey string) []string {
	kind = ParseKind(string(kind))
	if strings.TrimSpace(apiKey) == "" {
		return DefaultModels(kind)
	}
	key := catalogKey{kind: kind, fingerprint: Fingerprint(apiKey)}
	if cached, ok := c.cache.Get(key); ok && len(cached) > 0 {
		return append([]string(nil), cached...)
	}

	models, err := c.fetch(ctx, kind, apiKey)
	if err != nil {
		c.logger.Warn("model list fetch failed, using defaults", "provider", kind, "error", err.Error())
	}
	sorted := SortByPreference(kind, models)
	if len(sorted) == 0 {
		sorted = DefaultModels(kind)
	}
	c.cache.Add(key, sorted)
	return append([]string(nil), sorted...)
}

// Resolve picks one model: preferred when listed (case-insensitive), else the
// first preference-order hit, else the first listed, else the first default.
func (c *Catalog) Resolve(ctx context.Context, kind Kind, apiKey, preferred string) string {
	kind = ParseKind(string(kind))
	models := c.List(ctx, kind, apiKey)
	return pickModel(kind, models, preferred)
}

func pickModel(kind Kind, models []string, preferred string) string {
	if p := strings.TrimSpace(preferred); p != "" {
		for _, m := range models {
			if strings.EqualFold(m, p) {
				return m
			}
		}
	}
	for _, cand := range preferenceOrder[kind] {
		for _, m := range models {
			if m == cand {
				return m
			}
		}
	}
	if len(models) > 0 {
		return models[0]
	}
	return defaultModels[kind][0]
}

// SortByPreference de-duplicates models and orders them by the kind's
// preference list, unranked names last in lexical order.
func SortByPreference(kind Kind, models []string) []string {
	rank := map[string]int{}
	for i, m := range preferenceOrder[kind] {
		rank[strings.ToLower(m)] = i
	}
	seen := map[string]bool{}
	out := []string{}
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	idx := func(m string) int {
		if r, ok := rank[strings.ToLower(m)]; ok {
			return r
		}
		return len(rank) + 1
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := idx(out[i]), idx(out[j])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

func modelsURL(kind Kind) string {
	switch kind {
	case KindOpenAI:
		return openaiBaseURL + "/models"
	case KindAnthropic:
		base := "https://api.anthropic.com"
		if anthropicBaseURL != "" {
			base = strings.TrimRight(anthropicBaseURL, "/")
		}
		return base + "/v1/models"
	}
	base := "https://generativelanguage.googleapis.com"
	if geminiBaseURL != "" {
		base = strings.TrimRight(geminiBaseURL, "/")
	}
	return base + "/v1beta/models"
}

type modelListResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Catalog) fetch(ctx context.Context, kind Kind, apiKey string) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL(kind), nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	switch kind {
	case KindOpenAI:
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	case KindAnthropic:
		httpReq.Header.Set("x-api-key", apiKey)
		httpReq.Header.Set("anthropic-version", "2023-06-01")
	default:
		httpReq.Header.Set("x-goog-api-key", apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	var list modelListResponse
	decodeErr := json.Unmarshal(body, &list)
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("%s model list request failed (%d)", kind.DisplayName(), resp.StatusCode)
		if decodeErr == nil {
			if list.Message != "" {
				msg = list.Message
			} else if list.Error != nil && list.Error.Message != "" {
				msg = list.Error.Message
			}
		}
		return nil, errors.New(msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parsing model list (body: %s): %w", truncate(string(body), 200), decodeErr)
	}

	var out []string
	switch kind {
	case KindOpenAI:
		for _, m := range list.Data {
			if isOpenAITextModel(m.ID) {
				out = append(out, m.ID)
			}
		}
	case KindAnthropic:
		for _, m := range list.Data {
			if strings.Contains(strings.ToLower(m.ID), "claude") {
				out = append(out, m.ID)
			}
		}
	default:
		for _, m := range list.Models {
			if !contains(m.SupportedGenerationMethods, "generateContent") {
				continue
			}
			name := m.Name[strings.LastIndex(m.Name, "/")+1:]
			if name != "" {
				out = append(out, name)
			}
		}
	}
	return out, nil
}

var openaiExcluded = []string{"moderation", "embedding", "whisper", "tts", "audio", "image", "dall-e"}

func isOpenAITextModel(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	for _, tok := range openaiExcluded {
		if strings.Contains(n, tok) {
			return false
		}
	}
	return strings.HasPrefix(n, "gpt-") || strings.HasPrefix(n, "o1") || strings.HasPrefix(n, "o3") || strings.HasPrefix(n, "o4")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
