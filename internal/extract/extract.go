// Package extract turns raw model text into parsed JSON, issuing at most one
// repair request when the first response does not parse.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dudcjfsp-cyber/vive-to-spec-V2/extract"

// Generator produces model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// MalformedOutputError is returned when neither the first response nor the
// repaired response parses as JSON.
type MalformedOutputError struct {
	Err error // parse error of the repaired response
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model output is not valid JSON after repair: %s", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

var errEmpty = errors.New("empty model output")

var (
	fenceOpen  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\n?")
	fenceClose = regexp.MustCompile("\n?```\\s*$")
)

// StripFences removes a leading/trailing markdown code fence (```json ... ```
// or ``` ... ```). Text without a leading fence is only trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Parse strips fences and decodes s into a generic JSON value.
func Parse(s string) (any, error) {
	cleaned := StripFences(s)
	if cleaned == "" {
		return nil, errEmpty
	}
	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("JSON parse failed: %w", err)
	}
	return v, nil
}

// RepairPrompt builds the repair request from the previous, unparseable output.
type RepairPrompt func(previous string) string

// ParseWithRepair generates text for prompt and parses it. When parsing
// fails it sends exactly one repair request built by repair and parses that
// response; a second failure yields *MalformedOutputError. Generator errors
// are returned unchanged.
func ParseWithRepair(ctx context.Context, gen Generator, prompt string, repair RepairPrompt) (any, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "extract.parse_with_repair")
	defer span.End()

	first, err := gen.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return nil, err
	}
	v, parseErr := Parse(first)
	if parseErr == nil {
		span.SetAttributes(attribute.Bool("extract.repaired", false))
		return v, nil
	}

	span.AddEvent("repair", trace.WithAttributes(attribute.String("extract.parse_error", parseErr.Error())))
	second, err := gen.Generate(ctx, repair(first))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repair generate failed")
		return nil, err
	}
	v, parseErr = Parse(second)
	if parseErr != nil {
		merr := &MalformedOutputError{Err: parseErr}
		span.RecordError(merr)
		span.SetStatus(codes.Error, "malformed output")
		return nil, merr
	}
	span.SetAttributes(attribute.Bool("extract.repaired", true))
	return v, nil
}
