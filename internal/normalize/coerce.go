package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// asObject returns v as a JSON object, or an empty map for any other shape.
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// pick returns the first non-nil value stored under any of keys.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// pickObject returns the first value under keys that is a JSON object.
func pickObject(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if o, ok := m[k].(map[string]any); ok {
			return o
		}
	}
	return map[string]any{}
}

// pickArray returns the first value under keys that is a JSON array.
func pickArray(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if a, ok := m[k].([]any); ok {
			return a
		}
	}
	return nil
}

// Text trims v when it is a string and returns fallback for any other type.
func Text(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fallback
}

// StringList keeps the truthy items of an array as trimmed strings.
// Non-arrays yield an empty, non-nil slice.
func StringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		switch x := item.(type) {
		case string:
			s = strings.TrimSpace(x)
		case float64:
			if x != 0 && !math.IsNaN(x) {
				s = strconv.FormatFloat(x, 'f', -1, 64)
			}
		case json.Number:
			if f, err := x.Float64(); err == nil && f != 0 {
				s = x.String()
			}
		case bool:
			if x {
				s = "true"
			}
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FixedList truncates or pads v to exactly n items. Padding items read
// "<prefix> <position>".
func FixedList(v any, n int, prefix string) []string {
	return padList(StringList(v), n, prefix)
}

func padList(list []string, n int, prefix string) []string {
	if len(list) > n {
		list = list[:n]
	}
	out := make([]string, len(list), n)
	copy(out, list)
	for len(out) < n {
		out = append(out, fmt.Sprintf("%s %d", prefix, len(out)+1))
	}
	return out
}

// placeholderPattern matches items synthesized by padList for prefix.
func placeholderPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + ` \d+$`)
}

var (
	truthyTokens = map[string]bool{"true": true, "yes": true, "y": true, "1": true, "o": true, "허용": true, "가능": true}
	falsyTokens  = map[string]bool{"false": true, "no": true, "n": true, "0": true, "x": true, "불가": true, "금지": true}
)

// Bool accepts a boolean, a closed set of textual tokens, or a number
// (nonzero is true). Anything else yields fallback.
func Bool(v any, fallback bool) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		t := strings.ToLower(strings.TrimSpace(x))
		if truthyTokens[t] {
			return true
		}
		if falsyTokens[t] {
			return false
		}
	case float64:
		return x != 0
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f != 0
		}
	}
	return fallback
}

// IntInRange rounds v and clamps it into [lo, hi]. The second result is
// false when v is not a finite number; callers supply their own default.
// Numeric strings are accepted; nil, booleans and empty strings are not.
func IntInRange(v any, lo, hi int) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	n := int(math.Floor(f + 0.5))
	return clamp(n, lo, hi), true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
