// Package redact masks credentials in vibe text before it is sent to a model
// provider, and in error text before it is logged or shown.
package redact

import (
	"regexp"
	"sort"
	"strings"
)

const redacted = "[REDACTED]"

// pemPattern matches PEM key blocks across multiple lines.
var pemPattern = regexp.MustCompile(`(?s)-----BEGIN [A-Z ]+KEY-----.*?-----END [A-Z ]+KEY-----`)

// rule is one single-line secret pattern. keep is a capture-group prefix
// that survives replacement.
type rule struct {
	name    string
	pattern *regexp.Regexp
	keep    bool
}

// rules are applied in order.
var rules = []rule{
	{name: "aws-access-key", pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{name: "google-api-key", pattern: regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)},
	{name: "provider-secret-key", pattern: regexp.MustCompile(`(^|[\s"'=:])sk-(?:ant-|proj-)?[A-Za-z0-9_\-]{20,}`), keep: true},
	{name: "jwt", pattern: regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`)},
	{name: "bearer", pattern: regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]{20,}=*`)},
	{name: "key-query-param", pattern: regexp.MustCompile(`([?&](?:key|api_key)=)[^&\s"']+`), keep: true},
	{name: "password", pattern: regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`)},
}

// Redact replaces known secret patterns in input with [REDACTED].
// Line structure is preserved: the number of newlines in the output
// always equals the number of newlines in the input.
func Redact(input string) string {
	input = pemPattern.ReplaceAllStringFunc(input, func(match string) string {
		lines := strings.Split(match, "\n")
		for i := range lines {
			lines[i] = redacted
		}
		return strings.Join(lines, "\n")
	})

	for _, r := range rules {
		if r.keep {
			input = r.pattern.ReplaceAllString(input, "${1}"+redacted)
			continue
		}
		input = r.pattern.ReplaceAllString(input, redacted)
	}
	return input
}

// Matches names the rules that fire on input, sorted. PEM blocks report as
// "pem-block".
func Matches(input string) []string {
	var out []string
	if pemPattern.MatchString(input) {
		out = append(out, "pem-block")
	}
	for _, r := range rules {
		if r.pattern.MatchString(input) {
			out = append(out, r.name)
		}
	}
	sort.Strings(out)
	return out
}

// Secrets masks every literal occurrence of the given secrets, then applies
// Redact. Secrets shorter than 4 characters are ignored.
func Secrets(input string, secrets ...string) string {
	for _, s := range secrets {
		if len(strings.TrimSpace(s)) < 4 {
			continue
		}
		input = strings.ReplaceAll(input, s, redacted)
	}
	return Redact(input)
}
