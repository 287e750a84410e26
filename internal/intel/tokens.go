// Package intel scores how well the Hypothesis and LogicMap are supported by
// the source vibe and by each other, and derives both from a Spec.
package intel

import (
	"math"
	"regexp"
	"strings"
)

var (
	tokenPattern  = regexp.MustCompile(`[a-z0-9가-힣_]{2,}`)
	spaceRun      = regexp.MustCompile(`\s+`)
	fillerPattern = regexp.MustCompile(`(?i)(미정|아직|tbd|todo|unknown|없음|미입력|추후|불명|n/a|needs? to be defined|not defined)`)
)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true, "this": true,
	"from": true, "into": true, "will": true, "have": true, "has": true,
	"feature": true, "features": true, "screen": true, "user": true, "users": true,
	"data": true, "information": true, "step": true, "criteria": true, "request": true, "change": true,
	"있는": true, "에서": true, "으로": true, "에게": true, "하기": true, "위해": true, "대한": true,
	"그리고": true, "또한": true, "기능": true, "화면": true, "사용자": true, "데이터": true, "정보": true,
	"처리": true, "단계": true, "기준": true, "가설": true, "정의": true, "요청": true, "변경": true,
}

// collapse trims s and folds whitespace runs into single spaces.
func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Tokens returns the meaningful lowercase tokens of s, stopwords removed.
func Tokens(s string) []string {
	norm := strings.ToLower(collapse(s))
	if norm == "" {
		return nil
	}
	var out []string
	for _, tok := range tokenPattern.FindAllString(norm, -1) {
		if !stopwords[tok] {
			out = append(out, tok)
		}
	}
	return out
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, t := range Tokens(s) {
		set[t] = true
	}
	return set
}

// Overlap is |A∩B| / max(|A|,|B|) over the distinct tokens of a and b.
func Overlap(a, b string) float64 {
	left, right := tokenSet(a), tokenSet(b)
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	shared := 0
	for t := range left {
		if right[t] {
			shared++
		}
	}
	return float64(shared) / float64(max(len(left), len(right)))
}

func round(f float64) int {
	return int(math.Floor(f + 0.5))
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
