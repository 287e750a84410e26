package intel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Thresholds shared with the data-flow signal.
const (
	ThinCoverage   = 50
	LowAlignment   = 45
	MaxSuggestions = 3
)

// Logic is the LogicMap density and cross-axis agreement report.
type Logic struct {
	Coverage        map[schema.Axis]int `json:"coverage" yaml:"coverage"`
	CoverageAvg     int                 `json:"coverage_avg" yaml:"coverage_avg"`
	Alignment       int                 `json:"alignment" yaml:"alignment"`
	Overall         int                 `json:"overall" yaml:"overall"`
	SyncSuggestions []string            `json:"sync_suggestions" yaml:"sync_suggestions"`
}

var listMarker = regexp.MustCompile(`^[-*\d.\s]+`)

// axisLines returns the non-empty lines of s with list markers removed.
func axisLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// AxisCoverage is min(100, 14 per line + 2 per token).
func AxisCoverage(s string) int {
	return clamp(14*len(axisLines(s))+2*len(Tokens(s)), 0, 100)
}

var alignmentPairs = [][2]schema.Axis{
	{schema.AxisText, schema.AxisDB},
	{schema.AxisDB, schema.AxisAPI},
	{schema.AxisAPI, schema.AxisUI},
	{schema.AxisText, schema.AxisUI},
}

var changedAxisAdvice = map[schema.Axis]string{
	schema.AxisText: "Carry the Text goal change into the DB fields, API contract and UI copy.",
	schema.AxisDB:   "Link the DB change to API request/response fields and UI input validation.",
	schema.AxisAPI:  "Reflect the API change in the UI call flow and error messages.",
	schema.AxisUI:   "Sync the UI step change with API endpoints and DB save timing.",
}

// AnalyzeLogic scores the map's coverage and alignment. changed is the axis
// the user just edited, or "" when none.
func AnalyzeLogic(m schema.LogicMap, changed schema.Axis) Logic {
	l := Logic{
		Coverage:        make(map[schema.Axis]int, len(schema.AxisOrder)),
		SyncSuggestions: []string{},
	}
	sum := 0
	for _, a := range schema.AxisOrder {
		c := AxisCoverage(m.Get(a))
		l.Coverage[a] = c
		sum += c
	}
	l.CoverageAvg = round(float64(sum) / float64(len(schema.AxisOrder)))

	var overlap float64
	for _, p := range alignmentPairs {
		overlap += Overlap(m.Get(p[0]), m.Get(p[1]))
	}
	l.Alignment = round(overlap / float64(len(alignmentPairs)) * 100)
	l.Overall = round(0.55*float64(l.CoverageAvg) + 0.45*float64(l.Alignment))

	if advice, ok := changedAxisAdvice[changed]; ok {
		l.SyncSuggestions = append(l.SyncSuggestions, advice)
	}
	for _, a := range schema.AxisOrder {
		if l.Coverage[a] < ThinCoverage {
			l.SyncSuggestions = append(l.SyncSuggestions,
				fmt.Sprintf("%s axis is thin. Add at least 3 concrete items.", strings.ToUpper(string(a))))
		}
	}
	if l.Alignment < LowAlignment {
		l.SyncSuggestions = append(l.SyncSuggestions,
			"The axes use different vocabulary. Share one keyword set across all four.")
	}
	if len(l.SyncSuggestions) > MaxSuggestions {
		l.SyncSuggestions = l.SyncSuggestions[:MaxSuggestions]
	}
	return l
}
