package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

const studyVibe = "An app for beginner developers to track study time."

func TestTokens_DropsStopwordsAndShortTokens(t *testing.T) {
	assert.Equal(t, []string{"track", "study", "time"}, Tokens("Track the  study TIME a"))
	assert.Nil(t, Tokens("   "))
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 0.0, Overlap("", "anything here"))
	assert.Equal(t, 1.0, Overlap("checkout receipt", "receipt checkout"))
	assert.InDelta(t, 0.5, Overlap("checkout receipt", "checkout refund"), 1e-9)
}

func TestFieldConfidence(t *testing.T) {
	assert.Equal(t, 0, fieldConfidence("  ", studyVibe))
	// 40 base + 18 length + 12 not filler + 18 verbatim + round(2/8*24)
	assert.Equal(t, 94, fieldConfidence("beginner developers", studyVibe))
	assert.Equal(t, 40, fieldConfidence("TBD", studyVibe))
}

func TestSuggestField(t *testing.T) {
	assert.Equal(t, "Track study time", suggestField(schema.FieldWhat, "Track study time. Share with friends!", ""))
	assert.Equal(t, "every morning", suggestField(schema.FieldWhen, "Send a digest every morning to subscribers", ""))
	assert.Equal(t, "Beginner developers want a tracker", suggestField(schema.FieldWho, "Beginner developers want a tracker.", ""))
	assert.Equal(t, "fallback", suggestField(schema.FieldWhen, "", "fallback"))
}

func TestAnalyzeIntent_EmptyHypothesis(t *testing.T) {
	in := AnalyzeIntent("", schema.Hypothesis{})
	assert.Equal(t, 0, in.Overall)
	assert.Equal(t, "low", in.Band)
	assert.Equal(t, schema.FieldOrder, in.LowFields)
	require.Len(t, in.Questions, 3)
	assert.Contains(t, in.Questions[0], "who the user is")
	assert.Contains(t, in.Questions[1], "when this happens")
}

func TestAnalyzeIntent_LowFieldsSortedAscending(t *testing.T) {
	h := schema.Hypothesis{
		Who:     "beginner developers",
		When:    "TBD",
		What:    "track study time",
		Why:     "",
		Success: "beginner developers track study time",
	}
	in := AnalyzeIntent(studyVibe, h)
	require.NotEmpty(t, in.LowFields)
	assert.Equal(t, schema.FieldWhy, in.LowFields[0])
	assert.Equal(t, schema.FieldWhen, in.LowFields[1])
	for i := 1; i < len(in.LowFields); i++ {
		assert.LessOrEqual(t, in.FieldConfidence[in.LowFields[i-1]], in.FieldConfidence[in.LowFields[i]])
	}
	assert.Equal(t, "track study time", in.Suggested.What)
}

func TestAxisCoverage(t *testing.T) {
	// 2 lines * 14 + 3 tokens * 2
	assert.Equal(t, 34, AxisCoverage("- a\n\n2. sign up flow"))
	assert.Equal(t, 0, AxisCoverage(""))
}

func TestAnalyzeLogic_EmptyMap(t *testing.T) {
	l := AnalyzeLogic(schema.LogicMap{}, "")
	assert.Equal(t, 0, l.Overall)
	assert.Equal(t, 0, l.Alignment)
	require.Len(t, l.SyncSuggestions, MaxSuggestions)
	assert.Contains(t, l.SyncSuggestions[0], "TEXT axis is thin")

	l = AnalyzeLogic(schema.LogicMap{}, schema.AxisDB)
	require.Len(t, l.SyncSuggestions, MaxSuggestions)
	assert.Equal(t, changedAxisAdvice[schema.AxisDB], l.SyncSuggestions[0])
}

func TestAnalyzeLogic_SharedVocabulary(t *testing.T) {
	line := "checkout payment receipt"
	l := AnalyzeLogic(schema.LogicMap{Text: line, DB: line, API: line, UI: line}, "")
	assert.Equal(t, 100, l.Alignment)
	assert.Equal(t, 20, l.CoverageAvg)
	assert.Equal(t, 56, l.Overall)
}

func TestBuildLogicMap(t *testing.T) {
	s := schema.Spec{
		Features:    schema.Features{Must: []string{"Log sessions", "Weekly chart"}},
		InputFields: []schema.InputField{{Name: "minutes", Type: "number", Example: "30"}},
		Flow:        []string{"Open app", "Start timer"},
	}
	h := schema.Hypothesis{What: "track study time", Success: "weekly use"}
	m := BuildLogicMap(s, h)

	assert.Equal(t, "- Core problem: track study time\n- Success criteria: weekly use\n- Must feature: Log sessions\n- Must feature: Weekly chart", m.Text)
	assert.Equal(t, "- minutes: number (example: 30)", m.DB)
	assert.Equal(t, "- POST /api/task-1: Log sessions\n- POST /api/task-2: Weekly chart", m.API)
	assert.Equal(t, "1. Open app\n2. Start timer", m.UI)
}

func TestBuildLogicMap_EmptySpec(t *testing.T) {
	m := BuildLogicMap(schema.Spec{}, schema.Hypothesis{})
	assert.Empty(t, m.Text)
	assert.Equal(t, "- Define the input fields first.", m.DB)
	assert.NotEmpty(t, m.API)
	assert.NotEmpty(t, m.UI)
}

func TestHypothesisFromSpec(t *testing.T) {
	s := schema.Spec{ProblemFrame: schema.ProblemFrame{Who: "a", When: "b", What: "c", Why: "d", SuccessCriteria: "e"}}
	assert.Equal(t, schema.Hypothesis{Who: "a", When: "b", What: "c", Why: "d", Success: "e"}, HypothesisFromSpec(s))
}

func TestAppendLine(t *testing.T) {
	assert.Equal(t, "x", AppendLine("", "x"))
	assert.Equal(t, "a\nx", AppendLine("a\n", "x"))
	assert.Equal(t, "a\nx", AppendLine("a\nx", "x"))
	assert.Equal(t, "a", AppendLine("a", "  "))
}
