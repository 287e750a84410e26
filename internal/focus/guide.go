package focus

import (
	"fmt"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

const defaultTitle = "L4 warning"

// UIMeta is the display vocabulary for one urgency level.
type UIMeta struct {
	Label   string
	Icon    string
	Pattern string
	Action  string
}

var uiMeta = map[schema.Urgency]UIMeta{
	schema.UrgencyRed:    {Label: "red", Icon: "▲", Pattern: "!!!", Action: "fix immediately"},
	schema.UrgencyOrange: {Label: "orange", Icon: "◆", Pattern: "!!", Action: "fix first"},
	schema.UrgencyYellow: {Label: "yellow", Icon: "●", Pattern: "!", Action: "review"},
}

// MetaFor returns the display meta for u; unknown urgencies render as yellow.
func MetaFor(u schema.Urgency) UIMeta {
	if m, ok := uiMeta[u]; ok {
		return m
	}
	return uiMeta[schema.UrgencyYellow]
}

// Message renders the banner shown after jumping from a warning to L1.
func Message(g schema.FocusGuide) string {
	title := strings.TrimSpace(g.WarningTitle)
	if title == "" {
		title = defaultTitle
	}
	m := MetaFor(g.Urgency)
	return fmt.Sprintf("%s: moved here. Urgency: %s (%s %s) %s. Fix the highlighted fields first.",
		title, m.Label, m.Icon, m.Pattern, m.Action)
}

// Guide builds the active focus guide for a selected warning.
func Guide(w schema.Warning, lowFields []schema.Field) schema.FocusGuide {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		title = defaultTitle
	}
	g := schema.FocusGuide{
		Active:       true,
		WarningID:    w.ID,
		WarningTitle: title,
		Urgency:      Urgency(w),
		TargetFields: TargetFields(w, lowFields),
	}
	g.Message = Message(g)
	return g
}
