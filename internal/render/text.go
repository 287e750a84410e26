package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/focus"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

var (
	colorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}

	passStyle    = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle    = lipgloss.NewStyle().Foreground(colorFail)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

const separator = "──────────────────────────────────────────"

type textRenderer struct{}

func signalStyle(s schema.Signal) lipgloss.Style {
	switch s {
	case schema.SignalPass:
		return passStyle
	case schema.SignalReview:
		return warnStyle
	}
	return failStyle
}

func gateStyle(g schema.GateStatus) lipgloss.Style {
	switch g {
	case schema.GatePass:
		return passStyle
	case schema.GateReview:
		return warnStyle
	}
	return failStyle
}

func severityStyle(s schema.Severity) lipgloss.Style {
	switch s {
	case schema.SeverityCritical, schema.SeverityHigh:
		return failStyle
	case schema.SeverityMedium:
		return warnStyle
	}
	return mutedStyle
}

func (r *textRenderer) Render(report *schema.Report) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintln(&b, headingStyle.Render(report.Spec.Summary))
	fmt.Fprintf(&b, "gate %s  completeness %d/100  warnings %d\n",
		gateStyle(report.Gate).Render(strings.ToUpper(string(report.Gate))),
		report.Spec.Completeness.Score, report.Summary.Total)
	fmt.Fprintln(&b, mutedStyle.Render(separator))

	fmt.Fprintln(&b, headingStyle.Render("Hypothesis"))
	for _, f := range schema.FieldOrder {
		fmt.Fprintf(&b, "  %-8s %s\n", f, report.Hypothesis.Get(f))
	}

	fmt.Fprintln(&b, headingStyle.Render("Signals"))
	for _, row := range []struct {
		name string
		sig  schema.Signal
	}{
		{"data_flow", report.Signals.DataFlow},
		{"permission", report.Signals.Permission},
		{"coherence", report.Signals.Coherence},
	} {
		fmt.Fprintf(&b, "  %-11s %s\n", row.name, signalStyle(row.sig).Render(string(row.sig)))
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(&b, headingStyle.Render("Warnings"))
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "  %s %s %s\n",
				severityStyle(w.Severity).Render(fmt.Sprintf("[%s]", w.Severity)),
				w.ID, w.Title)
			if w.Detail != "" {
				fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(w.Detail))
			}
			for _, a := range w.Actions {
				fmt.Fprintf(&b, "    └─ %s %s\n", a.ID, a.Label)
			}
		}
	}

	if report.Focus != nil && report.Focus.Active {
		meta := focus.MetaFor(report.Focus.Urgency)
		fmt.Fprintf(&b, "%s %s\n", headingStyle.Render(meta.Icon+" focus"), report.Focus.Message)
	}

	if report.Stacks != nil {
		fmt.Fprintln(&b, headingStyle.Render("Stacks"))
		for _, f := range report.Stacks.Frames {
			fmt.Fprintf(&b, "  %s %s\n", f.Label, mutedStyle.Render(f.Strategy))
			for _, s := range f.Stacks {
				fmt.Fprintf(&b, "    - %s (%s)\n", s.Name, s.Confidence)
			}
		}
	}

	fmt.Fprintln(&b, mutedStyle.Render(separator))
	fmt.Fprintln(&b, mutedStyle.Render(fmt.Sprintf("model %s  temperature %g", report.Meta.Model, report.Meta.Temperature)))
	return []byte(b.String()), nil
}
