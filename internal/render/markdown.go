package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

type markdownRenderer struct{}

var mdFuncs = template.FuncMap{
	"check": func(b bool) string {
		if b {
			return "O"
		}
		return "-"
	},
	"inc":   func(i int) int { return i + 1 },
	"upper": strings.ToUpper,
}

var mdTemplate = template.Must(template.New("report").Funcs(mdFuncs).Parse(`# {{ .Spec.Summary }}

**Gate:** {{ upper (print .Gate) }}
**Completeness:** {{ .Spec.Completeness.Score }}/100
**Warnings:** {{ .Summary.Total }} | **Hard blocks:** {{ .Summary.HardBlockCount }}

## Problem Frame

- **Who:** {{ .Spec.ProblemFrame.Who }}
- **When:** {{ .Spec.ProblemFrame.When }}
- **What:** {{ .Spec.ProblemFrame.What }}
- **Why:** {{ .Spec.ProblemFrame.Why }}
- **Success:** {{ .Spec.ProblemFrame.SuccessCriteria }}

## Users and Roles
{{ range .Spec.Roles }}
- **{{ .Role }}**: {{ .Description }}{{ end }}

## Core Features

**Must**
{{ range .Spec.Features.Must }}
- {{ . }}{{ end }}
{{ if .Spec.Features.Nice }}
**Nice to have**
{{ range .Spec.Features.Nice }}
- {{ . }}{{ end }}
{{ end }}
## User Flow
{{ range $i, $s := .Spec.Flow }}
{{ inc $i }}. {{ $s }}{{ end }}
{{ if .Spec.InputFields }}
## Input Fields

| Name | Type | Example |
|------|------|---------|{{ range .Spec.InputFields }}
| {{ .Name }} | {{ .Type }} | {{ .Example }} |{{ end }}
{{ end }}
## Permission Matrix

| Role | Read | Create | Update | Delete | Notes |
|------|------|--------|--------|--------|-------|{{ range .Spec.Permissions }}
| {{ .Role }} | {{ check .Read }} | {{ check .Create }} | {{ check .Update }} | {{ check .Delete }} | {{ .Notes }} |{{ end }}

## Open Questions
{{ range .Spec.Interview.FollowUps }}
- {{ . }}{{ end }}{{ range .Spec.Ambiguities.Questions }}
- {{ . }}{{ end }}

## Risks
{{ range .Spec.Risks }}
- {{ . }}{{ end }}

## Test Scenarios
{{ range .Spec.Tests }}
- {{ . }}{{ end }}

## Next Steps Today
{{ range .Spec.NextSteps }}
- [ ] {{ . }}{{ end }}

## Developer Request

{{ .Spec.Requests.Standard }}
{{ if .Warnings }}
---

## Integrity Warnings
{{ range .Warnings }}
### {{ .ID }} · {{ .Severity }} · {{ .Domain }} · {{ .GateImpact }}
**{{ .Title }}** (score {{ .Score }})

{{ .Detail }}
{{ if .Actions }}
Actions: {{ range $i, $a := .Actions }}{{ if $i }}, {{ end }}` + "`{{ $a.ID }}`" + ` {{ $a.Label }}{{ end }}
{{ end }}{{ end }}{{ end }}{{ if .Focus }}
> Focus: {{ .Focus.Message }}
{{ end }}{{ if .Stacks }}
---

## Stack Options
{{ range .Stacks.Frames }}
### {{ .Label }}{{ if .Strategy }} · {{ .Strategy }}{{ end }}
{{ range .Stacks }}
- **{{ .Name }}** ({{ .Confidence }}): {{ .Why }}{{ end }}
{{ end }}{{ end }}
---
*Model: {{ .Meta.Model }} | Temperature: {{ .Meta.Temperature }}*
`))

func (r *markdownRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
