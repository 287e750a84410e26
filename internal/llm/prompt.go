package llm

import (
	"fmt"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/profile"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// SchemaHint is the JSON shape every generation must follow.
const SchemaHint = `{
  "one_line_summary": "string",
  "problem_frame": {
    "who": "string",
    "when": "string",
    "what": "string",
    "why": "string",
    "success_criteria": "string"
  },
  "interview_mode": {
    "follow_up_questions": ["string", "string", "string"]
  },
  "users_and_roles": [
    {"role": "string", "description": "string"}
  ],
  "core_features": {
    "must": ["string"],
    "nice_to_have": ["string"]
  },
  "user_flow_steps": ["string", "string", "string", "string", "string"],
  "input_fields": [
    {"name": "string", "type": "string", "example": "string"}
  ],
  "permission_matrix": [
    {"role": "string", "read": true, "create": true, "update": true, "delete": true, "notes": "string"}
  ],
  "ambiguities": {
    "missing_information": ["string"],
    "questions": ["string", "string", "string"]
  },
  "risks": ["string", "string", "string"],
  "test_scenarios": ["string", "string", "string"],
  "next_steps_today": ["string", "string", "string"],
  "completeness": {
    "score": 88,
    "warnings": ["string"]
  },
  "request_converter": {
    "original": "string",
    "short": "string",
    "standard": "string",
    "detailed": "string"
  },
  "impact_preview": {
    "screens": ["string"],
    "permissions": ["string"],
    "tests": ["string"]
  },
  "layer_guide": [
    {"layer": "L1|L2|L3|L4|L5", "goal": "string", "output": "string"}
  ]
}`

const systemPromptBase = `You are the "Vibe-to-Spec Transmuter" for an educational MVP focused on beginner-friendly software specs.
Goal: Convert an abstract vibe into a practical, implementation-ready standard output schema.

OUTPUT RULES (MUST FOLLOW):
1) Return JSON ONLY. No markdown wrapper. No prose outside JSON.
2) Follow the exact schema shape provided.
3) Answer in the language of the user vibe, but keep technical terms and identifiers in English when helpful.
4) The schema keys are fixed. Do not add extra top-level keys.
5) Keep output beginner-friendly and concrete.
6) "problem_frame" must fill all fields with concrete text.
7) "interview_mode.follow_up_questions" must always contain exactly 3 required-information questions.
8) "user_flow_steps" must have exactly 5 concise steps.
9) "ambiguities.questions", "risks", "test_scenarios", "next_steps_today" must each have exactly 3 items.
10) "permission_matrix" should be realistic by role and include clear CRUD booleans.
11) "completeness.score" must be an integer 0~100, and "completeness.warnings" must be actionable.
12) "request_converter" must include short/standard/detailed request variants that can be copied to developers.
13) "impact_preview" must mention at least one screen impact, one permission impact, and one test impact.
14) "layer_guide" must describe L1-L5 progression for beginners.`

// SystemPrompt returns the transmuter's output rules.
func SystemPrompt() string { return systemPromptBase }

// GenerationPrompt assembles the full generation prompt from the policy
// sections. A nil policy means baseline.
func GenerationPrompt(p *profile.Profile, vibe string, showThinking bool) string {
	if p == nil {
		p, _ = profile.Get(profile.Baseline)
	}
	sections := p.Sections(profile.SectionInput{
		SystemPrompt: systemPromptBase,
		SchemaHint:   SchemaHint,
		Vibe:         vibe,
		ShowThinking: showThinking,
	})
	return profile.FormatForPrompt(sections) + "\n\nReturn only the fixed schema above."
}

// RepairPrompt asks the model to fix its previous, unparseable output.
func RepairPrompt(previous string) string {
	return fmt.Sprintf("Your previous response was invalid JSON. Fix it now. Return JSON only and strictly follow schema.\nSchema:\n%s\nPrevious output:\n%s", SchemaHint, previous)
}

const stackPromptTemplate = `You are a pragmatic technical stack advisor for beginner-friendly product teams.
Task: keep 3 fixed decision frames(option_a/option_b/option_c), but propose concrete stacks dynamically from user context.

Return JSON only (no markdown) with this exact schema:
{
  "frames": [
    {
      "id": "option_a|option_b|option_c",
      "label": "Option A|Option B|Option C",
      "strategy": "string",
      "stacks": [
        {"name": "string", "why": "string", "fit": "string", "risk": "string", "confidence": "high|medium|low"}
      ]
    }
  ]
}

Rules:
- Always return exactly 3 frames: option_a, option_b, option_c.
- Propose 2~3 concrete stacks per frame. Mention real stacks when relevant (e.g., Rails, Django, NestJS, Spring Boot, .NET, Laravel, Supabase, Firebase).
- Avoid duplicate stack names across all frames when possible.
- Keep descriptions concise and beginner-readable.
- No extra top-level keys.

User vibe:
%s

Structured summary:
- summary: %s
- must_features: %s
- risks: %s`

// StackPrompt asks for a three-frame stack recommendation grounded in the
// vibe and the normalized spec.
func StackPrompt(vibe string, s schema.Spec) string {
	must := s.Features.Must
	if len(must) > 5 {
		must = must[:5]
	}
	risks := s.Risks
	if len(risks) > 3 {
		risks = risks[:3]
	}
	return fmt.Sprintf(stackPromptTemplate,
		strings.TrimSpace(vibe),
		dashIfEmpty(strings.TrimSpace(s.Summary)),
		dashIfEmpty(strings.Join(must, " | ")),
		dashIfEmpty(strings.Join(risks, " | ")),
	)
}

// StackRepairPrompt asks the model to fix an unparseable stack answer; the
// original prompt doubles as the schema reminder.
func StackRepairPrompt(prompt, previous string) string {
	return fmt.Sprintf("Your previous output was invalid JSON. Return valid JSON only.\nSchema reminder:\n%s\nPrevious output:\n%s", prompt, previous)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
