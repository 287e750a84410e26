package schema

// Report is the top-level output of a transmute or normalize run.
type Report struct {
	Tool       string         `json:"tool" yaml:"tool"`
	Version    string         `json:"version" yaml:"version"`
	Input      Input          `json:"input" yaml:"input"`
	Spec       Spec           `json:"spec" yaml:"spec"`
	Hypothesis Hypothesis     `json:"hypothesis" yaml:"hypothesis"`
	LogicMap   LogicMap       `json:"logic_map" yaml:"logic_map"`
	Signals    Signals        `json:"signals" yaml:"signals"`
	Warnings   []Warning      `json:"warnings" yaml:"warnings"`
	Gate       GateStatus     `json:"gate" yaml:"gate"`
	Summary    WarningSummary `json:"summary" yaml:"summary"`
	Focus      *FocusGuide    `json:"focus,omitempty" yaml:"focus,omitempty"`
	Stacks     *StackGuide    `json:"stacks,omitempty" yaml:"stacks,omitempty"`
	Meta       Meta           `json:"meta" yaml:"meta"`
}

// Input captures the parameters used for this run.
type Input struct {
	VibeFile string `json:"vibe_file" yaml:"vibe_file"`
	VibeHash string `json:"vibe_hash" yaml:"vibe_hash"` // SHA-256 of the original file, computed before redaction
}

// Meta holds runtime metadata about the model call.
type Meta struct {
	Provider    string  `json:"provider" yaml:"provider"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// Urgency is the display urgency of a focus guide.
type Urgency string

const (
	UrgencyRed    Urgency = "red"
	UrgencyOrange Urgency = "orange"
	UrgencyYellow Urgency = "yellow"
)

// FocusGuide routes a selected warning back to the hypothesis fields it implicates.
type FocusGuide struct {
	Active       bool    `json:"active" yaml:"active"`
	WarningID    string  `json:"warning_id" yaml:"warning_id"`
	WarningTitle string  `json:"warning_title" yaml:"warning_title"`
	Urgency      Urgency `json:"urgency" yaml:"urgency"`
	TargetFields []Field `json:"target_fields" yaml:"target_fields"`
	Message      string  `json:"message" yaml:"message"`
}

// StackGuide is a normalized technology-stack recommendation in three fixed frames.
type StackGuide struct {
	Provider string       `json:"provider" yaml:"provider"`
	Model    string       `json:"model" yaml:"model"`
	Frames   []StackFrame `json:"frames" yaml:"frames"`
}

type StackFrame struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Strategy string  `json:"strategy" yaml:"strategy"`
	Stacks   []Stack `json:"stacks" yaml:"stacks"`
}

// Stack is one concrete stack suggestion; Confidence is high, medium, or low.
type Stack struct {
	Name       string `json:"name" yaml:"name"`
	Why        string `json:"why" yaml:"why"`
	Fit        string `json:"fit" yaml:"fit"`
	Risk       string `json:"risk" yaml:"risk"`
	Confidence string `json:"confidence" yaml:"confidence"`
}
