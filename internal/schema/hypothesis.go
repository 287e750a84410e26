package schema

import "fmt"

// Field names one slot of the Hypothesis.
type Field string

const (
	FieldWho     Field = "who"
	FieldWhen    Field = "when"
	FieldWhat    Field = "what"
	FieldWhy     Field = "why"
	FieldSuccess Field = "success"
)

// FieldOrder is the canonical field order used for display and targeting.
var FieldOrder = []Field{FieldWho, FieldWhen, FieldWhat, FieldWhy, FieldSuccess}

// FieldIndex returns the canonical position of f, or -1.
func FieldIndex(f Field) int {
	for i, o := range FieldOrder {
		if o == f {
			return i
		}
	}
	return -1
}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if FieldIndex(f) < 0 {
		return "", fmt.Errorf("unknown hypothesis field %q: expected who, when, what, why, or success", s)
	}
	return f, nil
}

// Hypothesis is the editable five-field framing seeded from the problem frame.
type Hypothesis struct {
	Who     string `json:"who" yaml:"who"`
	When    string `json:"when" yaml:"when"`
	What    string `json:"what" yaml:"what"`
	Why     string `json:"why" yaml:"why"`
	Success string `json:"success" yaml:"success"`
}

// Get returns the value of field f.
func (h Hypothesis) Get(f Field) string {
	switch f {
	case FieldWho:
		return h.Who
	case FieldWhen:
		return h.When
	case FieldWhat:
		return h.What
	case FieldWhy:
		return h.Why
	case FieldSuccess:
		return h.Success
	}
	return ""
}

// Set assigns v to field f. Unknown fields are ignored.
func (h *Hypothesis) Set(f Field, v string) {
	switch f {
	case FieldWho:
		h.Who = v
	case FieldWhen:
		h.When = v
	case FieldWhat:
		h.What = v
	case FieldWhy:
		h.Why = v
	case FieldSuccess:
		h.Success = v
	}
}

// Axis names one LogicMap axis.
type Axis string

const (
	AxisText Axis = "text"
	AxisDB   Axis = "db"
	AxisAPI  Axis = "api"
	AxisUI   Axis = "ui"
)

// AxisOrder is the canonical axis order.
var AxisOrder = []Axis{AxisText, AxisDB, AxisAPI, AxisUI}

// ParseAxis validates an axis name.
func ParseAxis(s string) (Axis, error) {
	for _, a := range AxisOrder {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown logic map axis %q: expected text, db, api, or ui", s)
}

// LogicMap holds four free-text axes describing the implementation.
type LogicMap struct {
	Text string `json:"text" yaml:"text"`
	DB   string `json:"db" yaml:"db"`
	API  string `json:"api" yaml:"api"`
	UI   string `json:"ui" yaml:"ui"`
}

// Get returns the text of axis a.
func (m LogicMap) Get(a Axis) string {
	switch a {
	case AxisText:
		return m.Text
	case AxisDB:
		return m.DB
	case AxisAPI:
		return m.API
	case AxisUI:
		return m.UI
	}
	return ""
}

// Set assigns v to axis a. Unknown axes are ignored.
func (m *LogicMap) Set(a Axis, v string) {
	switch a {
	case AxisText:
		m.Text = v
	case AxisDB:
		m.DB = v
	case AxisAPI:
		m.API = v
	case AxisUI:
		m.UI = v
	}
}
