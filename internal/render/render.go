// Package render formats a schema.Report for output.
package render

import (
	"fmt"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(report *schema.Report) ([]byte, error)
}

// Formats lists the supported format names.
var Formats = []string{"json", "md", "yaml", "text"}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "json" (default), "md", "yaml", "text".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json", "":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "yaml":
		return &yamlRenderer{}, nil
	case "text":
		return &textRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, md, yaml, text", format)
	}
}
