package template

import (
	"io"
)

// TemplateRenderer is the seam between page renderers and a concrete template
// engine.
type TemplateRenderer interface {
	RenderTemplate(w io.Writer, name string, data any) error
}
