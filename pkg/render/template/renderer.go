package template

import (
	"io"
)

// TemplateRenderer is the seam between render functions and a concrete
// template engine. RenderTemplate resolves a named template through the
// engine's loaders and executes it with data, copying the output to every
// writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
