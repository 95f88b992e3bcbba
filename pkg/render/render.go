package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render/template"
)

// ErrNoRenderFunc is returned for items registered without a render function.
var ErrNoRenderFunc = errors.New("render: item has no render function")

// Render produces the output text for item using the values in record. It
// is deterministic and never mutates record.
func Render(item model.Item, record model.Record) (string, error) {
	if item.Render == nil {
		return "", fmt.Errorf("%w: %s", ErrNoRenderFunc, item.ID)
	}
	out, err := item.Render(record.Clone())
	if err != nil {
		return "", fmt.Errorf("render: item %s: %w", item.ID, err)
	}
	return out, nil
}

// TemplateFunc binds a named template to a RenderFunc. The record is
// flattened with Record.Values before execution, so templates address scalars
// by field id and iterate attribute groups as lists.
func TemplateFunc(engine template.TemplateRenderer, name string) model.RenderFunc {
	return func(record model.Record) (string, error) {
		if engine == nil {
			return "", errors.New("render: template engine is nil")
		}
		return engine.RenderTemplate(name, record.Values())
	}
}
