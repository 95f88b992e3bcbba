package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template"
)

const templateExt = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir string
	layers  []fs.FS
}

// WithBaseDir loads templates from a directory on disk. Files there shadow
// templates of the same name in every WithFS layer.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS adds a template layer. Layers are searched in the order they were
// added.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.layers = append(cfg.layers, files)
		}
	}
}

// Engine satisfies template.TemplateRenderer with a pongo2 template set
// reading from a single layered file system, so includes resolve through the
// same lookup as the template that names them.
type Engine struct {
	templateSet *pongo2.TemplateSet
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. At least one of WithBaseDir or WithFS is
// required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var layers []fs.FS
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("gotemplate: base dir %s is not a directory", cfg.baseDir)
		}
		layers = append(layers, os.DirFS(cfg.baseDir))
	}
	layers = append(layers, cfg.layers...)
	if len(layers) == 0 {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	// Autoescaping is a pongo2 package setting. Generated code is never HTML,
	// so values must reach the output untouched.
	pongo2.SetAutoescape(false)
	registerDefaultFilters()

	return &Engine{
		templateSet: pongo2.NewSet("formwizard", pongo2.NewFSLoader(layeredFS(layers))),
	}, nil
}

// RenderTemplate executes the named template, appending ".tpl" when missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := templatePath(name)

	tmpl, err := e.load(path)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: template %q: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

// Compile parses and caches the named template so syntax errors and missing
// includes surface before the first render.
func (e *Engine) Compile(name string) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	_, err := e.load(templatePath(name))
	return err
}

func (e *Engine) load(path string) (*pongo2.Template, error) {
	tmpl, err := e.templateSet.FromCache(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	return tmpl, nil
}

func templatePath(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, templateExt) {
		return name
	}
	return name + templateExt
}

func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, fmt.Errorf("unsupported template data %T", data)
	}
}

// layeredFS opens a name from the first layer that has it.
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("capitalizefirst") {
		_ = pongo2.RegisterFilter("capitalizefirst", filterCapitalizeFirst)
	}
	if !pongo2.FilterExists("lowercasefirst") {
		_ = pongo2.RegisterFilter("lowercasefirst", filterLowercaseFirst)
	}
}

func filterCapitalizeFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(render.CapitalizeFirst(in.String())), nil
}

func filterLowercaseFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(render.LowercaseFirst(in.String())), nil
}
