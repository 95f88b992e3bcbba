package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
)

// Default loads the bundled catalog with a pongo2 engine over the embedded
// templates.
func Default(opts ...Option) (*Catalog, error) {
	return load(EmbeddedFS(), "", opts)
}

// Overlay loads the bundled catalog and layers dir on top of it. dir uses the
// same layout as the bundle: items/ documents add or replace items by id and
// templates/ files shadow bundled templates of the same name. Option sets
// declared in the bundle stay available to overlay items.
func Overlay(dir string, opts ...Option) (*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return Default(opts...)
	}
	return load(EmbeddedFS(), dir, opts)
}

func load(base fs.FS, dir string, opts []Option) (*Catalog, error) {
	cfg := newOptions(opts)

	engineOpts := []gotemplate.Option{gotemplate.WithFS(EmbeddedTemplates())}
	var overlay definitions
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("catalog: overlay %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("catalog: overlay %s is not a directory", dir)
		}

		tplDir := filepath.Join(dir, TemplatesDir)
		if info, err := os.Stat(tplDir); err == nil && info.IsDir() {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(tplDir))
		}

		overlay, err = readDefinitions(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		cfg.logger.Debug("catalog overlay read", "dir", dir, "items", len(overlay.items))
	}

	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("catalog: template engine: %w", err)
	}

	defs, err := readDefinitions(base)
	if err != nil {
		return nil, err
	}
	defs.merge(overlay, cfg.logger)
	return build(defs, engine, cfg.logger)
}
