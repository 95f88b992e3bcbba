package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template"
)

const (
	// ItemsDir holds the item definition documents of a catalog tree.
	ItemsDir = "items"
	// TemplatesDir holds one template per item, named after Item.Template.
	TemplatesDir = "templates"
)

// TemplateEngine renders and pre-compiles the templates items point at.
type TemplateEngine interface {
	template.TemplateRenderer
	Compile(name string) error
}

// Option configures catalog loading.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes loader diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// LoadFS reads every JSON/YAML document under items/ in fsys, checks the
// schema, and binds each item to its template in engine. Templates are
// compiled up front so a broken catalog fails at start-up.
func LoadFS(fsys fs.FS, engine TemplateEngine, opts ...Option) (*Catalog, error) {
	cfg := newOptions(opts)
	defs, err := readDefinitions(fsys)
	if err != nil {
		return nil, err
	}
	return build(defs, engine, cfg.logger)
}

type documentFile struct {
	OptionSets map[string][]model.Option `json:"optionSets" yaml:"optionSets"`
	Items      []itemFile                `json:"items" yaml:"items"`
}

type itemFile struct {
	ID       string      `json:"id" yaml:"id"`
	Label    string      `json:"label" yaml:"label"`
	Language string      `json:"language" yaml:"language"`
	Template string      `json:"template" yaml:"template"`
	Fields   []fieldFile `json:"fields" yaml:"fields"`

	source string
}

type fieldFile struct {
	ID          string          `json:"id" yaml:"id"`
	Label       string          `json:"label" yaml:"label"`
	Kind        model.FieldKind `json:"type" yaml:"type"`
	Placeholder string          `json:"placeholder" yaml:"placeholder"`
	Required    bool            `json:"required" yaml:"required"`
	Options     []model.Option  `json:"options" yaml:"options"`
	OptionSet   string          `json:"optionSet" yaml:"optionSet"`
	Fields      []attributeFile `json:"fields" yaml:"fields"`
}

type attributeFile struct {
	ID          string         `json:"id" yaml:"id"`
	Label       string         `json:"label" yaml:"label"`
	Placeholder string         `json:"placeholder" yaml:"placeholder"`
	Required    bool           `json:"required" yaml:"required"`
	Options     []model.Option `json:"options" yaml:"options"`
	OptionSet   string         `json:"optionSet" yaml:"optionSet"`
}

// definitions is the raw content of one catalog tree before normalisation.
type definitions struct {
	optionSets map[string][]model.Option
	items      []itemFile
}

func readDefinitions(fsys fs.FS) (definitions, error) {
	defs := definitions{optionSets: make(map[string][]model.Option)}
	if fsys == nil {
		return defs, nil
	}
	if _, err := fs.Stat(fsys, ItemsDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defs, nil
		}
		return defs, fmt.Errorf("catalog: stat %s: %w", ItemsDir, err)
	}

	setSources := make(map[string]string)
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ItemsDir, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", p, err)
		}
		doc, err := parseDocument(data, p)
		if err != nil {
			return err
		}

		for name, opts := range doc.OptionSets {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("catalog: file %s defines an option set without a name", p)
			}
			if prev, exists := setSources[name]; exists {
				return fmt.Errorf("catalog: duplicate option set %q (files %s and %s)", name, prev, p)
			}
			setSources[name] = p
			defs.optionSets[name] = append([]model.Option(nil), opts...)
		}

		for _, raw := range doc.Items {
			raw.ID = strings.TrimSpace(raw.ID)
			if raw.ID == "" {
				return fmt.Errorf("catalog: file %s defines an item without an id", p)
			}
			if prev, exists := seen[raw.ID]; exists {
				return fmt.Errorf("catalog: duplicate item %q (files %s and %s)", raw.ID, prev, p)
			}
			seen[raw.ID] = p
			raw.source = p
			defs.items = append(defs.items, raw)
		}
		return nil
	})
	if err != nil {
		return definitions{}, err
	}
	return defs, nil
}

// merge layers overlay on top of d. Overlay option sets replace sets with the
// same name; overlay items replace items with the same id in place and are
// appended otherwise.
func (d *definitions) merge(overlay definitions, logger *slog.Logger) {
	for name, opts := range overlay.optionSets {
		if _, exists := d.optionSets[name]; exists {
			logger.Info("catalog option set overridden", "set", name)
		}
		d.optionSets[name] = opts
	}

	index := make(map[string]int, len(d.items))
	for i, raw := range d.items {
		index[raw.ID] = i
	}
	for _, raw := range overlay.items {
		if i, exists := index[raw.ID]; exists {
			logger.Info("catalog item overridden", "item", raw.ID, "source", raw.source)
			d.items[i] = raw
			continue
		}
		index[raw.ID] = len(d.items)
		d.items = append(d.items, raw)
	}
}

func build(defs definitions, engine TemplateEngine, logger *slog.Logger) (*Catalog, error) {
	if engine == nil {
		return nil, errors.New("catalog: template engine is required")
	}

	cat := New()
	for _, raw := range defs.items {
		item, err := normaliseItem(raw, defs.optionSets, logger)
		if err != nil {
			return nil, err
		}
		if err := engine.Compile(item.Template); err != nil {
			return nil, fmt.Errorf("catalog: item %q (file %s) template %q: %w", item.ID, raw.source, item.Template, err)
		}
		item.Render = render.TemplateFunc(engine, item.Template)

		if err := cat.Register(item); err != nil {
			return nil, err
		}
		logger.Debug("catalog item registered", "item", item.ID, "fields", len(item.Fields), "source", raw.source)
	}
	return cat, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(bytes.TrimSpace(data)) == 0 {
		return documentFile{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	if strings.EqualFold(path.Ext(source), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return documentFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
		}
		return doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return documentFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseItem(raw itemFile, sets map[string][]model.Option, logger *slog.Logger) (model.Item, error) {
	item := model.Item{
		ID:       raw.ID,
		Label:    sanitizeText(raw.Label),
		Language: strings.TrimSpace(raw.Language),
		Template: strings.TrimSpace(raw.Template),
		Fields:   make([]model.Field, 0, len(raw.Fields)),
	}
	if item.Label == "" {
		item.Label = item.ID
	}
	if item.Template == "" {
		item.Template = item.ID
	}
	if item.Language == "" {
		return model.Item{}, fmt.Errorf("catalog: item %q (file %s) has no language", item.ID, raw.source)
	}

	fieldIDs := make(map[string]struct{}, len(raw.Fields))
	for _, rf := range raw.Fields {
		field, err := normaliseField(rf, sets)
		if err != nil {
			return model.Item{}, fmt.Errorf("catalog: item %q (file %s): %w", item.ID, raw.source, err)
		}
		if _, dup := fieldIDs[field.ID]; dup {
			return model.Item{}, fmt.Errorf("catalog: item %q (file %s): duplicate field %q", item.ID, raw.source, field.ID)
		}
		fieldIDs[field.ID] = struct{}{}
		if field.IsGroup() && len(field.Subfields) == 0 {
			logger.Warn("attribute group has no schema", "item", item.ID, "field", field.ID)
		}
		item.Fields = append(item.Fields, field)
	}
	return item, nil
}

func normaliseField(raw fieldFile, sets map[string][]model.Option) (model.Field, error) {
	field := model.Field{
		ID:          strings.TrimSpace(raw.ID),
		Label:       sanitizeText(raw.Label),
		Kind:        raw.Kind,
		Placeholder: sanitizeText(raw.Placeholder),
		Required:    raw.Required,
	}
	if field.ID == "" {
		return model.Field{}, errors.New("field without an id")
	}
	if field.Label == "" {
		field.Label = field.ID
	}
	if field.Kind == "" {
		field.Kind = model.FieldKindText
	}

	switch field.Kind {
	case model.FieldKindText:
		if len(raw.Fields) > 0 {
			return model.Field{}, fmt.Errorf("text field %q cannot declare subfields", field.ID)
		}
		opts, err := resolveOptions(raw.Options, raw.OptionSet, sets)
		if err != nil {
			return model.Field{}, fmt.Errorf("field %q: %w", field.ID, err)
		}
		field.Options = opts
	case model.FieldKindAttributes:
		if len(raw.Options) > 0 || raw.OptionSet != "" {
			return model.Field{}, fmt.Errorf("attribute group %q cannot declare options", field.ID)
		}
		if raw.Required {
			return model.Field{}, fmt.Errorf("attribute group %q cannot be required", field.ID)
		}
		subs := make([]model.AttributeField, 0, len(raw.Fields))
		subIDs := make(map[string]struct{}, len(raw.Fields))
		for _, rs := range raw.Fields {
			sub := model.AttributeField{
				ID:          strings.TrimSpace(rs.ID),
				Label:       sanitizeText(rs.Label),
				Placeholder: sanitizeText(rs.Placeholder),
				Required:    rs.Required,
			}
			if sub.ID == "" {
				return model.Field{}, fmt.Errorf("attribute group %q has a subfield without an id", field.ID)
			}
			if _, dup := subIDs[sub.ID]; dup {
				return model.Field{}, fmt.Errorf("attribute group %q: duplicate subfield %q", field.ID, sub.ID)
			}
			subIDs[sub.ID] = struct{}{}
			if sub.Label == "" {
				sub.Label = sub.ID
			}
			opts, err := resolveOptions(rs.Options, rs.OptionSet, sets)
			if err != nil {
				return model.Field{}, fmt.Errorf("subfield %s.%s: %w", field.ID, sub.ID, err)
			}
			sub.Options = opts
			subs = append(subs, sub)
		}
		field.Subfields = subs
	default:
		return model.Field{}, fmt.Errorf("field %q has unknown type %q", field.ID, field.Kind)
	}
	return field, nil
}

func resolveOptions(inline []model.Option, setName string, sets map[string][]model.Option) ([]model.Option, error) {
	setName = strings.TrimSpace(setName)
	source := inline
	if setName != "" {
		if len(inline) > 0 {
			return nil, fmt.Errorf("both options and optionSet %q declared", setName)
		}
		set, ok := sets[setName]
		if !ok {
			return nil, fmt.Errorf("unknown option set %q", setName)
		}
		source = set
	}
	if len(source) == 0 {
		return nil, nil
	}

	out := make([]model.Option, 0, len(source))
	for _, opt := range source {
		if strings.TrimSpace(opt.Value) == "" {
			return nil, errors.New("option with an empty value")
		}
		label := sanitizeText(opt.Label)
		if label == "" {
			label = opt.Value
		}
		out = append(out, model.Option{Label: label, Value: opt.Value})
	}
	return out, nil
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
