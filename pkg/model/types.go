package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldKind discriminates the field variants an item can declare.
type FieldKind string

const (
	// FieldKindText is a scalar text input, optionally backed by options.
	FieldKindText FieldKind = "text"
	// FieldKindAttributes is a repeatable group of attribute sub-records.
	FieldKindAttributes FieldKind = "attributes"
)

// RenderFunc turns a completed record into output text. Implementations must
// be pure: no I/O and no mutation of the record.
type RenderFunc func(record Record) (string, error)

// Option is a selectable value for a text or attribute field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// DisplayLabel falls back to the value when no label is set.
func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// UnmarshalYAML accepts either a scalar ("GET") or a label/value mapping.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Label = node.Value
		o.Value = node.Value
		return nil
	}
	type plain Option
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return fmt.Errorf("model: decode option: %w", err)
	}
	*o = Option(decoded)
	if o.Label == "" {
		o.Label = o.Value
	}
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON payloads.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		o.Label = raw
		o.Value = raw
		return nil
	}
	type plain Option
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("model: decode option: %w", err)
	}
	*o = Option(decoded)
	if o.Label == "" {
		o.Label = o.Value
	}
	return nil
}

// AttributeField is a scalar-only field living inside an attribute group.
type AttributeField struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Field models one entry of an item's editable schema. Placeholder, Required
// and Options apply to FieldKindText; Subfields applies to
// FieldKindAttributes.
type Field struct {
	ID          string           `json:"id" yaml:"id"`
	Label       string           `json:"label" yaml:"label"`
	Kind        FieldKind        `json:"type" yaml:"type"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Subfields   []AttributeField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsGroup reports whether the field is a repeatable attribute group.
func (f Field) IsGroup() bool {
	return f.Kind == FieldKindAttributes
}

// Subfield looks up an attribute definition by id.
func (f Field) Subfield(id string) (AttributeField, bool) {
	for _, sub := range f.Subfields {
		if sub.ID == id {
			return sub, true
		}
	}
	return AttributeField{}, false
}

// Item is an immutable template definition.
type Item struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label" yaml:"label"`
	Language string     `json:"language" yaml:"language"`
	Fields   []Field    `json:"fields" yaml:"fields"`
	Template string     `json:"-" yaml:"template,omitempty"`
	Render   RenderFunc `json:"-" yaml:"-"`
}

// Field looks up a top-level field by id.
func (i Item) Field(id string) (Field, bool) {
	for _, field := range i.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Clone returns a copy whose field slices are independent of i.
func (i Item) Clone() Item {
	out := i
	out.Fields = cloneFields(i.Fields)
	return out
}

// Summary strips the render function, producing the transportable form.
func (i Item) Summary() ItemSummary {
	return ItemSummary{
		ID:       i.ID,
		Label:    i.Label,
		Language: i.Language,
		Fields:   cloneFields(i.Fields),
	}
}

// ItemSummary is the catalog metadata exchanged with hosts.
type ItemSummary struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Language string  `json:"language" yaml:"language"`
	Fields   []Field `json:"fields" yaml:"fields"`
}

// Schema rebuilds an Item from the summary. The result carries no render
// function, which is enough for form editing and validation.
func (s ItemSummary) Schema() Item {
	return Item{
		ID:       s.ID,
		Label:    s.Label,
		Language: s.Language,
		Fields:   cloneFields(s.Fields),
	}
}

// Entry is one group sub-record keyed by attribute id.
type Entry map[string]string

// Clone returns an independent copy of the entry.
func (e Entry) Clone() Entry {
	out := make(Entry, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Record holds the values entered for the active item. Group entries keep the
// order in which they were added.
type Record struct {
	Scalars map[string]string  `json:"scalars,omitempty" yaml:"scalars,omitempty"`
	Groups  map[string][]Entry `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// NewRecord returns an empty record with allocated maps.
func NewRecord() Record {
	return Record{
		Scalars: make(map[string]string),
		Groups:  make(map[string][]Entry),
	}
}

// Scalar returns the stored value for a scalar field.
func (r Record) Scalar(id string) (string, bool) {
	value, ok := r.Scalars[id]
	return value, ok
}

// Entries returns the ordered entries for a group field.
func (r Record) Entries(id string) []Entry {
	return r.Groups[id]
}

// Clone deep-copies the record.
func (r Record) Clone() Record {
	out := NewRecord()
	for k, v := range r.Scalars {
		out.Scalars[k] = v
	}
	for k, entries := range r.Groups {
		copied := make([]Entry, len(entries))
		for i, entry := range entries {
			copied[i] = entry.Clone()
		}
		out.Groups[k] = copied
	}
	return out
}

// Values flattens the record into the map shape templates consume: scalars
// map to strings and groups to slices of string maps. The result shares no
// memory with the record.
func (r Record) Values() map[string]any {
	out := make(map[string]any, len(r.Scalars)+len(r.Groups))
	for k, v := range r.Scalars {
		out[k] = v
	}
	for k, entries := range r.Groups {
		list := make([]any, 0, len(entries))
		for _, entry := range entries {
			values := make(map[string]any, len(entry))
			for attr, value := range entry {
				values[attr] = value
			}
			list = append(list, values)
		}
		out[k] = list
	}
	return out
}

// IsBlank reports whether a value counts as unset for required checks.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field
		out[i].Options = append([]Option(nil), field.Options...)
		if field.Subfields != nil {
			subs := make([]AttributeField, len(field.Subfields))
			for j, sub := range field.Subfields {
				subs[j] = sub
				subs[j].Options = append([]Option(nil), sub.Options...)
			}
			out[i].Subfields = subs
		}
	}
	return out
}
