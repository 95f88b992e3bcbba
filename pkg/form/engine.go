package form

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// EntryHandle identifies a group entry for its whole lifetime. Handles are
// never reused, so removing one entry cannot retarget another.
type EntryHandle string

// HandleEntry pairs a group entry with its handle.
type HandleEntry struct {
	Handle EntryHandle
	Values model.Entry
}

// group stores entries in an arena keyed by handle; order holds the visible
// sequence.
type group struct {
	order   []EntryHandle
	entries map[EntryHandle]model.Entry
}

// Engine materialises an editable record for the selected item and keeps it
// in sync with edits. An Engine owns exactly one record and is not safe for
// concurrent use.
type Engine struct {
	item     *model.Item
	scalars  map[string]string
	groups   map[string]*group
	logger   *slog.Logger
	newEntry func() EntryHandle
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHandleGenerator overrides how entry handles are minted.
func WithHandleGenerator(fn func() EntryHandle) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newEntry = fn
		}
	}
}

// NewEngine constructs an engine with no item selected.
func NewEngine(options ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		newEntry: func() EntryHandle {
			return EntryHandle(uuid.NewString())
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// SelectItem discards the current record and starts an empty one for item.
// Every attribute group begins as an empty sequence.
func (e *Engine) SelectItem(item model.Item) {
	selected := item
	e.item = &selected
	e.scalars = make(map[string]string)
	e.groups = make(map[string]*group)
	for _, field := range item.Fields {
		if field.IsGroup() {
			e.groups[field.ID] = &group{entries: make(map[EntryHandle]model.Entry)}
		}
	}
}

// Item returns the selected item.
func (e *Engine) Item() (model.Item, bool) {
	if e == nil || e.item == nil {
		return model.Item{}, false
	}
	return *e.item, true
}

// SetScalar stores value verbatim; an empty string means unset.
func (e *Engine) SetScalar(fieldID, value string) error {
	field, err := e.field(fieldID)
	if err != nil {
		return err
	}
	if field.IsGroup() {
		return fmt.Errorf("%w: %s", ErrNotAScalar, fieldID)
	}
	e.scalars[fieldID] = value
	return nil
}

// AddGroupEntry appends an empty entry to the group and returns its handle.
// A group without subfields is reported and left unchanged.
func (e *Engine) AddGroupEntry(groupID string) (EntryHandle, error) {
	grp, field, err := e.group(groupID)
	if err != nil {
		return "", err
	}
	if len(field.Subfields) == 0 {
		e.logger.Warn("attribute group has no schema", "item", e.item.ID, "group", groupID)
		return "", fmt.Errorf("%w: %s", ErrNoSubfields, groupID)
	}

	handle := e.newEntry()
	grp.entries[handle] = model.Entry{}
	grp.order = append(grp.order, handle)
	return handle, nil
}

// SetAttribute stores value verbatim into the entry referenced by handle.
func (e *Engine) SetAttribute(groupID string, handle EntryHandle, attributeID, value string) error {
	grp, field, err := e.group(groupID)
	if err != nil {
		return err
	}
	entry, ok := grp.entries[handle]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownEntry, groupID, handle)
	}
	if _, ok := field.Subfield(attributeID); !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, groupID, attributeID)
	}
	entry[attributeID] = value
	return nil
}

// RemoveGroupEntry drops exactly the entry referenced by handle. Remaining
// entries keep their relative order and values.
func (e *Engine) RemoveGroupEntry(groupID string, handle EntryHandle) error {
	grp, _, err := e.group(groupID)
	if err != nil {
		return err
	}
	if _, ok := grp.entries[handle]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownEntry, groupID, handle)
	}
	delete(grp.entries, handle)
	for i, h := range grp.order {
		if h == handle {
			grp.order = append(grp.order[:i:i], grp.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entries returns copies of the group entries in display order.
func (e *Engine) Entries(groupID string) ([]HandleEntry, error) {
	grp, _, err := e.group(groupID)
	if err != nil {
		return nil, err
	}
	out := make([]HandleEntry, 0, len(grp.order))
	for _, handle := range grp.order {
		out = append(out, HandleEntry{Handle: handle, Values: grp.entries[handle].Clone()})
	}
	return out, nil
}

// Record snapshots the current values. The snapshot shares no memory with
// the engine.
func (e *Engine) Record() model.Record {
	record := model.NewRecord()
	if e == nil || e.item == nil {
		return record
	}
	for k, v := range e.scalars {
		record.Scalars[k] = v
	}
	for id, grp := range e.groups {
		entries := make([]model.Entry, 0, len(grp.order))
		for _, handle := range grp.order {
			entries = append(entries, grp.entries[handle].Clone())
		}
		record.Groups[id] = entries
	}
	return record
}

// FieldValid reports whether a single field currently satisfies its
// required-field constraints.
func (e *Engine) FieldValid(fieldID string) bool {
	item, ok := e.Item()
	if !ok {
		return false
	}
	return validation.FieldValid(item, e.Record(), fieldID)
}

// Valid reports whether the whole record may be submitted.
func (e *Engine) Valid() bool {
	item, ok := e.Item()
	if !ok {
		return false
	}
	return validation.IsValid(item, e.Record())
}

func (e *Engine) field(fieldID string) (model.Field, error) {
	if e == nil || e.item == nil {
		return model.Field{}, ErrNoItem
	}
	field, ok := e.item.Field(fieldID)
	if !ok {
		return model.Field{}, fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	return field, nil
}

func (e *Engine) group(groupID string) (*group, model.Field, error) {
	field, err := e.field(groupID)
	if err != nil {
		return nil, model.Field{}, err
	}
	grp, ok := e.groups[groupID]
	if !ok || !field.IsGroup() {
		return nil, model.Field{}, fmt.Errorf("%w: %s", ErrNotAGroup, groupID)
	}
	return grp, field, nil
}
