// Package model defines the item catalog schema consumed by the form engine,
// the validator and the renderer. An Item declares a flat list of Fields; a
// field is either a scalar text input (FieldKindText) or a repeatable
// attribute group (FieldKindAttributes) whose Subfields describe the shape of
// every group entry. Records hold the user-entered values: scalars keyed by
// field id and groups as ordered entry sequences. Options accept either a bare
// string or a label/value mapping when decoded from YAML or JSON so catalog
// files can stay terse. Render functions travel with the Item in-process but
// are never serialised; ItemSummary is the transportable view.
package model
