package form

import "errors"

var (
	// ErrNoItem signals an edit before any item was selected.
	ErrNoItem = errors.New("form: no item selected")
	// ErrUnknownField is returned for field ids absent from the item schema.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrNotAGroup is returned when a group operation targets a scalar field.
	ErrNotAGroup = errors.New("form: field is not an attribute group")
	// ErrNotAScalar is returned when a scalar operation targets a group.
	ErrNotAScalar = errors.New("form: field is not a scalar")
	// ErrUnknownEntry is returned for handles that do not belong to the group.
	ErrUnknownEntry = errors.New("form: unknown group entry")
	// ErrNoSubfields marks a group whose schema declares no attributes. Adding
	// entries to such a group is a no-op.
	ErrNoSubfields = errors.New("form: attribute group declares no subfields")
)
