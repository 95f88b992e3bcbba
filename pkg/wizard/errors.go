package wizard

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/catalog"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

var (
	// ErrUnknownItem is returned when a request names an item the catalog
	// does not hold.
	ErrUnknownItem = catalog.ErrUnknownItem
	// ErrInvalidRecord is returned when a record misses required values.
	ErrInvalidRecord = errors.New("wizard: record is incomplete")
	// ErrNoActiveItem is returned by session operations that need a selected
	// item.
	ErrNoActiveItem = errors.New("wizard: no item selected")
	// ErrStaleDocument is returned when a generated document no longer
	// matches the active item.
	ErrStaleDocument = errors.New("wizard: stale document")
)

// RecordError carries the failed checks of an incomplete record.
type RecordError struct {
	ItemID string
	Result validation.Result
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("wizard: item %s: record is incomplete: %s", e.ItemID, e.Result.Error())
}

// Unwrap lets errors.Is match ErrInvalidRecord.
func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}
