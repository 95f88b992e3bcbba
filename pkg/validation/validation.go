package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Issue represents a failed required-field check with its dotted location.
type Issue struct {
	Path    string `json:"path"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result captures validation outcomes for a record.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Error joins the issue messages so a Result can be surfaced as a single
// line.
func (r Result) Error() string {
	if len(r.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
	}
	return strings.Join(parts, "; ")
}

// IsValid reports whether every required field of item carries a non-blank
// value in record. Attribute groups are never required themselves: an empty
// group passes, and every present entry must satisfy its required subfields.
func IsValid(item model.Item, record model.Record) bool {
	for _, field := range item.Fields {
		if !fieldValid(field, record) {
			return false
		}
	}
	return true
}

// FieldValid reports the validity of a single top-level field. Unknown ids
// are reported as valid since they carry no constraint.
func FieldValid(item model.Item, record model.Record, fieldID string) bool {
	field, ok := item.Field(fieldID)
	if !ok {
		return true
	}
	return fieldValid(field, record)
}

// Validate runs the same checks as IsValid and collects every failing path.
func Validate(item model.Item, record model.Record) Result {
	result := Result{Valid: true}
	for _, field := range item.Fields {
		if field.IsGroup() {
			for idx, entry := range record.Entries(field.ID) {
				for _, sub := range field.Subfields {
					if sub.Required && model.IsBlank(entry[sub.ID]) {
						result.Issues = append(result.Issues, Issue{
							Path:    field.ID + "." + strconv.Itoa(idx) + "." + sub.ID,
							Field:   sub.ID,
							Message: fmt.Sprintf("%s is required", displayLabel(sub.Label, sub.ID)),
						})
					}
				}
			}
			continue
		}
		if !field.Required {
			continue
		}
		value, _ := record.Scalar(field.ID)
		if model.IsBlank(value) {
			result.Issues = append(result.Issues, Issue{
				Path:    field.ID,
				Field:   field.ID,
				Message: fmt.Sprintf("%s is required", displayLabel(field.Label, field.ID)),
			})
		}
	}
	result.Valid = len(result.Issues) == 0
	return result
}

func fieldValid(field model.Field, record model.Record) bool {
	if field.IsGroup() {
		for _, entry := range record.Entries(field.ID) {
			if !entryValid(field, entry) {
				return false
			}
		}
		return true
	}
	if !field.Required {
		return true
	}
	value, ok := record.Scalar(field.ID)
	return ok && !model.IsBlank(value)
}

func entryValid(field model.Field, entry model.Entry) bool {
	for _, sub := range field.Subfields {
		if sub.Required && model.IsBlank(entry[sub.ID]) {
			return false
		}
	}
	return true
}

func displayLabel(label, id string) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return id
}
