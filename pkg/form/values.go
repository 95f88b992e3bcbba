package form

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// RecordFromValues builds a record from decoded JSON or YAML, the wire shape
// of a generation request: scalar fields map to strings and attribute groups
// to lists of string maps. Keys outside the item schema are rejected.
func RecordFromValues(item model.Item, values map[string]any) (model.Record, error) {
	record := model.NewRecord()
	for _, field := range item.Fields {
		if field.IsGroup() {
			record.Groups[field.ID] = []model.Entry{}
		}
	}

	for key, raw := range values {
		field, ok := item.Field(key)
		if !ok {
			return model.Record{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		if !field.IsGroup() {
			value, set, err := scalarText(raw)
			if err != nil {
				return model.Record{}, fmt.Errorf("form: field %s: %w", key, err)
			}
			if set {
				record.Scalars[key] = value
			}
			continue
		}

		entries, err := decodeEntries(field, raw)
		if err != nil {
			return model.Record{}, err
		}
		record.Groups[key] = entries
	}
	return record, nil
}

func decodeEntries(field model.Field, raw any) ([]model.Entry, error) {
	if raw == nil {
		return []model.Entry{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("form: field %s: expected a list of entries, got %T", field.ID, raw)
	}

	entries := make([]model.Entry, 0, len(list))
	for idx, item := range list {
		values, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("form: field %s.%d: expected a mapping, got %T", field.ID, idx, item)
		}
		entry := model.Entry{}
		for attr, value := range values {
			if _, ok := field.Subfield(attr); !ok {
				return nil, fmt.Errorf("%w: %s.%d.%s", ErrUnknownField, field.ID, idx, attr)
			}
			text, set, err := scalarText(value)
			if err != nil {
				return nil, fmt.Errorf("form: field %s.%d.%s: %w", field.ID, idx, attr, err)
			}
			if set {
				entry[attr] = text
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scalarText(raw any) (string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case uint64:
		return strconv.FormatUint(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	default:
		return "", false, fmt.Errorf("expected a scalar value, got %T", raw)
	}
}

// CheckRecord reports the first key in record that the item schema does not
// declare: a scalar that is unknown or names a group, a group that is
// unknown or names a scalar, or an entry attribute outside the group's
// subfields.
func CheckRecord(item model.Item, record model.Record) error {
	for key := range record.Scalars {
		field, ok := item.Field(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		if field.IsGroup() {
			return fmt.Errorf("%w: %s", ErrNotAScalar, key)
		}
	}
	for key, entries := range record.Groups {
		field, ok := item.Field(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		if !field.IsGroup() {
			return fmt.Errorf("%w: %s", ErrNotAGroup, key)
		}
		for idx, entry := range entries {
			for attr := range entry {
				if _, ok := field.Subfield(attr); !ok {
					return fmt.Errorf("%w: %s.%d.%s", ErrUnknownField, key, idx, attr)
				}
			}
		}
	}
	return nil
}
