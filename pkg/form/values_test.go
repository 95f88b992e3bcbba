package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func TestRecordFromValues_YAML(t *testing.T) {
	raw := []byte(`
name: Invoice
typeCode: 100
description: ~
attributes:
  - name: total
    optional: false
    type: java.lang.Integer
`)
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	item := tableItem()
	item.Fields = append(item.Fields, model.Field{ID: "typeCode", Kind: model.FieldKindText})
	item.Fields[2].Subfields = append(item.Fields[2].Subfields, model.AttributeField{ID: "optional"})

	record, err := RecordFromValues(item, values)
	if err != nil {
		t.Fatalf("record from values: %v", err)
	}

	want := model.Record{
		Scalars: map[string]string{"name": "Invoice", "typeCode": "100"},
		Groups: map[string][]model.Entry{
			"attributes": {{"name": "total", "optional": "false", "type": "java.lang.Integer"}},
		},
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordFromValues_RejectsUnknownKeys(t *testing.T) {
	item := tableItem()

	if _, err := RecordFromValues(item, map[string]any{"bogus": "x"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for top-level key, got %v", err)
	}

	values := map[string]any{
		"attributes": []any{map[string]any{"name": "total", "bogus": "x"}},
	}
	if _, err := RecordFromValues(item, values); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for attribute key, got %v", err)
	}
}

func TestRecordFromValues_RejectsShapeMismatch(t *testing.T) {
	item := tableItem()

	if _, err := RecordFromValues(item, map[string]any{"name": []any{"x"}}); err == nil {
		t.Fatalf("expected error for list in scalar position")
	}
	if _, err := RecordFromValues(item, map[string]any{"attributes": "x"}); err == nil {
		t.Fatalf("expected error for scalar in group position")
	}
}

func TestCheckRecord(t *testing.T) {
	item := tableItem()

	valid := model.NewRecord()
	valid.Scalars["name"] = "Invoice"
	valid.Groups["attributes"] = []model.Entry{{"name": "total", "type": "java.lang.Integer"}}
	if err := CheckRecord(item, valid); err != nil {
		t.Fatalf("unexpected error for valid record: %v", err)
	}

	cases := map[string]struct {
		mutate func(*model.Record)
		want   error
	}{
		"unknown scalar": {
			mutate: func(r *model.Record) { r.Scalars["colour"] = "red" },
			want:   ErrUnknownField,
		},
		"group as scalar": {
			mutate: func(r *model.Record) { r.Scalars["attributes"] = "x" },
			want:   ErrNotAScalar,
		},
		"unknown group": {
			mutate: func(r *model.Record) { r.Groups["extras"] = nil },
			want:   ErrUnknownField,
		},
		"scalar as group": {
			mutate: func(r *model.Record) { r.Groups["name"] = nil },
			want:   ErrNotAGroup,
		},
		"unknown attribute": {
			mutate: func(r *model.Record) {
				r.Groups["attributes"] = []model.Entry{{"name": "total", "size": "10"}}
			},
			want: ErrUnknownField,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			record := valid.Clone()
			tc.mutate(&record)
			if err := CheckRecord(item, record); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
