// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"io"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// TableItem returns a hand-built Table item schema without a render
// function, for tests that only exercise the form model.
func TableItem() model.Item {
	return model.Item{
		ID:       "table",
		Label:    "Table",
		Language: "java",
		Fields: []model.Field{
			{ID: "name", Label: "Table Name", Kind: model.FieldKindText, Required: true},
			{ID: "typeCode", Label: "Type Code", Kind: model.FieldKindText},
			{ID: "description", Label: "Component Description", Kind: model.FieldKindText},
			{
				ID:    "attributes",
				Label: "Attributes",
				Kind:  model.FieldKindAttributes,
				Subfields: []model.AttributeField{
					{ID: "name", Label: "Attribute Name", Required: true},
					{ID: "optional", Label: "Optional?", Required: true, Options: []model.Option{
						{Label: "True", Value: "true"},
						{Label: "False", Value: "false"},
					}},
					{ID: "type", Label: "Type", Required: true, Options: []model.Option{
						{Label: "String", Value: "java.lang.String"},
						{Label: "Integer", Value: "java.lang.Integer"},
					}},
				},
			},
		},
	}
}

// FillEngine selects item and applies scalars and group entries, failing the
// test on any engine error. Entries are added in slice order.
func FillEngine(t *testing.T, engine *form.Engine, item model.Item, scalars map[string]string, groups map[string][]model.Entry) {
	t.Helper()

	engine.SelectItem(item)
	for id, value := range scalars {
		if err := engine.SetScalar(id, value); err != nil {
			t.Fatalf("set %s: %v", id, err)
		}
	}
	for groupID, entries := range groups {
		for _, entry := range entries {
			handle, err := engine.AddGroupEntry(groupID)
			if err != nil {
				t.Fatalf("add %s entry: %v", groupID, err)
			}
			for attr, value := range entry {
				if err := engine.SetAttribute(groupID, handle, attr, value); err != nil {
					t.Fatalf("set %s.%s: %v", groupID, attr, err)
				}
			}
		}
	}
}
