package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/catalog"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	inputErr     error
	infoMessages []string
	inputCfgs    []InputConfig
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func defaultHost(t *testing.T) wizard.Host {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return wizard.NewService(cat)
}

func newWizard(t *testing.T, host wizard.Host, driver *stubDriver) *Wizard {
	t.Helper()
	w, err := New(host, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	return w
}

func TestWizard_TableFlowRepromptsRequiredField(t *testing.T) {
	driver := &stubDriver{
		// name (blank, then Invoice), typeCode, description, attribute name
		inputs: []string{"", "Invoice", "100", "", "total"},
		// item "Table", optional "False", type "Integer"
		selectIdx: []int{2, 1, 1},
		// add entry, stop adding, generate
		confirm:  []bool{true, false, true},
		multiIdx: [][]int{{}},
	}
	w := newWizard(t, defaultHost(t), driver)

	doc, err := w.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if doc.ItemID != "table" {
		t.Fatalf("unexpected item %q", doc.ItemID)
	}
	for _, want := range []string{
		`<itemtype code="Invoice"`,
		`<deployment table="invoice" typecode="100"/>`,
		`<attribute qualifier="total" type="java.lang.Integer">`,
		`optional="false"`,
	} {
		if !strings.Contains(doc.Content, want) {
			t.Fatalf("document missing %q:\n%s", want, doc.Content)
		}
	}
	if strings.Contains(doc.Content, "<description>") {
		t.Fatalf("blank description should be dropped:\n%s", doc.Content)
	}

	wantInfo := []string{"Invalid name: Table Name is required"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if driver.inputCfgs[0].Message != "Table Name" || driver.inputCfgs[2].Message != "Type Code (optional)" {
		t.Fatalf("unexpected prompt labels: %q, %q", driver.inputCfgs[0].Message, driver.inputCfgs[2].Message)
	}
	if driver.inputCfgs[1].Help != "e.g. MyTable" {
		t.Fatalf("placeholder not offered as help: %q", driver.inputCfgs[1].Help)
	}

	accepted, ok := w.Session().Document()
	if !ok || accepted.Content != doc.Content {
		t.Fatalf("session did not accept the document")
	}
}

func TestWizard_RemovesEntriesByHandle(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Invoice", "", "", "a", "b", "c"},
		selectIdx: []int{0, 0, 0, 0, 0, 0},
		confirm:   []bool{true, true, true, false, true},
		multiIdx:  [][]int{{0, 1}},
	}
	w := newWizard(t, defaultHost(t), driver)

	doc, err := w.Run(context.Background(), "table")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(doc.Content, "<attribute "); got != 1 {
		t.Fatalf("expected one attribute left, got %d:\n%s", got, doc.Content)
	}
	if !strings.Contains(doc.Content, `qualifier="c"`) {
		t.Fatalf("expected entry c to remain:\n%s", doc.Content)
	}
	if len(driver.selectCfgs) == 0 || driver.selectCfgs[0].Message == "Select an item" {
		t.Fatalf("item prompt should be skipped when an id is given")
	}
}

func TestWizard_OptionalSelectOffersNone(t *testing.T) {
	cat := catalog.New()
	cat.MustRegister(model.Item{
		ID:       "pick",
		Label:    "Pick",
		Language: "text",
		Fields: []model.Field{
			{ID: "method", Label: "Method", Kind: model.FieldKindText, Options: []model.Option{
				{Label: "GET", Value: "GET"},
				{Label: "POST", Value: "POST"},
			}},
			{ID: "verb", Label: "Verb", Kind: model.FieldKindText, Required: true, Options: []model.Option{
				{Label: "Read", Value: "read"},
			}},
		},
		Render: func(record model.Record) (string, error) {
			method, _ := record.Scalar("method")
			verb, _ := record.Scalar("verb")
			return "[" + method + "][" + verb + "]", nil
		},
	})

	driver := &stubDriver{
		selectIdx: []int{0, 0},
		confirm:   []bool{true},
	}
	w := newWizard(t, wizard.NewService(cat), driver)

	doc, err := w.Run(context.Background(), "pick")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if doc.Content != "[][read]" {
		t.Fatalf("unexpected content %q", doc.Content)
	}

	wantOptional := []string{noneOption, "GET", "POST"}
	if diff := cmp.Diff(wantOptional, driver.selectCfgs[0].Options); diff != "" {
		t.Fatalf("optional options mismatch (-want +got):\n%s", diff)
	}
	if driver.selectCfgs[0].Message != "Method (optional)" {
		t.Fatalf("unexpected message %q", driver.selectCfgs[0].Message)
	}
	if diff := cmp.Diff([]string{"Read"}, driver.selectCfgs[1].Options); diff != "" {
		t.Fatalf("required options mismatch (-want +got):\n%s", diff)
	}
}

func TestWizard_GroupWithoutSubfieldsIsSkipped(t *testing.T) {
	cat := catalog.New()
	cat.MustRegister(model.Item{
		ID:       "bare",
		Label:    "Bare",
		Language: "text",
		Fields: []model.Field{
			{ID: "attributes", Label: "Attributes", Kind: model.FieldKindAttributes},
		},
		Render: func(record model.Record) (string, error) {
			return strings.Repeat("x", len(record.Entries("attributes"))), nil
		},
	})

	driver := &stubDriver{confirm: []bool{true, true}}
	w := newWizard(t, wizard.NewService(cat), driver)

	doc, err := w.Run(context.Background(), "bare")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if doc.Content != "" {
		t.Fatalf("expected no entries, got %q", doc.Content)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "no fields") {
		t.Fatalf("expected skip notice, got %v", driver.infoMessages)
	}
}

// strictHost refuses the first submissions with the given issues, as a host
// with stricter checks than the local validator would.
type strictHost struct {
	wizard.Host
	issues   []validation.Issue
	refusals int
}

func (h *strictHost) Generate(ctx context.Context, req wizard.GenerateRequest) (wizard.Document, error) {
	if h.refusals > 0 {
		h.refusals--
		return wizard.Document{}, &wizard.RecordError{
			ItemID: req.ItemID,
			Result: validation.Result{Issues: h.issues},
		}
	}
	return h.Host.Generate(ctx, req)
}

func TestWizard_RefusedRecordRepromptsOnlyFailingPaths(t *testing.T) {
	host := &strictHost{
		Host:     defaultHost(t),
		refusals: 1,
		issues: []validation.Issue{
			{Path: "attributes.0.name", Field: "name", Message: "Attribute Name is reserved"},
			{Path: "name", Field: "name", Message: "Table Name is reserved"},
		},
	}
	driver := &stubDriver{
		// name, typeCode, description, attribute name, then the two repairs
		inputs: []string{"Invoice", "", "", "total", "sum", "Order"},
		// optional "False", type "Integer"
		selectIdx: []int{1, 1},
		// add entry, stop adding, generate (refused), generate
		confirm:  []bool{true, false, true, true},
		multiIdx: [][]int{{}},
	}
	w := newWizard(t, host, driver)

	doc, err := w.Run(context.Background(), "table")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(doc.Content, "<attribute "); got != 1 {
		t.Fatalf("expected one attribute after repair, got %d:\n%s", got, doc.Content)
	}
	for _, want := range []string{`<itemtype code="Order"`, `qualifier="sum"`} {
		if !strings.Contains(doc.Content, want) {
			t.Fatalf("document missing %q:\n%s", want, doc.Content)
		}
	}
	if driver.inputPos != len(driver.inputs) || driver.selectPos != 2 || driver.multiPos != 1 {
		t.Fatalf("unexpected prompt counts: inputs=%d selects=%d multi=%d", driver.inputPos, driver.selectPos, driver.multiPos)
	}
	if driver.inputCfgs[4].Default != "total" || driver.inputCfgs[5].Default != "Invoice" {
		t.Fatalf("repair prompts should offer current values: %q, %q", driver.inputCfgs[4].Default, driver.inputCfgs[5].Default)
	}

	wantInfo := []string{
		"Invalid attributes.0.name: Attribute Name is reserved",
		"Invalid name: Table Name is reserved",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestWizard_DeclinedConfirmation(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"Invoice", "", ""},
		confirm: []bool{false, false},
	}
	w := newWizard(t, defaultHost(t), driver)

	_, err := w.Run(context.Background(), "table")
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if _, ok := w.Session().Document(); ok {
		t.Fatalf("no document should be accepted")
	}
}

func TestWizard_AbortPropagates(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	w := newWizard(t, defaultHost(t), driver)

	if _, err := w.Run(context.Background(), "table"); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestWizard_UnknownItem(t *testing.T) {
	w := newWizard(t, defaultHost(t), &stubDriver{})
	if _, err := w.Run(context.Background(), "nonexistent"); !errors.Is(err, wizard.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestNew_RequiresHost(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil host")
	}
}
