package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// noneOption lets the user clear an optional field backed by options.
const noneOption = "-- none --"

// Wizard drives one interactive generation: choose an item, fill its form,
// review group entries, confirm and generate.
type Wizard struct {
	session *wizard.Session
	driver  PromptDriver
	logger  *slog.Logger
	theme   Theme
}

// New constructs a Wizard against host with defaults (survey driver).
func New(host wizard.Host, options ...Option) (*Wizard, error) {
	if host == nil {
		return nil, errors.New("tui: host is required")
	}
	w := &Wizard{
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver()
	}
	w.session = wizard.NewSession(host,
		wizard.WithSessionLogger(w.logger),
		wizard.WithEngine(form.NewEngine(form.WithLogger(w.logger))),
	)
	return w, nil
}

// Session exposes the underlying session, mainly for inspection after Run.
func (w *Wizard) Session() *wizard.Session {
	return w.session
}

// Run walks the user through the whole flow. When itemID is non-empty the
// item prompt is skipped. The accepted document is returned.
func (w *Wizard) Run(ctx context.Context, itemID string) (wizard.Document, error) {
	if ctx == nil {
		return wizard.Document{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return wizard.Document{}, err
	}

	item, err := w.selectItem(ctx, itemID)
	if err != nil {
		return wizard.Document{}, err
	}

	if err := w.fillForm(ctx, item); err != nil {
		return wizard.Document{}, err
	}

	for {
		ok, err := w.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Generate %s?", item.Label),
			Default: true,
		})
		if err != nil {
			return wizard.Document{}, err
		}
		if !ok {
			return wizard.Document{}, ErrCancelled
		}

		doc, err := w.session.Submit(ctx)
		var recErr *wizard.RecordError
		if errors.As(err, &recErr) {
			for _, issue := range recErr.Result.Issues {
				w.info(ctx, w.theme.ErrorPrefix+"Invalid "+issue.Path+": "+issue.Message)
			}
			if err := w.repair(ctx, item, recErr.Result.Issues); err != nil {
				return wizard.Document{}, err
			}
			continue
		}
		if err != nil {
			return wizard.Document{}, err
		}

		w.logger.Debug("wizard finished", "item", doc.ItemID, "bytes", len(doc.Content))
		return doc, nil
	}
}

func (w *Wizard) selectItem(ctx context.Context, itemID string) (model.Item, error) {
	if strings.TrimSpace(itemID) != "" {
		return w.session.Select(ctx, itemID)
	}

	items, err := w.session.Items(ctx)
	if err != nil {
		return model.Item{}, err
	}
	if len(items) == 0 {
		return model.Item{}, ErrNoItems
	}

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}

	for {
		idx, err := w.driver.Select(ctx, SelectConfig{
			Message:      "Select an item",
			Options:      labels,
			DefaultIndex: 0,
			PageSize:     len(labels),
		})
		if err != nil {
			return model.Item{}, err
		}
		if idx < 0 || idx >= len(items) {
			w.info(ctx, w.theme.ErrorPrefix+"Invalid item selection")
			continue
		}
		return w.session.Select(ctx, items[idx].ID)
	}
}

func (w *Wizard) fillForm(ctx context.Context, item model.Item) error {
	engine := w.session.Engine()
	record := engine.Record()

	for _, field := range item.Fields {
		if field.IsGroup() {
			if err := w.promptGroup(ctx, field); err != nil {
				return err
			}
			continue
		}

		current, _ := record.Scalar(field.ID)
		value, err := w.promptValue(ctx, valuePrompt{
			path:        field.ID,
			label:       field.Label,
			placeholder: field.Placeholder,
			required:    field.Required,
			options:     field.Options,
			current:     current,
		})
		if err != nil {
			return err
		}
		if err := engine.SetScalar(field.ID, value); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) promptGroup(ctx context.Context, field model.Field) error {
	engine := w.session.Engine()

	for {
		entries, err := engine.Entries(field.ID)
		if err != nil {
			return err
		}
		add, err := w.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add an entry to %s? (%d so far)", field.Label, len(entries)),
			Default: len(entries) == 0,
		})
		if err != nil {
			return err
		}
		if !add {
			break
		}

		handle, err := engine.AddGroupEntry(field.ID)
		if errors.Is(err, form.ErrNoSubfields) {
			w.info(ctx, w.theme.InfoPrefix+field.Label+" has no fields to fill; skipping")
			return nil
		}
		if err != nil {
			return err
		}

		index := len(entries)
		for _, sub := range field.Subfields {
			value, err := w.promptValue(ctx, valuePrompt{
				path:        fmt.Sprintf("%s.%d.%s", field.ID, index, sub.ID),
				label:       sub.Label,
				placeholder: sub.Placeholder,
				required:    sub.Required,
				options:     sub.Options,
			})
			if err != nil {
				return err
			}
			if err := engine.SetAttribute(field.ID, handle, sub.ID, value); err != nil {
				return err
			}
		}
	}

	return w.reviewGroup(ctx, field)
}

// reviewGroup offers to remove entries. Removal goes by handle so the
// remaining entries keep their order and values.
func (w *Wizard) reviewGroup(ctx context.Context, field model.Field) error {
	engine := w.session.Engine()
	entries, err := engine.Entries(field.ID)
	if err != nil || len(entries) == 0 {
		return err
	}

	options := make([]string, len(entries))
	for i, entry := range entries {
		options[i] = describeEntry(i, field, entry.Values)
	}
	picked, err := w.driver.MultiSelect(ctx, SelectConfig{
		Message: fmt.Sprintf("Remove entries from %s", field.Label),
		Options: options,
		Help:    "Leave everything unselected to keep all entries",
	})
	if err != nil {
		return err
	}
	for _, idx := range picked {
		if idx < 0 || idx >= len(entries) {
			continue
		}
		if err := engine.RemoveGroupEntry(field.ID, entries[idx].Handle); err != nil {
			return err
		}
	}
	return nil
}

// repair re-prompts only the values named by issues. Group paths have the
// form group.index.attribute; the entry is addressed through its handle so
// no entry is added or reordered.
func (w *Wizard) repair(ctx context.Context, item model.Item, issues []validation.Issue) error {
	engine := w.session.Engine()
	for _, issue := range issues {
		parts := strings.SplitN(issue.Path, ".", 3)
		field, ok := item.Field(parts[0])
		if !ok {
			w.logger.Debug("issue for unknown field", "path", issue.Path)
			continue
		}

		if !field.IsGroup() {
			current, _ := engine.Record().Scalar(field.ID)
			value, err := w.promptValue(ctx, valuePrompt{
				path:        field.ID,
				label:       field.Label,
				placeholder: field.Placeholder,
				required:    field.Required,
				options:     field.Options,
				current:     current,
			})
			if err != nil {
				return err
			}
			if err := engine.SetScalar(field.ID, value); err != nil {
				return err
			}
			continue
		}

		if len(parts) != 3 {
			continue
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		entries, err := engine.Entries(field.ID)
		if err != nil {
			return err
		}
		sub, ok := field.Subfield(parts[2])
		if !ok || idx < 0 || idx >= len(entries) {
			w.logger.Debug("issue for unknown entry", "path", issue.Path)
			continue
		}
		value, err := w.promptValue(ctx, valuePrompt{
			path:        issue.Path,
			label:       sub.Label,
			placeholder: sub.Placeholder,
			required:    sub.Required,
			options:     sub.Options,
			current:     entries[idx].Values[sub.ID],
		})
		if err != nil {
			return err
		}
		if err := engine.SetAttribute(field.ID, entries[idx].Handle, sub.ID, value); err != nil {
			return err
		}
	}
	return nil
}

type valuePrompt struct {
	path        string
	label       string
	placeholder string
	required    bool
	options     []model.Option
	current     string
}

func (w *Wizard) promptValue(ctx context.Context, p valuePrompt) (string, error) {
	label := p.label
	if label == "" {
		label = p.path
	}
	message := label
	if !p.required {
		message += " (optional)"
	}

	if len(p.options) > 0 {
		return w.promptOption(ctx, p, message)
	}

	help := ""
	if p.placeholder != "" {
		help = "e.g. " + p.placeholder
	}
	for {
		response, err := w.driver.Input(ctx, InputConfig{
			Message: message,
			Default: p.current,
			Help:    help,
		})
		if err != nil {
			return "", err
		}
		if p.required && model.IsBlank(response) {
			w.info(ctx, fmt.Sprintf("%sInvalid %s: %s is required", w.theme.ErrorPrefix, p.path, label))
			continue
		}
		return response, nil
	}
}

func (w *Wizard) promptOption(ctx context.Context, p valuePrompt, message string) (string, error) {
	labels := make([]string, 0, len(p.options)+1)
	offset := 0
	if !p.required {
		labels = append(labels, noneOption)
		offset = 1
	}
	defaultIdx := 0
	for i, opt := range p.options {
		labels = append(labels, opt.DisplayLabel())
		if p.current != "" && opt.Value == p.current {
			defaultIdx = i + offset
		}
	}

	for {
		idx, err := w.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(labels) {
			w.info(ctx, fmt.Sprintf("%sInvalid %s selection", w.theme.ErrorPrefix, p.path))
			continue
		}
		if idx < offset {
			return "", nil
		}
		return p.options[idx-offset].Value, nil
	}
}

func describeEntry(idx int, field model.Field, values model.Entry) string {
	parts := make([]string, 0, len(field.Subfields))
	for _, sub := range field.Subfields {
		if v := values[sub.ID]; v != "" {
			parts = append(parts, sub.ID+"="+v)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d. (empty)", idx+1)
	}
	return fmt.Sprintf("%d. %s", idx+1, strings.Join(parts, ", "))
}

func (w *Wizard) info(ctx context.Context, msg string) {
	if err := w.driver.Info(ctx, msg); err != nil {
		w.logger.Debug("info message not shown", "error", err)
	}
}
