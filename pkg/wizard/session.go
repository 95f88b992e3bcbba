package wizard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger routes session diagnostics to logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEngine supplies the form engine the session edits through.
func WithEngine(engine *form.Engine) SessionOption {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// Session is the host-side state of one wizard run: the cached item list, the
// active item with its form engine, and the last accepted document. It is not
// safe for concurrent use.
type Session struct {
	host   Host
	engine *form.Engine
	logger *slog.Logger

	items    []model.ItemSummary
	active   *model.Item
	document *Document
}

// NewSession starts a session against host.
func NewSession(host Host, opts ...SessionOption) *Session {
	s := &Session{
		host:   host,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.engine == nil {
		s.engine = form.NewEngine(form.WithLogger(s.logger))
	}
	return s
}

// Items returns the host's item summaries, fetching them once.
func (s *Session) Items(ctx context.Context) ([]model.ItemSummary, error) {
	if s.items != nil {
		return s.items, nil
	}
	items, err := s.host.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("wizard: list items: %w", err)
	}
	s.items = items
	return items, nil
}

// Select makes id the active item. The previous record and document are
// discarded, never merged.
func (s *Session) Select(ctx context.Context, id string) (model.Item, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return model.Item{}, err
	}
	for _, summary := range items {
		if summary.ID != id {
			continue
		}
		item := summary.Schema()
		s.engine.SelectItem(item)
		s.active = &item
		s.document = nil
		s.logger.Debug("item selected", "item", id)
		return item, nil
	}
	return model.Item{}, fmt.Errorf("%w %q", ErrUnknownItem, id)
}

// Active returns the active item.
func (s *Session) Active() (model.Item, bool) {
	if s.active == nil {
		return model.Item{}, false
	}
	return *s.active, true
}

// Engine returns the form engine holding the active record.
func (s *Session) Engine() *form.Engine {
	return s.engine
}

// Validate checks the active record.
func (s *Session) Validate() (validation.Result, error) {
	if s.active == nil {
		return validation.Result{}, ErrNoActiveItem
	}
	return validation.Validate(*s.active, s.engine.Record()), nil
}

// Submit sends the active record to the host once it is valid and accepts
// the resulting document. On error the record is left untouched so the user
// can correct it.
func (s *Session) Submit(ctx context.Context) (Document, error) {
	if s.active == nil {
		return Document{}, ErrNoActiveItem
	}
	record := s.engine.Record()
	if result := validation.Validate(*s.active, record); !result.Valid {
		return Document{}, &RecordError{ItemID: s.active.ID, Result: result}
	}

	doc, err := s.host.Generate(ctx, GenerateRequest{ItemID: s.active.ID, Record: record})
	if err != nil {
		return Document{}, err
	}
	if !s.Accept(doc) {
		return Document{}, fmt.Errorf("%w: generated for %q", ErrStaleDocument, doc.ItemID)
	}
	return doc, nil
}

// Accept records doc as the session result when it belongs to the active
// item. Documents for any other item are dropped and Accept reports false.
func (s *Session) Accept(doc Document) bool {
	if s.active == nil || doc.ItemID != s.active.ID {
		s.logger.Debug("stale document dropped", "item", doc.ItemID)
		return false
	}
	accepted := doc
	s.document = &accepted
	return true
}

// Document returns the last accepted document.
func (s *Session) Document() (Document, bool) {
	if s.document == nil {
		return Document{}, false
	}
	return *s.document, true
}
