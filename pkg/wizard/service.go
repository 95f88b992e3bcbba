package wizard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/catalog"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Host is the request/response surface a UI talks to.
type Host interface {
	ListItems(ctx context.Context) ([]model.ItemSummary, error)
	Generate(ctx context.Context, req GenerateRequest) (Document, error)
}

// GenerateRequest asks for item to be rendered with record. Its wire form is
// the {itemId, record} document read by DecodeRequest.
type GenerateRequest struct {
	ItemID string
	Record model.Record
}

// Option configures a Service.
type Option func(*Service)

// WithLogger routes service diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service implements Host over a catalog in the same process.
type Service struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

var _ Host = (*Service)(nil)

// NewService builds a Service over cat.
func NewService(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Catalog exposes the catalog the service renders from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// ListItems returns every item summary in catalog order.
func (s *Service) ListItems(ctx context.Context) ([]model.ItemSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.catalog == nil {
		return nil, errors.New("wizard: catalog is nil")
	}
	return s.catalog.Summaries(), nil
}

// Generate resolves the item, checks the record and renders it. Incomplete
// records are refused with a *RecordError.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if s.catalog == nil {
		return Document{}, errors.New("wizard: catalog is nil")
	}

	item, err := s.catalog.Get(req.ItemID)
	if err != nil {
		s.logger.Warn("generate for unknown item", "item", req.ItemID)
		return Document{}, err
	}

	if err := form.CheckRecord(item, req.Record); err != nil {
		return Document{}, fmt.Errorf("wizard: item %s: %w", item.ID, err)
	}
	if result := validation.Validate(item, req.Record); !result.Valid {
		s.logger.Debug("generate refused", "item", item.ID, "issues", len(result.Issues))
		return Document{}, &RecordError{ItemID: item.ID, Result: result}
	}

	content, err := render.Render(item, req.Record)
	if err != nil {
		return Document{}, fmt.Errorf("wizard: generate %s: %w", item.ID, err)
	}

	s.logger.Info("document generated", "item", item.ID, "language", item.Language, "bytes", len(content))
	return Document{
		ItemID:   item.ID,
		Language: item.Language,
		Content:  content,
	}, nil
}

type valuesDocument struct {
	ItemID string    `yaml:"itemId"`
	Record yaml.Node `yaml:"record"`
}

// DecodeRequest reads a {itemId, record} document in JSON or YAML. The record
// uses the template shape: scalars by field id and groups as lists of
// mappings. Scalars keep their literal text, so 0100, 1.50 and False reach
// the template as written. itemID, when non-empty, overrides the id in the
// document.
func (s *Service) DecodeRequest(r io.Reader, itemID string) (GenerateRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return GenerateRequest{}, fmt.Errorf("wizard: read values: %w", err)
	}

	var doc valuesDocument
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return GenerateRequest{}, fmt.Errorf("wizard: decode values: %w", err)
		}
	}
	if id := strings.TrimSpace(itemID); id != "" {
		doc.ItemID = id
	}
	if doc.ItemID == "" {
		return GenerateRequest{}, errors.New("wizard: values name no item")
	}

	item, err := s.catalog.Get(doc.ItemID)
	if err != nil {
		return GenerateRequest{}, err
	}
	values, err := nodeValues(&doc.Record)
	if err != nil {
		return GenerateRequest{}, fmt.Errorf("wizard: item %s: record: %w", item.ID, err)
	}
	record, err := form.RecordFromValues(item, values)
	if err != nil {
		return GenerateRequest{}, fmt.Errorf("wizard: item %s: %w", item.ID, err)
	}
	return GenerateRequest{ItemID: item.ID, Record: record}, nil
}

// nodeValues converts the record node into the map shape RecordFromValues
// accepts, taking scalar text from the document instead of the resolved
// YAML type. An absent record is empty.
func nodeValues(node *yaml.Node) (map[string]any, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	value, err := nodeValue(node)
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", value)
	}
}

func nodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return nodeValue(node.Content[0])
	case yaml.AliasNode:
		return nodeValue(node.Alias)
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil, nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := nodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}
