package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// RecordInput is a manually supplied entity, usually decoded from JSON
type RecordInput struct {
	Type       string                 `mapstructure:"type"`
	Name       string                 `mapstructure:"name"`
	Aliases    []string               `mapstructure:"aliases"`
	Fields     map[string]interface{} `mapstructure:"fields"`
	Confidence float64                `mapstructure:"confidence"`
	Source     string                 `mapstructure:"source"`
}

// Record decodes raw into a RecordInput and resolves it like a detected
// mention: merged into the matching entity or created.
func (e *Engine) Record(ctx context.Context, raw map[string]interface{}) (*types.Entity, error) {
	var input RecordInput
	if err := mapstructure.Decode(raw, &input); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidationType, "failed to decode record")
	}

	candidate, err := input.candidate()
	if err != nil {
		return nil, err
	}

	source := input.Source
	if source == "" {
		source = string(types.SourceManual)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = logging.NewRequestContext(ctx, "record")
	entity, err := e.resolve(ctx, candidate, source)
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Recorded entity",
		slog.String("entity_id", entity.ID),
		slog.String("entity_type", string(entity.Type)),
		slog.String("source", source),
	)
	return entity, nil
}

// candidate validates the input and converts it. The name becomes the
// first field; other fields follow in name order.
func (in RecordInput) candidate() (types.Candidate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return types.Candidate{}, errors.ValidationRequired("name")
	}

	entityType := types.EntityType(strings.ToLower(strings.TrimSpace(in.Type)))
	if entityType == "" {
		return types.Candidate{}, errors.ValidationRequired("type")
	}
	if !entityType.Valid() {
		return types.Candidate{}, errors.ValidationInvalid("type", fmt.Sprintf("unknown entity type %q", in.Type))
	}

	if in.Confidence < 0 || in.Confidence > 1 {
		return types.Candidate{}, errors.Newf(errors.ErrCodeValidationRange, "confidence must be between 0 and 1, got %v", in.Confidence)
	}

	var state types.Fields
	state.Set("name", types.Text(name))
	for _, field := range slices.Sorted(maps.Keys(in.Fields)) {
		if field == "name" {
			continue
		}
		value, ok := types.ValueOf(in.Fields[field])
		if !ok {
			return types.Candidate{}, errors.Newf(errors.ErrCodeValidationType, "field %s has unsupported value %v", field, in.Fields[field])
		}
		state.Set(field, value)
	}

	return types.Candidate{
		Type:          entityType,
		CanonicalName: name,
		Aliases:       in.Aliases,
		State:         state,
		Confidence:    in.Confidence,
	}, nil
}
