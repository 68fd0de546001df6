// Package resolve matches candidate entities against the store and folds
// them into existing entities or new ones, keeping an append-only history.
package resolve

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// DefaultConfidence is used when a candidate does not carry a confidence
const DefaultConfidence = 1.0

// IDGenerator returns a new opaque entity id
type IDGenerator func() string

// Resolver merges candidates into entities using a strategy registry
type Resolver struct {
	strategies *StrategyRegistry
	newID      IDGenerator
	logger     *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithIDGenerator replaces the random UUID generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Resolver) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// NewResolver creates a resolver. A nil registry uses DefaultStrategies.
func NewResolver(strategies *StrategyRegistry, opts ...Option) *Resolver {
	if strategies == nil {
		strategies = DefaultStrategies()
	}
	r := &Resolver{
		strategies: strategies,
		newID:      uuid.NewString,
		logger:     logging.GetGlobalLogger("resolve"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MergeResult describes what a merge did to an entity
type MergeResult struct {
	// Entry is the appended history entry, nil when no field changed
	Entry        *types.VersionEntry
	AliasesAdded int
}

// Modified reports whether the entity needs to be stored again
func (m MergeResult) Modified() bool {
	return m.Entry != nil || m.AliasesAdded > 0
}

// Merge folds the candidate's state into existing. Changed fields are
// applied together with a single update entry; nothing is written when no
// field changed. Incoming aliases are added either way.
func (r *Resolver) Merge(existing *types.Entity, candidate types.Candidate, source string, now time.Time) MergeResult {
	var result MergeResult
	result.AliasesAdded = existing.AddAliases(candidate.Aliases...)

	var (
		changed  []string
		applied  = make(map[string]types.Value)
		previous = make(map[string]types.Value)
	)

	incomingConfidence := effectiveConfidence(candidate.Confidence)

	candidate.State.Range(func(field string, incoming types.Value) bool {
		old, present := existing.CurrentState.Get(field)
		if !present {
			changed = append(changed, field)
			applied[field] = incoming
			return true
		}
		if old.Equal(incoming) {
			return true
		}

		merged, ok := r.strategies.resolve(field, old, incoming, existing.Confidence, incomingConfidence)
		if !ok || merged.Equal(old) {
			return true
		}
		changed = append(changed, field)
		applied[field] = merged
		previous[field] = old
		return true
	})

	if len(changed) == 0 {
		return result
	}

	for _, field := range changed {
		existing.CurrentState.Set(field, applied[field])
	}

	entry := types.VersionEntry{
		Timestamp: now,
		Operation: types.OperationUpdate,
		Fields:    changed,
		NewValues: applied,
		Source:    source,
	}
	if len(previous) > 0 {
		entry.PreviousValues = previous
	}
	existing.History = append(existing.History, entry)
	existing.LastModified = now
	result.Entry = &existing.History[len(existing.History)-1]

	r.logger.Debug("Entity updated",
		slog.String("entity_id", existing.ID),
		slog.Any("fields", changed),
		slog.String("source", source),
	)
	return result
}

// effectiveConfidence maps an unspecified confidence to DefaultConfidence
func effectiveConfidence(c float64) float64 {
	if c <= 0 {
		return DefaultConfidence
	}
	return min(c, 1)
}
