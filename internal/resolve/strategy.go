package resolve

import (
	"maps"
	"slices"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// Merge strategy names
const (
	StrategyLatest     = "latest"
	StrategyLongest    = "longest"
	StrategyMergeArray = "merge_array"
	StrategyConfidence = "confidence"
)

// strategyFunc decides the merged value of a conflicting field. A false
// result keeps the old value.
type strategyFunc func(old, incoming types.Value, existingConfidence, incomingConfidence float64) (types.Value, bool)

var strategies = map[string]strategyFunc{
	StrategyLatest:     mergeLatest,
	StrategyLongest:    mergeLongest,
	StrategyMergeArray: mergeArray,
	StrategyConfidence: mergeConfidence,
}

// builtinStrategies is the field table every registry starts from
var builtinStrategies = map[string]string{
	"career":    StrategyMergeArray,
	"aliases":   StrategyMergeArray,
	"birthdate": StrategyConfidence,
	"name":      StrategyLatest,
}

// StrategyRegistry maps field names to merge strategies. Fields without an
// entry use latest.
type StrategyRegistry struct {
	byField map[string]string
}

// DefaultStrategies returns a registry holding only the built-in table
func DefaultStrategies() *StrategyRegistry {
	return &StrategyRegistry{byField: maps.Clone(builtinStrategies)}
}

// NewStrategyRegistry returns the built-in table extended with extra.
// An entry in extra replaces the built-in entry for the same field.
func NewStrategyRegistry(extra map[string]string) (*StrategyRegistry, error) {
	r := DefaultStrategies()
	for _, field := range slices.Sorted(maps.Keys(extra)) {
		if err := r.Register(field, extra[field]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register maps field to the named strategy
func (r *StrategyRegistry) Register(field, strategy string) error {
	if field == "" {
		return errors.ValidationRequired("field")
	}
	if _, ok := strategies[strategy]; !ok {
		return errors.ValidationInvalid("strategy", "unknown merge strategy "+strategy)
	}
	r.byField[field] = strategy
	return nil
}

// StrategyFor returns the strategy name used for field
func (r *StrategyRegistry) StrategyFor(field string) string {
	if r != nil {
		if s, ok := r.byField[field]; ok {
			return s
		}
	}
	return StrategyLatest
}

// Fields returns the registered field names, sorted
func (r *StrategyRegistry) Fields() []string {
	return slices.Sorted(maps.Keys(r.byField))
}

func (r *StrategyRegistry) resolve(field string, old, incoming types.Value, existingConfidence, incomingConfidence float64) (types.Value, bool) {
	return strategies[r.StrategyFor(field)](old, incoming, existingConfidence, incomingConfidence)
}

func mergeLatest(_, incoming types.Value, _, _ float64) (types.Value, bool) {
	return incoming, true
}

// mergeLongest keeps the old value on a tie
func mergeLongest(old, incoming types.Value, _, _ float64) (types.Value, bool) {
	if len(incoming.String()) > len(old.String()) {
		return incoming, true
	}
	return old, false
}

// mergeArray unions two lists in first-seen order. Anything else takes the
// incoming value.
func mergeArray(old, incoming types.Value, _, _ float64) (types.Value, bool) {
	oldItems, oldOK := old.AsList()
	newItems, newOK := incoming.AsList()
	if !oldOK || !newOK {
		return incoming, true
	}

	seen := make(map[string]bool, len(oldItems)+len(newItems))
	union := make([]string, 0, len(oldItems)+len(newItems))
	for _, item := range append(oldItems, newItems...) {
		if seen[item] {
			continue
		}
		seen[item] = true
		union = append(union, item)
	}
	return types.List(union...), true
}

func mergeConfidence(old, incoming types.Value, existingConfidence, incomingConfidence float64) (types.Value, bool) {
	if incomingConfidence > existingConfidence {
		return incoming, true
	}
	return old, false
}
