// Package knowledge ties extraction, detection and resolution together
// behind a single engine.
package knowledge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JamesPrial/knowledge-core/internal/detect"
	"github.com/JamesPrial/knowledge-core/internal/extraction"
	"github.com/JamesPrial/knowledge-core/internal/resolve"
	"github.com/JamesPrial/knowledge-core/internal/storage"
	"github.com/JamesPrial/knowledge-core/pkg/config"
	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// DefaultSource labels history entries written by ProcessInformation when
// the caller gives no source
const DefaultSource = "user"

// Options configures an Engine. Zero fields take defaults.
type Options struct {
	Detector         detect.Detector
	Strategies       *resolve.StrategyRegistry
	Threshold        float64
	MaxKeywords      int
	ExtractionSource types.Source
	IDGenerator      resolve.IDGenerator
	Now              func() time.Time
}

// Engine extracts knowledge from text and keeps the entity store up to date.
// Writes are serialised; extraction runs without the lock.
type Engine struct {
	mu        sync.Mutex
	store     storage.Store
	extractor *extraction.Extractor
	detector  detect.Detector
	matcher   *resolve.Matcher
	resolver  *resolve.Resolver
	source    types.Source
	now       func() time.Time
	logger    *slog.Logger
}

// NewEngine creates an engine over store
func NewEngine(store storage.Store, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Detector == nil {
		opts.Detector = detect.NewPersonDetector(detect.DefaultContextWindow)
	}
	if opts.ExtractionSource == "" {
		opts.ExtractionSource = types.SourceConversation
	}

	var resolverOpts []resolve.Option
	if opts.IDGenerator != nil {
		resolverOpts = append(resolverOpts, resolve.WithIDGenerator(opts.IDGenerator))
	}

	return &Engine{
		store:     store,
		extractor: extraction.NewExtractor(opts.MaxKeywords, opts.Now),
		detector:  detect.Chain{opts.Detector},
		matcher:   resolve.NewMatcher(store, opts.Threshold),
		resolver:  resolve.NewResolver(opts.Strategies, resolverOpts...),
		source:    opts.ExtractionSource,
		now:       opts.Now,
		logger:    logging.GetGlobalLogger("knowledge"),
	}
}

// NewEngineFromSettings builds the detector chain and strategy registry
// described by cfg
func NewEngineFromSettings(store storage.Store, cfg *config.Settings) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "configuration cannot be nil")
	}

	strategies, err := resolve.NewStrategyRegistry(cfg.MergeStrategies)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfiguration, "invalid merge strategies")
	}

	var chain detect.Chain
	for _, name := range cfg.Detection.Detectors {
		switch name {
		case config.DetectorPerson:
			chain = append(chain, detect.NewPersonDetector(cfg.Detection.ContextWindow))
		case config.DetectorOrganization:
			chain = append(chain, detect.NewOrganizationDetector())
		default:
			return nil, errors.Newf(errors.ErrCodeConfiguration, "unknown detector: %s", name)
		}
	}

	opts := Options{
		Strategies:       strategies,
		Threshold:        cfg.Matching.SimilarityThreshold,
		MaxKeywords:      cfg.Extraction.MaxKeywords,
		ExtractionSource: types.Source(cfg.Extraction.Source),
	}
	if len(chain) > 0 {
		opts.Detector = chain
	}
	return NewEngine(store, opts), nil
}

// ExtractFromConversation splits text into classified knowledge items. It
// touches no shared state and may run concurrently.
func (e *Engine) ExtractFromConversation(ctx context.Context, text string) []types.ExtractedKnowledge {
	return e.extractor.Extract(ctx, text, e.source)
}

// ProcessInformation detects entities in text and merges each into its
// matching stored entity or creates a new one. It returns every affected
// entity once, in first-seen order, including matched ones that did not
// change.
func (e *Engine) ProcessInformation(ctx context.Context, text, source string) ([]*types.Entity, error) {
	if source == "" {
		source = DefaultSource
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = logging.NewRequestContext(ctx, "process_information")
	timer := logging.StartTimer(ctx, e.logger, "process_information")

	candidates := e.detector.Detect(text)

	affected := make([]*types.Entity, 0, len(candidates))
	index := make(map[string]int)
	for _, candidate := range candidates {
		if candidate.CanonicalName == "" {
			continue
		}
		entity, err := e.resolve(ctx, candidate, source)
		if err != nil {
			timer.EndWithError(err)
			return nil, err
		}
		if i, ok := index[entity.ID]; ok {
			affected[i] = entity
			continue
		}
		index[entity.ID] = len(affected)
		affected = append(affected, entity)
	}

	for _, linked := range resolve.Link(text, affected) {
		if err := e.store.Put(ctx, linked); err != nil {
			timer.EndWithError(err)
			return nil, err
		}
	}

	timer.End()
	e.logger.InfoContext(ctx, "Processed information",
		slog.Int("candidates", len(candidates)),
		slog.Int("entities", len(affected)),
		slog.String("source", source),
	)
	return affected, nil
}

// resolve matches one candidate and stores the merged or new entity.
// Callers hold e.mu.
func (e *Engine) resolve(ctx context.Context, candidate types.Candidate, source string) (*types.Entity, error) {
	existing, _, err := e.matcher.Match(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		created := e.resolver.Create(candidate, source, e.now())
		if err := e.store.Put(ctx, created); err != nil {
			return nil, err
		}
		return created, nil
	}

	if result := e.resolver.Merge(existing, candidate, source, e.now()); result.Modified() {
		if err := e.store.Put(ctx, existing); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

// Get returns the entity with id or an ENTITY_NOT_FOUND error
func (e *Engine) Get(ctx context.Context, id string) (*types.Entity, error) {
	entity, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, errors.NotFound("entity " + id)
	}
	return entity, nil
}

// Present renders the entity with id for display
func (e *Engine) Present(ctx context.Context, id string) (string, error) {
	entity, err := e.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return Present(entity), nil
}

// Stats returns the store's entity counts
func (e *Engine) Stats(ctx context.Context) (map[string]int, error) {
	return e.store.Stats(ctx)
}
