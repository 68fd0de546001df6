package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// DefaultMaxKeywords is the keyword count used when none is configured
const DefaultMaxKeywords = 5

// Extractor turns conversation text into ExtractedKnowledge. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	maxKeywords int
	now         func() time.Time
	logger      *slog.Logger
}

// NewExtractor creates an extractor. A non-positive maxKeywords uses the
// default and a nil clock uses time.Now.
func NewExtractor(maxKeywords int, now func() time.Time) *Extractor {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	if now == nil {
		now = time.Now
	}
	return &Extractor{
		maxKeywords: maxKeywords,
		now:         now,
		logger:      logging.GetGlobalLogger("extraction"),
	}
}

// Extract segments text into chunks and classifies each one. Low importance
// chunks without key information are dropped. A chunk that fails is logged
// and skipped without affecting the others.
func (e *Extractor) Extract(ctx context.Context, text string, source types.Source) []types.ExtractedKnowledge {
	chunks := Segment(text)
	results := make([]types.ExtractedKnowledge, 0, len(chunks))
	timestamp := e.now()

	for i, chunk := range chunks {
		item, keep, err := e.processChunk(chunk, source, timestamp)
		if err != nil {
			e.logger.WarnContext(ctx, "Skipping chunk",
				slog.Int("chunk", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !keep {
			e.logger.DebugContext(ctx, "Dropped low importance chunk", slog.Int("chunk", i))
			continue
		}
		results = append(results, item)
	}

	e.logger.DebugContext(ctx, "Extracted knowledge",
		slog.Int("chunks", len(chunks)),
		slog.Int("kept", len(results)),
	)
	return results
}

func (e *Extractor) processChunk(chunk string, source types.Source, timestamp time.Time) (item types.ExtractedKnowledge, keep bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while classifying chunk: %v", r)
		}
	}()

	importance := ClassifyImportance(chunk)
	if importance == types.ImportanceLow && !HasKeyInformation(chunk) {
		return types.ExtractedKnowledge{}, false, nil
	}

	keywords := ExtractKeywords(chunk, e.maxKeywords)
	if keywords == nil {
		keywords = []string{}
	}

	return types.ExtractedKnowledge{
		Topic:        ExtractTopic(chunk),
		Content:      chunk,
		Keywords:     keywords,
		Category:     Categorize(chunk, keywords),
		Importance:   importance,
		Timestamp:    timestamp,
		Source:       source,
		RelatedNotes: []string{},
	}, true, nil
}
