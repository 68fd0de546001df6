package extraction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "continuation cue joins previous chunk",
			text: "First point. However, it matters. New topic here.",
			want: []string{"First point. However, it matters.", "New topic here."},
		},
		{
			name: "cue match is case-insensitive",
			text: "Alpha. THIS is it.",
			want: []string{"Alpha. THIS is it."},
		},
		{
			name: "terminator runs stay with their sentence",
			text: "Wow!! Really? Yes.",
			want: []string{"Wow!!", "Really?", "Yes."},
		},
		{
			name: "no terminator keeps whole text",
			text: "  Use version 1.5 of config.yaml today  ",
			want: []string{"Use version 1.5 of config.yaml today"},
		},
		{
			name: "blank input",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.text))
		})
	}
}

func TestSegment_PreservesSentenceOrder(t *testing.T) {
	text := "One. Two also. Three! Those were four? Five."
	chunks := Segment(text)

	assert.Equal(t, strings.Join(splitSentences(text), " "), strings.Join(chunks, " "))
	assert.Equal(t, []string{"One. Two also.", "Three! Those were four?", "Five."}, chunks)
}

func TestClassifyImportance(t *testing.T) {
	tests := []struct {
		chunk string
		want  types.Importance
	}{
		{"This is important.", types.ImportanceHigh},
		{"You should consider caching.", types.ImportanceMedium},
		{"Fix the bug.", types.ImportanceHigh},
		{"Latency: 20ms.", types.ImportanceMedium},
		{"A cache means fast reads.", types.ImportanceMedium},
		{"The weather was nice yesterday.", types.ImportanceLow},
		// medium indicators are checked before actionable verbs
		{"You should fix it.", types.ImportanceMedium},
		// high indicators are checked before definition markers
		{"Remember: deadlines slip.", types.ImportanceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.chunk, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyImportance(tt.chunk))
		})
	}
}

func TestHasKeyInformation(t *testing.T) {
	tests := []struct {
		chunk string
		want  bool
	}{
		{"See https://example.com/docs for more.", true},
		{"Run `make test` first.", true},
		{"Look in internal/storage please.", true},
		{"Edit main.go tomorrow.", true},
		{"The HttpClient retries.", true},
		{"Uses camelCase names.", true},
		{"The weather was nice yesterday.", false},
		{"Hello there.", false},
	}

	for _, tt := range tests {
		t.Run(tt.chunk, func(t *testing.T) {
			assert.Equal(t, tt.want, HasKeyInformation(tt.chunk))
		})
	}
}

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"filler stripped", "We need to add caching. More details follow.", "add caching"},
		{"fillers stripped repeatedly", "I think the cache is slow.", "cache is slow"},
		{"of-phrase", "Please review the design of caching layers across every service today.", "design of caching"},
		{"feature phrase", "Yesterday the team shipped a brand new search feature quickly.", "new search feature"},
		{"implement phrase", "Next sprint we will implement token refresh logic end to end.", "implement token refresh"},
		{
			"fallback truncates",
			"Yesterday everybody went home early because nobody wanted overtime.",
			"Yesterday everybody went home early because nobody...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTopic(tt.chunk))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	assert.Equal(t,
		[]string{"cache", "invalidation", "hard", "matters"},
		ExtractKeywords("Cache the cache, cache invalidation is hard. Invalidation matters!", 5))

	assert.Equal(t,
		[]string{"alpha", "beta", "gamma", "delta", "epsilon"},
		ExtractKeywords("alpha beta gamma delta epsilon zeta eta", 5))

	assert.Equal(t, []string{"hönig", "julian"}, ExtractKeywords("Julian Hönig, Hönig", 5))
	assert.Empty(t, ExtractKeywords("Go is ok", 5))
	assert.Empty(t, ExtractKeywords("plenty of words", 0))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		chunk    string
		keywords []string
		want     string
	}{
		{"tie resolves to earlier category", "Fix the bug.", []string{"fix", "bug"}, "technical"},
		{"no indicators", "Nice weather today", nil, CategoryGeneral},
		{"decisions", "We decided to choose Postgres.", nil, "decisions"},
		{"questions outscore technical", "How does the API work?", nil, "questions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.chunk, tt.keywords))
		})
	}

	assert.Equal(t, []string{"technical", "concepts", "tasks", "references", "questions", "decisions"}, Categories())
}

func TestExtractor_Extract(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	extractor := NewExtractor(0, func() time.Time { return now })

	results := extractor.Extract(context.Background(),
		"The weather was nice yesterday. Remember to update the config.", types.SourceConversation)

	require.Len(t, results, 1)
	got := results[0]
	assert.Equal(t, "Remember to update the config.", got.Content)
	assert.Equal(t, "Remember to update the config", got.Topic)
	assert.Equal(t, types.ImportanceHigh, got.Importance)
	assert.Equal(t, "technical", got.Category)
	assert.Equal(t, []string{"remember", "update", "config"}, got.Keywords)
	assert.Equal(t, types.SourceConversation, got.Source)
	assert.Equal(t, now, got.Timestamp)
	assert.NotNil(t, got.RelatedNotes)
}

func TestExtractor_KeepsLowChunkWithKeyInformation(t *testing.T) {
	extractor := NewExtractor(5, nil)

	results := extractor.Extract(context.Background(), "Logs live in /var/log/app.", types.SourceFile)

	require.Len(t, results, 1)
	assert.Equal(t, types.ImportanceLow, results[0].Importance)
	assert.Equal(t, types.SourceFile, results[0].Source)
}

func TestExtractor_EmptyInput(t *testing.T) {
	extractor := NewExtractor(5, nil)

	assert.Empty(t, extractor.Extract(context.Background(), "", types.SourceConversation))
	assert.Empty(t, extractor.Extract(context.Background(), "The weather was nice yesterday.", types.SourceConversation))
}
