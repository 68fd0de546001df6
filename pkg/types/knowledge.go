package types

import "time"

// Importance is the coarse priority tier of an extracted chunk
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Source is where a piece of extracted knowledge came from
type Source string

const (
	SourceConversation Source = "conversation"
	SourceFile         Source = "file"
	SourceManual       Source = "manual"
)

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	switch s {
	case SourceConversation, SourceFile, SourceManual:
		return true
	}
	return false
}

// ExtractedKnowledge is one classified unit of knowledge taken from a chunk of text
type ExtractedKnowledge struct {
	Topic        string     `json:"topic"`
	Content      string     `json:"content"`
	Keywords     []string   `json:"keywords"`
	Category     string     `json:"category"`
	Importance   Importance `json:"importance"`
	Timestamp    time.Time  `json:"timestamp"`
	Source       Source     `json:"source"`
	RelatedNotes []string   `json:"relatedNotes"`
}
