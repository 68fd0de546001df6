// Package detect finds entity mentions in free text.
package detect

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// DefaultContextWindow is how many characters on each side of a mention are
// searched for attributes
const DefaultContextWindow = 200

// Detector finds candidate entities in text. Candidates are not
// de-duplicated; matching them against known entities happens later.
type Detector interface {
	Name() string
	Detect(text string) []types.Candidate
}

// Chain runs detectors in order and concatenates their candidates.
// A detector that panics is logged and skipped.
type Chain []Detector

// Name implements Detector
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Detect implements Detector
func (c Chain) Detect(text string) []types.Candidate {
	var out []types.Candidate
	for _, d := range c {
		candidates, err := safeDetect(d, text)
		if err != nil {
			logging.GetGlobalLogger("detect").Warn("Detector failed",
				slog.String("detector", d.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, candidates...)
	}
	return out
}

func safeDetect(d Detector, text string) (candidates []types.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in detector: %v", r)
		}
	}()
	return d.Detect(text), nil
}

// Tokens that can precede a name in a capitalised run but are never part of it
var nonNameTokens = map[string]bool{
	"I": true, "He": true, "She": true, "It": true, "We": true, "They": true, "You": true,
	"My": true, "Our": true, "His": true, "Her": true, "Their": true, "Your": true,
	"The": true, "This": true, "That": true, "These": true, "Those": true, "There": true,
	"Then": true, "And": true, "But": true, "So": true, "Also": true, "When": true,
	"After": true, "Before": true, "Today": true, "Yesterday": true, "Tomorrow": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true, "Friday": true,
	"Saturday": true, "Sunday": true,
	"January": true, "February": true, "March": true, "April": true, "May": true, "June": true,
	"July": true, "August": true, "September": true, "October": true, "November": true, "December": true,
}

// trimName drops leading tokens that cannot start a name and normalises
// inner whitespace. An empty result means the match was not a name.
func trimName(raw string) string {
	words := strings.Fields(raw)
	for len(words) > 0 && nonNameTokens[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// contextWindow returns the mention text[start:end] widened by up to window
// runes on each side, clamped to the text
func contextWindow(text string, start, end, window int) string {
	from := start
	for i := 0; i < window && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for i := 0; i < window && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	return text[from:to]
}
