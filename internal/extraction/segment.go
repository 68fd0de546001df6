// Package extraction turns free text into classified knowledge units.
package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words that mark a sentence as continuing the previous thought
var continuationCues = []string{
	"therefore", "however", "also", "furthermore",
	"this", "that", "these", "those",
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences splits text after each run of terminators that is followed
// by whitespace or the end of the text. Terminators stay with their sentence,
// so "v1.5" or "config.yaml" do not end a sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminator(r) {
			i += size
			continue
		}

		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !isTerminator(next) {
				break
			}
			end += n
		}

		if end == len(text) || startsWithSpace(text[end:]) {
			if s := strings.TrimSpace(text[start:end]); s != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
		i = end
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

// firstSentence returns the text up to and excluding its first terminator run
func firstSentence(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	return strings.TrimRightFunc(sentences[0], isTerminator)
}

// Segment groups the sentences of text into chunks. A sentence containing a
// continuation cue joins the current chunk; any other sentence starts a new
// one. Text without terminators comes back as a single chunk and blank text
// yields no chunks.
func Segment(text string) []string {
	var (
		chunks  []string
		current []string
	)

	for _, sentence := range splitSentences(text) {
		if len(current) > 0 && !hasContinuationCue(sentence) {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
		}
		current = append(current, sentence)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func hasContinuationCue(sentence string) bool {
	return containsAny(strings.ToLower(sentence), continuationCues)
}

// containsAny reports whether lower contains any of the words as a substring
func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
