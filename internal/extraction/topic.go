package extraction

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTopicWords      = 5
	maxTopicPhrases    = 3
	topicFallbackRunes = 50
)

// Leading phrases that carry no topic, matched case-insensitively
var fillerPhrases = []string{
	"we need to", "we should", "let's", "i think", "i believe", "the", "a", "an",
}

const word = `[\p{L}\p{N}_]+`

// Phrase shapes tried in order when a sentence is too long to be a topic
var topicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + word + `\s+(?:of|for|in|with)\s+` + word),
	regexp.MustCompile(`(?i)` + word + `\s+` + word + `\s+(?:system|feature|component|module)\b`),
	regexp.MustCompile(`(?i)\b(?:implement|create|build|design)\s+` + word + `\s+` + word),
}

var stopWords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "has", "have", "her", "his", "him", "she", "was", "were", "one",
	"our", "out", "its", "who", "how", "why", "may", "did", "does", "this",
	"that", "these", "those", "with", "from", "they", "them", "their", "there",
	"then", "than", "will", "would", "could", "should", "what", "when", "where",
	"which", "while", "about", "into", "also", "just", "more", "most", "only",
	"other", "some", "such", "very", "been", "being", "here", "over", "after",
	"before", "because", "each", "like", "your", "yours",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// ExtractTopic derives a short topic from the first sentence of chunk
func ExtractTopic(chunk string) string {
	sentence := stripFillers(strings.TrimSpace(firstSentence(chunk)))

	if len(strings.Fields(sentence)) <= maxTopicWords {
		return sentence
	}

	if phrases := topicPhrases(sentence, maxTopicPhrases); len(phrases) > 0 {
		return phrases[0]
	}

	runes := []rune(sentence)
	if len(runes) > topicFallbackRunes {
		runes = runes[:topicFallbackRunes]
	}
	return string(runes) + "..."
}

// stripFillers removes leading filler phrases, repeatedly, so
// "I think the cache" becomes "cache".
func stripFillers(s string) string {
	for {
		stripped := false
		for _, filler := range fillerPhrases {
			if len(s) < len(filler) || !strings.EqualFold(s[:len(filler)], filler) {
				continue
			}
			rest := s[len(filler):]
			if !startsWithSpace(rest) {
				continue
			}
			s = strings.TrimSpace(rest)
			stripped = true
			break
		}
		if !stripped {
			return s
		}
	}
}

// topicPhrases collects up to limit phrase matches, pattern by pattern
func topicPhrases(sentence string, limit int) []string {
	var phrases []string
	for _, re := range topicPatterns {
		for _, m := range re.FindAllString(sentence, -1) {
			phrases = append(phrases, m)
			if len(phrases) == limit {
				return phrases
			}
		}
	}
	return phrases
}

// ExtractKeywords returns up to n of the most frequent content words in chunk,
// lower-cased, ties kept in first-seen order.
func ExtractKeywords(chunk string, n int) []string {
	if n <= 0 {
		return nil
	}

	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, chunk)

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(normalized) {
		if utf8.RuneCountInString(token) <= 2 || stopWords[token] {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
