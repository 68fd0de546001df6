package extraction

import "strings"

// CategoryGeneral is returned when no category indicator is present
const CategoryGeneral = "general"

type category struct {
	name       string
	indicators []string
}

// Earlier entries win ties, so the order of this table is part of the
// categorisation result.
var categories = []category{
	{"technical", []string{
		"code", "function", "api", "bug", "error", "database", "server",
		"deploy", "config", "class", "method", "algorithm", "performance",
	}},
	{"concepts", []string{
		"concept", "idea", "theory", "principle", "pattern", "definition", "approach",
	}},
	{"tasks", []string{
		"todo", "task", "fix", "implement", "need to", "deadline", "action",
	}},
	{"references", []string{
		"link", "http", "documentation", "docs", "reference", "source", "article", "book",
	}},
	{"questions", []string{
		"?", "how", "what", "why", "question", "wonder",
	}},
	{"decisions", []string{
		"decided", "decision", "choose", "chose", "agreed", "will use", "going with", "conclusion",
	}},
}

// Categories returns the category names in tie-break order
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.name
	}
	return names
}

// Categorize scores each category by how many of its indicators occur in the
// chunk text or its keywords. The strictly highest score wins; a tie goes to
// the category listed first, and no hits at all gives CategoryGeneral.
func Categorize(chunk string, keywords []string) string {
	haystack := strings.ToLower(chunk + " " + strings.Join(keywords, " "))

	best, bestScore := CategoryGeneral, 0
	for _, c := range categories {
		score := 0
		for _, indicator := range c.indicators {
			if strings.Contains(haystack, indicator) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c.name, score
		}
	}
	return best
}
