package extraction

import (
	"regexp"
	"strings"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

var (
	highIndicators = []string{
		"important", "critical", "essential", "must", "key", "crucial",
		"required", "urgent", "remember", "never", "always",
	}
	mediumIndicators = []string{
		"should", "could", "might", "consider", "note", "maybe",
		"perhaps", "prefer", "recommend", "useful",
	}
	actionableVerbs = []string{
		"create", "implement", "fix", "update", "delete", "modify", "build", "design",
	}
	definitionMarkers = []string{":", "is defined as", "means"}
)

var keyInformationPatterns = []*regexp.Regexp{
	// URL
	regexp.MustCompile(`https?://\S+`),
	// inline code span
	regexp.MustCompile("`[^`\n]+`"),
	// path with at least one separator, e.g. internal/storage or ./run.sh
	regexp.MustCompile(`(?:~|\.{1,2})?/?[\w.-]+/[\w.-]+`),
	// bare file name with a common extension
	regexp.MustCompile(`\b[\w-]+\.(?:go|py|js|ts|tsx|jsx|md|json|ya?ml|toml|txt|sh|sql|csv|html|css|rs|java|rb|c|h|cpp)\b`),
	// CamelCase or camelCase identifier
	regexp.MustCompile(`\b(?:[A-Z][a-z0-9]+[A-Z]|[a-z][a-z0-9]*[A-Z])[A-Za-z0-9]*\b`),
}

// ClassifyImportance tiers a chunk. The checks run in a fixed order: high
// indicators, medium indicators, actionable verbs (high), definition markers
// (medium), otherwise low.
func ClassifyImportance(chunk string) types.Importance {
	lower := strings.ToLower(chunk)

	switch {
	case containsAny(lower, highIndicators):
		return types.ImportanceHigh
	case containsAny(lower, mediumIndicators):
		return types.ImportanceMedium
	case containsAny(lower, actionableVerbs):
		return types.ImportanceHigh
	case containsAny(lower, definitionMarkers):
		return types.ImportanceMedium
	default:
		return types.ImportanceLow
	}
}

// HasKeyInformation reports whether chunk carries a URL, an inline code span,
// a file path or a CamelCase token. Such chunks are kept even when low.
func HasKeyInformation(chunk string) bool {
	for _, re := range keyInformationPatterns {
		if re.MatchString(chunk) {
			return true
		}
	}
	return false
}
