package detect

import (
	"regexp"
	"strings"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// One to three capitalised words
const personName = `\p{Lu}\p{Ll}+(?:[ \t]+\p{Lu}\p{Ll}+){0,2}`

// A run of capitalised words as used for companies and schools
const properNoun = `\p{Lu}[\p{L}\p{N}&'-]*(?:[ \t]+(?:&[ \t]+)?\p{Lu}[\p{L}\p{N}&'-]*)*`

const months = `January|February|March|April|May|June|July|August|September|October|November|December`

type personPattern struct {
	re *regexp.Regexp
	// capture group holding the relation word, 0 when the pattern has none
	relationGroup int
	nameGroup     int
}

// Mention shapes, tried in order
var personPatterns = []personPattern{
	{
		re: regexp.MustCompile(`(?i:\b(brother|sister|mother|father|wife|husband|daughter|son|friend|colleague|boss|partner|cousin|uncle|aunt))\s+(` +
			personName + `)`),
		relationGroup: 1,
		nameGroup:     2,
	},
	{
		re:        regexp.MustCompile(`(` + personName + `)\s+(?:was|is|works)\b`),
		nameGroup: 1,
	},
	{
		re:        regexp.MustCompile(`(?i:\bname):[ \t]*(` + personName + `)`),
		nameGroup: 1,
	},
}

type attributePattern struct {
	field string
	re    *regexp.Regexp
}

// Attributes looked up in the text surrounding a mention
var personAttributes = []attributePattern{
	{
		field: "birthdate",
		re: regexp.MustCompile(`(?i:\bborn\s+(?:on|in))\s+((?:` + months + `)\s+\d{1,2},\s*\d{4}|\d{4}-\d{2}-\d{2}|\d{4})`),
	},
	{
		field: "currentEmployer",
		re:    regexp.MustCompile(`(?i:\bworks?\s+(?:at|for)|\bemployed\s+by)\s+(` + properNoun + `)`),
	},
	{
		field: "education",
		re:    regexp.MustCompile(`(?i:\b(?:studied|graduated|degree)\b)[^.!?\n]*?(?i:\b(?:at|from))\s+(` + properNoun + `)`),
	},
}

// PersonDetector finds people by relation words, "Name was/is/works" and
// "Name: Name" shapes, then reads birthdate, employer and education from
// the text around each mention.
type PersonDetector struct {
	window int
}

// NewPersonDetector creates a person detector. A non-positive window uses
// DefaultContextWindow.
func NewPersonDetector(window int) *PersonDetector {
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &PersonDetector{window: window}
}

// Name implements Detector
func (d *PersonDetector) Name() string {
	return "person"
}

// Detect implements Detector. Every match yields its own candidate.
func (d *PersonDetector) Detect(text string) []types.Candidate {
	var candidates []types.Candidate

	for _, p := range personPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			nameStart, nameEnd := m[2*p.nameGroup], m[2*p.nameGroup+1]
			name := trimName(text[nameStart:nameEnd])
			if name == "" {
				continue
			}

			var state types.Fields
			state.Set("name", types.Text(name))
			if p.relationGroup > 0 {
				relation := text[m[2*p.relationGroup]:m[2*p.relationGroup+1]]
				state.Set("relation", types.Text(strings.ToLower(relation)))
			}

			window := contextWindow(text, m[0], m[1], d.window)
			for _, attr := range personAttributes {
				if sub := attr.re.FindStringSubmatch(window); sub != nil {
					state.Set(attr.field, types.Text(strings.TrimSpace(sub[1])))
				}
			}

			candidates = append(candidates, types.Candidate{
				Type:          types.EntityTypePerson,
				CanonicalName: name,
				State:         state,
			})
		}
	}

	return candidates
}
