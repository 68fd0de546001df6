package knowledge

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// Present renders an entity as a Markdown block: the canonical name as a
// heading, one bold-labelled line per field except name, then the last
// update time and, when there is more than one entry, the history length.
func Present(entity *types.Entity) string {
	var b strings.Builder
	title := cases.Title(language.English, cases.NoLower)

	fmt.Fprintf(&b, "## %s\n\n", entity.CanonicalName)

	entity.CurrentState.Range(func(field string, value types.Value) bool {
		if field == "name" {
			return true
		}
		fmt.Fprintf(&b, "**%s:** %s\n", title.String(field), value.String())
		return true
	})

	fmt.Fprintf(&b, "\n*Last updated: %s*\n", entity.LastModified.UTC().Format("2006-01-02 15:04:05 UTC"))
	if n := len(entity.History); n > 1 {
		fmt.Fprintf(&b, "*History: %d versions*\n", n)
	}
	return b.String()
}
