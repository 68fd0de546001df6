package detect

import (
	"regexp"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

var organizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(` + properNoun + `[ \t]+(?:Inc|Corp|LLC|Ltd|GmbH|Company|Corporation))\b`),
	regexp.MustCompile(`(?i:\bworks?\s+(?:at|for)|\bemployed\s+by)\s+(` + properNoun + `)`),
}

// OrganizationDetector finds companies by legal suffix or by an employment
// phrase in front of a capitalised name.
type OrganizationDetector struct{}

// NewOrganizationDetector creates an organization detector
func NewOrganizationDetector() *OrganizationDetector {
	return &OrganizationDetector{}
}

// Name implements Detector
func (d *OrganizationDetector) Name() string {
	return "organization"
}

// Detect implements Detector
func (d *OrganizationDetector) Detect(text string) []types.Candidate {
	var candidates []types.Candidate

	for _, re := range organizationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := trimName(m[1])
			if name == "" {
				continue
			}
			candidates = append(candidates, types.Candidate{
				Type:          types.EntityTypeOrganization,
				CanonicalName: name,
				State:         types.NewFields(types.Field("name", types.Text(name))),
			})
		}
	}

	return candidates
}
