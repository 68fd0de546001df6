package knowledge

import "github.com/JamesPrial/knowledge-core/pkg/types"

// Notes an entity can be filed under
const (
	LocationProfessional = "Professional Journey.md"
	LocationPersonal     = "Personal Info.md"
	LocationDefault      = "Knowledge Base.md"
)

// Fields that make a person's record work related
var workFields = []string{"currentEmployer", "career", "job", "position", "company"}

// Locate suggests the note an entity belongs in
func Locate(entity *types.Entity) string {
	switch entity.Type {
	case types.EntityTypePerson:
		for _, field := range workFields {
			if entity.CurrentState.Has(field) {
				return LocationProfessional
			}
		}
		return LocationPersonal
	case types.EntityTypeOrganization:
		return LocationProfessional
	default:
		return LocationDefault
	}
}
