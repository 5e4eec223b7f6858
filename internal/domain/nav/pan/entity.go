package pan

import "fmt"

// MaxEntityIDs is the maximum number of entity identifiers per filter.
const MaxEntityIDs = 64

// Resolution is the entity matching depth.
type Resolution string

// Entity resolution constants.
const (
	// ResolutionDirect matches the listed entities only.
	ResolutionDirect Resolution = "direct"
	// ResolutionRelated includes the one-hop graph neighborhood.
	ResolutionRelated Resolution = "related"
	// ResolutionTransitive includes the multi-hop neighborhood.
	ResolutionTransitive Resolution = "transitive"
	// ResolutionTyped constrains matches to the entities' types.
	ResolutionTyped Resolution = "typed"
)

// Entity is a canonical entity filter: a set of entity identifiers plus
// the resolution depth to match them at.
type Entity struct {
	ids        []string
	resolution Resolution
	entityType string
}

// NewEntity canonicalizes an entity filter. Resolution defaults to direct;
// typed resolution requires a non-empty entityType.
func NewEntity(ids []string, resolution Resolution, entityType string) (Entity, error) {
	if len(ids) == 0 {
		return Entity{}, fmt.Errorf("entity filter needs at least one identifier")
	}
	if len(ids) > MaxEntityIDs {
		return Entity{}, fmt.Errorf("too many entity identifiers (max %d)", MaxEntityIDs)
	}
	for _, id := range ids {
		if id == "" {
			return Entity{}, fmt.Errorf("entity identifier must not be empty")
		}
	}
	if resolution == "" {
		resolution = ResolutionDirect
	}
	switch resolution {
	case ResolutionDirect, ResolutionRelated, ResolutionTransitive:
	case ResolutionTyped:
		if entityType == "" {
			return Entity{}, fmt.Errorf("typed entity resolution requires an entity type")
		}
	default:
		return Entity{}, fmt.Errorf("invalid entity resolution: %q", resolution)
	}
	return Entity{ids: ids, resolution: resolution, entityType: entityType}, nil
}

// IDs returns the entity identifiers.
func (e Entity) IDs() []string { return e.ids }

// Resolution returns the matching depth.
func (e Entity) Resolution() Resolution { return e.resolution }

// EntityType returns the type constraint for typed resolution.
func (e Entity) EntityType() string { return e.entityType }
