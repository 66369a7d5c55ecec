package domain

// EntityKind is the discriminator of the shared entity shape.
type EntityKind string

// Entity kinds.
const (
	EntityPerson       EntityKind = "person"
	EntityOrganization EntityKind = "organization"
)

// IsValid returns true if the entity kind is recognised.
func (k EntityKind) IsValid() bool {
	return k == EntityPerson || k == EntityOrganization
}

// String returns the string representation.
func (k EntityKind) String() string {
	return string(k)
}

// Entity is a person or an organization. Both share one record shape;
// organization-only relations (hierarchy, membership as the organization
// side) are always empty for persons.
type Entity struct {
	ID   string
	Kind EntityKind
	Name string

	Dated
	Embeddings
}

// IsOrganization reports whether the entity is an organization.
func (e *Entity) IsOrganization() bool {
	return e.Kind == EntityOrganization
}

// EntityView is an entity hydrated with its relations.
// Slices hold identifiers of the related records, sorted.
type EntityView struct {
	Entity

	SourceIDs []string

	// Organizations the person belongs to (persons only).
	Organizations []string

	// Persons that are members (organizations only).
	Members []string

	// Parents and Children in the organization hierarchy (organizations only).
	Parents  []string
	Children []string
}
