package domain

// LinkKind identifies one of the link tables.
type LinkKind string

// Link tables. Each is keyed by the composite (Left, Right).
const (
	// LinkDocumentCreator: Left=document, Right=entity.
	LinkDocumentCreator LinkKind = "document_creator"

	// LinkDocumentSetDocument: Left=document set, Right=document, ordered.
	LinkDocumentSetDocument LinkKind = "document_set_document"

	// LinkEntitySource: Left=entity, Right=source.
	LinkEntitySource LinkKind = "entity_source"

	// LinkOrganizationPerson: Left=organization, Right=person.
	LinkOrganizationPerson LinkKind = "organization_person"

	// LinkOrganizationHierarchy: Left=parent organization, Right=child organization.
	LinkOrganizationHierarchy LinkKind = "organization_hierarchy"

	// LinkMeetingParticipant: Left=meeting, Right=entity.
	LinkMeetingParticipant LinkKind = "meeting_participant"
)

// AllLinkKinds lists every link table.
var AllLinkKinds = []LinkKind{
	LinkDocumentCreator,
	LinkDocumentSetDocument,
	LinkEntitySource,
	LinkOrganizationPerson,
	LinkOrganizationHierarchy,
	LinkMeetingParticipant,
}

// IsValid returns true if the link kind is recognised.
func (k LinkKind) IsValid() bool {
	for _, known := range AllLinkKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Ordered reports whether links of this kind carry an order column.
func (k LinkKind) Ordered() bool {
	return k == LinkDocumentSetDocument
}

// Link is an edge row in one of the link tables.
type Link struct {
	Kind  LinkKind
	Left  string
	Right string

	// Order is only meaningful for ordered link kinds.
	Order int
}

// LinkSide selects which end of a link a lookup matches.
type LinkSide int

// Link sides.
const (
	SideLeft LinkSide = iota
	SideRight
)
