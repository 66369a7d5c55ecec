package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// endpoint names the record table a link side references.
type endpoint int

const (
	endpointDocument endpoint = iota
	endpointEntity
	endpointSource
	endpointDocumentSet
	endpointMeeting
)

// linkEndpoints mirrors the foreign keys of the link tables.
var linkEndpoints = map[domain.LinkKind][2]endpoint{
	domain.LinkDocumentCreator:       {endpointDocument, endpointEntity},
	domain.LinkDocumentSetDocument:   {endpointDocumentSet, endpointDocument},
	domain.LinkEntitySource:          {endpointEntity, endpointSource},
	domain.LinkOrganizationPerson:    {endpointEntity, endpointEntity},
	domain.LinkOrganizationHierarchy: {endpointEntity, endpointEntity},
	domain.LinkMeetingParticipant:    {endpointMeeting, endpointEntity},
}

func (t *tx) exists(ep endpoint, id string) bool {
	var ok bool
	switch ep {
	case endpointDocument:
		_, ok = t.st.documents[id]
	case endpointEntity:
		_, ok = t.st.entities[id]
	case endpointSource:
		_, ok = t.st.sources[id]
	case endpointDocumentSet:
		_, ok = t.st.sets[id]
	case endpointMeeting:
		_, ok = t.st.meetings[id]
	}
	return ok
}

// cascade removes every link row whose side references the deleted record.
func (t *tx) cascade(ep endpoint, id string) {
	for kind, sides := range linkEndpoints {
		rows := t.st.links[kind]
		for key := range rows {
			if (sides[0] == ep && key.left == id) || (sides[1] == ep && key.right == id) {
				delete(rows, key)
			}
		}
	}
}

func (t *tx) checkLink(l domain.Link) (map[linkKey]int, error) {
	sides, ok := linkEndpoints[l.Kind]
	if !ok {
		return nil, goerr.Wrap(domain.ErrInvalidInput, "unknown link kind", goerr.V("kind", l.Kind))
	}
	if !t.exists(sides[0], l.Left) || !t.exists(sides[1], l.Right) {
		return nil, goerr.Wrap(domain.ErrNotFound, "link endpoint not found",
			goerr.V("kind", l.Kind), goerr.V("left", l.Left), goerr.V("right", l.Right))
	}
	return t.st.links[l.Kind], nil
}

func (t *tx) order(l domain.Link) int {
	if l.Kind.Ordered() {
		return l.Order
	}
	return 0
}

// InsertLink stores a link; an existing pair is ErrDuplicateEdge.
func (t *tx) InsertLink(_ context.Context, l domain.Link) error {
	if err := t.writable(); err != nil {
		return err
	}
	rows, err := t.checkLink(l)
	if err != nil {
		return err
	}
	key := linkKey{left: l.Left, right: l.Right}
	if _, ok := rows[key]; ok {
		return goerr.Wrap(domain.ErrDuplicateEdge, "failed to insert link",
			goerr.V("kind", l.Kind), goerr.V("left", l.Left), goerr.V("right", l.Right))
	}
	rows[key] = t.order(l)
	return nil
}

// UpsertLink stores a link or overwrites its order.
func (t *tx) UpsertLink(_ context.Context, l domain.Link) error {
	if err := t.writable(); err != nil {
		return err
	}
	rows, err := t.checkLink(l)
	if err != nil {
		return err
	}
	rows[linkKey{left: l.Left, right: l.Right}] = t.order(l)
	return nil
}

// DeleteLink removes a link if present.
func (t *tx) DeleteLink(_ context.Context, kind domain.LinkKind, left, right string) error {
	if err := t.writable(); err != nil {
		return err
	}
	rows, ok := t.st.links[kind]
	if !ok {
		return goerr.Wrap(domain.ErrInvalidInput, "unknown link kind", goerr.V("kind", kind))
	}
	delete(rows, linkKey{left: left, right: right})
	return nil
}

// HasLink reports whether the pair exists.
func (t *tx) HasLink(_ context.Context, kind domain.LinkKind, left, right string) (bool, error) {
	rows, ok := t.st.links[kind]
	if !ok {
		return false, goerr.Wrap(domain.ErrInvalidInput, "unknown link kind", goerr.V("kind", kind))
	}
	_, found := rows[linkKey{left: left, right: right}]
	return found, nil
}

// ListLinks returns the links of kind matching id on side, sorted by
// (order, left, right).
func (t *tx) ListLinks(_ context.Context, kind domain.LinkKind, side domain.LinkSide, id string) ([]domain.Link, error) {
	rows, ok := t.st.links[kind]
	if !ok {
		return nil, goerr.Wrap(domain.ErrInvalidInput, "unknown link kind", goerr.V("kind", kind))
	}

	var links []domain.Link //nolint:prealloc // filtered
	for key, order := range rows {
		if id != "" {
			if side == domain.SideLeft && key.left != id {
				continue
			}
			if side == domain.SideRight && key.right != id {
				continue
			}
		}
		links = append(links, domain.Link{Kind: kind, Left: key.left, Right: key.right, Order: order})
	}
	sort.Slice(links, func(i, j int) bool {
		a, b := links[i], links[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		return a.Right < b.Right
	})
	return links, nil
}
