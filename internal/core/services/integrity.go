package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// Ensure IntegrityService implements the interface.
var _ driving.IntegrityService = (*IntegrityService)(nil)

// IntegrityService scans the store for rows that disagree with the model.
// Each category is scanned in its own read transaction, concurrently.
type IntegrityService struct {
	store       driven.Store
	allowCycles bool
}

// NewIntegrityService creates a new integrity service. When allowCycles
// is true, hierarchy cycles are not reported.
func NewIntegrityService(store driven.Store, allowCycles bool) *IntegrityService {
	return &IntegrityService{store: store, allowCycles: allowCycles}
}

type scan func(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error)

// Verify reports every inconsistency found. Findings are grouped by
// category in a fixed order.
func (s *IntegrityService) Verify(ctx context.Context) (*domain.IntegrityReport, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	scans := []scan{
		scanDocuments,
		scanEvents,
		scanLinks,
		scanRoles,
		scanChunks,
		scanSets,
		scanEntities,
	}
	if !s.allowCycles {
		scans = append(scans, scanHierarchy)
	}

	results := make([][]domain.IntegrityIssue, len(scans))
	g, gctx := errgroup.WithContext(ctx)
	for i, fn := range scans {
		g.Go(func() error {
			return s.store.View(gctx, func(tx driven.Tx) error {
				issues, err := fn(gctx, tx)
				results[i] = issues
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &domain.IntegrityReport{}
	for _, issues := range results {
		report.Issues = append(report.Issues, issues...)
	}
	logger.Debug("integrity scan found %d issue(s)", len(report.Issues))
	return report, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// scanDocuments checks every base row has exactly the payload its
// discriminator names, and every payload has a base row.
func scanDocuments(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	docs, err := tx.ListDocuments(ctx, "")
	if err != nil {
		return nil, err
	}
	texts, err := tx.ListPayloadIDs(ctx, domain.DocumentText)
	if err != nil {
		return nil, err
	}
	images, err := tx.ListPayloadIDs(ctx, domain.DocumentImage)
	if err != nil {
		return nil, err
	}
	payloads := map[domain.DocumentKind]map[string]bool{
		domain.DocumentText:  toSet(texts),
		domain.DocumentImage: toSet(images),
	}

	var issues []domain.IntegrityIssue
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		known[doc.ID] = true
		if !doc.Kind.IsValid() {
			issues = append(issues, domain.IntegrityIssue{
				Kind: domain.IssueUnknownKind, Table: "document", ID: doc.ID,
				Detail: fmt.Sprintf("discriminator %q", doc.Kind),
			})
			continue
		}
		for _, kind := range []domain.DocumentKind{domain.DocumentText, domain.DocumentImage} {
			present := payloads[kind][doc.ID]
			switch {
			case kind == doc.Kind && !present:
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueMissingPayload, Table: string(kind), ID: doc.ID,
					Detail: "base row has no payload",
				})
			case kind != doc.Kind && present:
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueExtraPayload, Table: string(kind), ID: doc.ID,
					Detail: fmt.Sprintf("payload on a %s base row", doc.Kind),
				})
			}
		}
	}
	for _, kind := range []domain.DocumentKind{domain.DocumentText, domain.DocumentImage} {
		ids := texts
		if kind == domain.DocumentImage {
			ids = images
		}
		for _, id := range ids {
			if !known[id] {
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueOrphanPayload, Table: string(kind), ID: id,
					Detail: "payload without base row",
				})
			}
		}
	}
	return issues, nil
}

// scanEvents checks each event extends a text payload and no text
// document holds two events.
func scanEvents(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	texts, err := tx.ListPayloadIDs(ctx, domain.DocumentText)
	if err != nil {
		return nil, err
	}
	messages, err := tx.ListEventIDs(ctx, domain.EventMessage)
	if err != nil {
		return nil, err
	}
	meetings, err := tx.ListEventIDs(ctx, domain.EventMeeting)
	if err != nil {
		return nil, err
	}
	isText := toSet(texts)
	isMeeting := toSet(meetings)

	var issues []domain.IntegrityIssue
	for _, id := range messages {
		if isMeeting[id] {
			issues = append(issues, domain.IntegrityIssue{
				Kind: domain.IssueDoubleEvent, Table: "message", ID: id,
				Detail: "text document is both message and meeting",
			})
		}
	}
	for _, ev := range []struct {
		table string
		ids   []string
	}{{"message", messages}, {"meeting", meetings}} {
		for _, id := range ev.ids {
			if !isText[id] {
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueOrphanPayload, Table: ev.table, ID: id,
					Detail: "event without text payload",
				})
			}
		}
	}
	return issues, nil
}

// endpoints collects the identifiers every link kind may point at.
type endpoints struct {
	documents map[string]bool
	entities  map[string]domain.EntityKind
	sources   map[string]bool
	sets      map[string]bool
	meetings  map[string]bool
}

func loadEndpoints(ctx context.Context, tx driven.Tx) (*endpoints, error) {
	docs, err := tx.ListDocuments(ctx, "")
	if err != nil {
		return nil, err
	}
	entities, err := tx.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}
	sources, err := tx.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	sets, err := tx.ListDocumentSets(ctx)
	if err != nil {
		return nil, err
	}
	meetings, err := tx.ListEventIDs(ctx, domain.EventMeeting)
	if err != nil {
		return nil, err
	}

	ep := &endpoints{
		documents: make(map[string]bool, len(docs)),
		entities:  make(map[string]domain.EntityKind, len(entities)),
		sources:   make(map[string]bool, len(sources)),
		sets:      make(map[string]bool, len(sets)),
		meetings:  toSet(meetings),
	}
	for _, d := range docs {
		ep.documents[d.ID] = true
	}
	for _, e := range entities {
		ep.entities[e.ID] = e.Kind
	}
	for _, s := range sources {
		ep.sources[s.ID] = true
	}
	for _, s := range sets {
		ep.sets[s.ID] = true
	}
	return ep, nil
}

// sides returns, for a link kind, whether each end exists.
func (ep *endpoints) sides(l domain.Link) (left, right bool) {
	_, rightEntity := ep.entities[l.Right]
	_, leftEntity := ep.entities[l.Left]
	switch l.Kind {
	case domain.LinkDocumentCreator:
		return ep.documents[l.Left], rightEntity
	case domain.LinkDocumentSetDocument:
		return ep.sets[l.Left], ep.documents[l.Right]
	case domain.LinkEntitySource:
		return leftEntity, ep.sources[l.Right]
	case domain.LinkOrganizationPerson, domain.LinkOrganizationHierarchy:
		return leftEntity, rightEntity
	case domain.LinkMeetingParticipant:
		return ep.meetings[l.Left], rightEntity
	default:
		return false, false
	}
}

// scanLinks reports link rows whose endpoints no longer exist.
func scanLinks(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	ep, err := loadEndpoints(ctx, tx)
	if err != nil {
		return nil, err
	}
	var issues []domain.IntegrityIssue
	for _, kind := range domain.AllLinkKinds {
		links, err := tx.ListLinks(ctx, kind, domain.SideLeft, "")
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			left, right := ep.sides(l)
			if left && right {
				continue
			}
			missing := l.Left
			if left {
				missing = l.Right
			}
			issues = append(issues, domain.IntegrityIssue{
				Kind: domain.IssueOrphanLink, Table: string(kind), ID: l.Left + "/" + l.Right,
				Detail: fmt.Sprintf("endpoint %s does not exist", missing),
			})
		}
	}
	return issues, nil
}

// scanRoles reports membership and hierarchy links whose entity kinds
// do not match the link's roles.
func scanRoles(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	entities, err := tx.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}
	kinds := make(map[string]domain.EntityKind, len(entities))
	for _, e := range entities {
		kinds[e.ID] = e.Kind
	}

	rules := []struct {
		link        domain.LinkKind
		left, right domain.EntityKind
	}{
		{domain.LinkOrganizationPerson, domain.EntityOrganization, domain.EntityPerson},
		{domain.LinkOrganizationHierarchy, domain.EntityOrganization, domain.EntityOrganization},
	}
	var issues []domain.IntegrityIssue
	for _, rule := range rules {
		links, err := tx.ListLinks(ctx, rule.link, domain.SideLeft, "")
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			left, lok := kinds[l.Left]
			right, rok := kinds[l.Right]
			if !lok || !rok {
				// Reported by scanLinks.
				continue
			}
			if left != rule.left || right != rule.right {
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueRoleMismatch, Table: string(rule.link), ID: l.Left + "/" + l.Right,
					Detail: fmt.Sprintf("%s -> %s, want %s -> %s", left, right, rule.left, rule.right),
				})
			}
		}
	}
	return issues, nil
}

// scanHierarchy reports one organization per cycle in the hierarchy.
func scanHierarchy(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	links, err := tx.ListLinks(ctx, domain.LinkOrganizationHierarchy, domain.SideLeft, "")
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string)
	var nodes []string
	for _, l := range links {
		if _, ok := children[l.Left]; !ok {
			nodes = append(nodes, l.Left)
		}
		children[l.Left] = append(children[l.Left], l.Right)
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var issues []domain.IntegrityIssue
	var visit func(node string)
	visit = func(node string) {
		state[node] = active
		for _, child := range children[node] {
			switch state[child] {
			case active:
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueHierarchyCycle, Table: string(domain.LinkOrganizationHierarchy),
					ID: child, Detail: fmt.Sprintf("cycle closed by edge %s -> %s", node, child),
				})
			case unvisited:
				visit(child)
			}
		}
		state[node] = done
	}
	for _, node := range nodes {
		if state[node] == unvisited {
			visit(node)
		}
	}
	return issues, nil
}

// scanChunks checks sequences are 0..n-1 and offsets fit the text.
func scanChunks(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	docs, err := tx.ListDocuments(ctx, "")
	if err != nil {
		return nil, err
	}
	var issues []domain.IntegrityIssue
	for _, doc := range docs {
		chunks, err := tx.ListChunks(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			continue
		}
		textLen := -1
		p, err := tx.GetTextPayload(ctx, doc.ID)
		switch {
		case err == nil:
			textLen = utf8.RuneCountInString(p.Text)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}

		for i, c := range chunks {
			if c.Sequence != i {
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueChunkSequence, Table: "chunk", ID: c.ID,
					Detail: fmt.Sprintf("sequence %d at position %d of document %s", c.Sequence, i, doc.ID),
				})
			}
			if textLen < 0 {
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueChunkOffsets, Table: "chunk", ID: c.ID,
					Detail: fmt.Sprintf("document %s has no text", doc.ID),
				})
				continue
			}
			spec := domain.ChunkSpec{Start: c.Start, End: c.End}
			if err := spec.Validate(textLen); err != nil {
				issues = append(issues, domain.IntegrityIssue{
					Kind: domain.IssueChunkOffsets, Table: "chunk", ID: c.ID, Detail: err.Error(),
				})
			}
		}
	}
	return issues, nil
}

// scanSets checks document set dates against their discriminator.
func scanSets(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	sets, err := tx.ListDocumentSets(ctx)
	if err != nil {
		return nil, err
	}
	var issues []domain.IntegrityIssue
	for i := range sets {
		set := &sets[i]
		kind := domain.IssueSetDates
		if !set.Kind.IsValid() {
			kind = domain.IssueUnknownKind
		}
		if err := set.Validate(); err != nil {
			issues = append(issues, domain.IntegrityIssue{
				Kind: kind, Table: "document_set", ID: set.ID, Detail: err.Error(),
			})
		}
	}
	return issues, nil
}

// scanEntities reports entities with an unknown discriminator and
// sources whose type is gone.
func scanEntities(ctx context.Context, tx driven.Tx) ([]domain.IntegrityIssue, error) {
	entities, err := tx.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}
	var issues []domain.IntegrityIssue
	for _, e := range entities {
		if !e.Kind.IsValid() {
			issues = append(issues, domain.IntegrityIssue{
				Kind: domain.IssueUnknownKind, Table: "entity", ID: e.ID,
				Detail: fmt.Sprintf("discriminator %q", e.Kind),
			})
		}
	}

	types, err := tx.ListSourceTypes(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(types))
	for _, st := range types {
		known[st.ID] = true
	}
	sources, err := tx.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		if !known[src.SourceTypeID] {
			issues = append(issues, domain.IntegrityIssue{
				Kind: domain.IssueOrphanLink, Table: "source", ID: src.ID,
				Detail: fmt.Sprintf("source type %s does not exist", src.SourceTypeID),
			})
		}
	}
	return issues, nil
}
