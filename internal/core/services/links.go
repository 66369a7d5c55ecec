package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// linked returns the ids at the opposite end of every link of kind whose
// side equals id, sorted.
func linked(ctx context.Context, tx driven.Tx, kind domain.LinkKind, side domain.LinkSide, id string) ([]string, error) {
	links, err := tx.ListLinks(ctx, kind, side, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		if side == domain.SideLeft {
			ids = append(ids, l.Right)
		} else {
			ids = append(ids, l.Left)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// requireKind loads an entity and checks its kind.
func requireKind(ctx context.Context, tx driven.Tx, id string, kind domain.EntityKind) (*domain.Entity, error) {
	e, err := tx.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Kind != kind {
		return nil, fmt.Errorf("entity %s is a %s, want %s: %w", id, e.Kind, kind, domain.ErrRoleMismatch)
	}
	return e, nil
}
