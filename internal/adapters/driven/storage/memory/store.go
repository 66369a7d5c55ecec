package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// Store is an in-memory implementation of driven.Store.
//
// Update works on a copy of the state and publishes it only when fn
// succeeds, so a failed or panicking transaction leaves no trace. Records
// are stored by value and never mutated in place, which keeps the copy
// shallow.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Update runs fn against a private copy of the state and publishes it on success.
func (s *Store) Update(ctx context.Context, fn func(tx driven.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&tx{st: next}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = next
	return nil
}

// View runs fn against the current state. Writes fail.
func (s *Store) View(ctx context.Context, fn func(tx driven.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{st: s.state, readOnly: true})
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

type linkKey struct {
	left  string
	right string
}

type state struct {
	sourceTypes map[string]domain.SourceType
	sources     map[string]domain.Source
	entities    map[string]domain.Entity
	documents   map[string]domain.Document
	texts       map[string]domain.TextDocument
	images      map[string]domain.Image
	messages    map[string]domain.Message
	meetings    map[string]domain.Meeting
	chunks      map[string]domain.Chunk
	sets        map[string]domain.DocumentSet
	links       map[domain.LinkKind]map[linkKey]int
}

func newState() *state {
	st := &state{
		sourceTypes: make(map[string]domain.SourceType),
		sources:     make(map[string]domain.Source),
		entities:    make(map[string]domain.Entity),
		documents:   make(map[string]domain.Document),
		texts:       make(map[string]domain.TextDocument),
		images:      make(map[string]domain.Image),
		messages:    make(map[string]domain.Message),
		meetings:    make(map[string]domain.Meeting),
		chunks:      make(map[string]domain.Chunk),
		sets:        make(map[string]domain.DocumentSet),
		links:       make(map[domain.LinkKind]map[linkKey]int),
	}
	for _, kind := range domain.AllLinkKinds {
		st.links[kind] = make(map[linkKey]int)
	}
	return st
}

func (st *state) clone() *state {
	next := &state{
		sourceTypes: copyMap(st.sourceTypes),
		sources:     copyMap(st.sources),
		entities:    copyMap(st.entities),
		documents:   copyMap(st.documents),
		texts:       copyMap(st.texts),
		images:      copyMap(st.images),
		messages:    copyMap(st.messages),
		meetings:    copyMap(st.meetings),
		chunks:      copyMap(st.chunks),
		sets:        copyMap(st.sets),
		links:       make(map[domain.LinkKind]map[linkKey]int, len(st.links)),
	}
	for kind, rows := range st.links {
		next.links[kind] = copyMap(rows)
	}
	return next
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// tx implements driven.Tx over one state snapshot.
type tx struct {
	st       *state
	readOnly bool
}

var _ driven.Tx = (*tx)(nil)

var errReadOnly = errors.New("write in read-only transaction")

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneEmbeddings(e domain.Embeddings) domain.Embeddings {
	return domain.Embeddings{
		Sparse:  cloneBytes(e.Sparse),
		Dense:   cloneBytes(e.Dense),
		Summary: cloneString(e.Summary),
	}
}
