package statuslist

import (
	"context"
	"fmt"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/model"
)

// Source produces the full item collection, in display order.
type Source interface {
	Load(ctx context.Context) ([]model.Item, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]model.Item, error)

func (f SourceFunc) Load(ctx context.Context) ([]model.Item, error) { return f(ctx) }

// FetchError means the collection could not be loaded. Callers must show an
// error placeholder, never a partial or empty-looking list.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "load items: " + e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// Store is the ordered in-memory item set. It is not safe for concurrent
// use; it belongs to the UI loop.
type Store struct {
	items []model.Item
	index map[string]int
}

func NewStore(items []model.Item) *Store {
	s := &Store{}
	s.replace(items)
	return s
}

// Load replaces the item set with the source's. On failure the previous
// contents are kept and a *FetchError is returned.
func (s *Store) Load(ctx context.Context, src Source) error {
	items, err := src.Load(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}
	s.replace(items)
	return nil
}

func (s *Store) replace(items []model.Item) {
	s.items = make([]model.Item, len(items))
	s.index = make(map[string]int, len(items))
	for i, it := range items {
		if it.Status != model.StatusDone {
			it.Status = model.StatusTodo
		}
		s.items[i] = it
		s.index[it.ID] = i
	}
}

func (s *Store) Len() int { return len(s.items) }

// Items returns a copy of the items in order.
func (s *Store) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id string) (model.Item, error) {
	i, ok := s.index[id]
	if !ok {
		return model.Item{}, apperr.NotFoundLocal(fmt.Sprintf("item %q", id))
	}
	return s.items[i], nil
}

// Set changes one item's status.
func (s *Store) Set(id string, status model.Status) error {
	i, ok := s.index[id]
	if !ok {
		return apperr.NotFoundLocal(fmt.Sprintf("item %q", id))
	}
	s.items[i].Status = status
	return nil
}
