package statuslist

import (
	"context"
	"errors"

	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/model"
)

// Persister records a status change remotely. It is optional; a board
// without one only changes local state.
type Persister interface {
	PersistStatus(ctx context.Context, id string, status model.Status) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, id string, status model.Status) error

func (f PersisterFunc) PersistStatus(ctx context.Context, id string, status model.Status) error {
	return f(ctx, id, status)
}

// Change is one local toggle awaiting persistence. Seq increases per item
// on every toggle, so a late result can be recognized as superseded.
type Change struct {
	ID     string
	Status model.Status
	Seq    uint64
}

// Board ties the store, the filter and the persister together. All methods
// run on the UI loop except Persist, which touches nothing but the
// persister and the Change it was given.
type Board struct {
	cfg       Config
	store     *Store
	filter    Filter
	persister Persister
	seq       map[string]uint64
	view      View
}

func NewBoard(cfg Config, store *Store, p Persister) *Board {
	if store == nil {
		store = NewStore(nil)
	}
	b := &Board{cfg: cfg, store: store, persister: p, seq: map[string]uint64{}}
	b.render()
	return b
}

func (b *Board) Config() Config { return b.cfg }

func (b *Board) Store() *Store { return b.store }

func (b *Board) Filter() Filter { return b.filter }

func (b *Board) View() View { return b.view }

// Load refreshes the items from src and re-renders. The filter is kept.
func (b *Board) Load(ctx context.Context, src Source) error {
	if err := b.store.Load(ctx, src); err != nil {
		return err
	}
	b.seq = map[string]uint64{}
	b.render()
	return nil
}

// SetFilter replaces the predicate set and re-runs the visibility pass.
func (b *Board) SetFilter(f Filter) View {
	b.filter = f
	b.render()
	return b.view
}

// Toggle flips one item's status, moves it to the other group and
// recomputes progress, keeping the current filter.
func (b *Board) Toggle(id string) (Change, error) {
	it, err := b.store.Get(id)
	if err != nil {
		log.Warn().Err(err).Msg("toggle target missing")
		return Change{}, err
	}
	return b.set(it.ID, it.Status.Toggled())
}

// MarkDone sets an item to done, e.g. after a grade was submitted for it.
func (b *Board) MarkDone(id string) (Change, error) {
	return b.set(id, model.StatusDone)
}

func (b *Board) set(id string, s model.Status) (Change, error) {
	if err := b.store.Set(id, s); err != nil {
		log.Warn().Err(err).Msg("status target missing")
		return Change{}, err
	}
	b.seq[id]++
	b.render()
	return Change{ID: id, Status: s, Seq: b.seq[id]}, nil
}

// Persist sends c to the persister. Failure leaves local state untouched;
// the caller surfaces the error as a notice.
func (b *Board) Persist(ctx context.Context, c Change) error {
	if b.persister == nil {
		return nil
	}
	if err := b.persister.PersistStatus(ctx, c.ID, c.Status); err != nil {
		return &PersistError{Change: c, Err: err}
	}
	return nil
}

// Persists reports whether toggles are sent anywhere. Without a persister
// a toggle only changes local state.
func (b *Board) Persists() bool { return b.persister != nil }

// Stale reports whether a newer toggle of the same item happened after c.
// Stale results are only logged; nothing is reconciled.
func (b *Board) Stale(c Change) bool {
	return b.seq[c.ID] > c.Seq
}

func (b *Board) render() {
	b.view = Render(b.store.items, b.filter)
}

// PersistError is a failed remote status update.
type PersistError struct {
	Change Change
	Err    error
}

func (e *PersistError) Error() string {
	return "save status of " + e.Change.ID + ": " + e.Err.Error()
}

func (e *PersistError) Unwrap() error { return e.Err }

func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
