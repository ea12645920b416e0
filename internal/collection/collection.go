// Package collection implements the one parameterized store behind every
// inventory entity (activities, supplies, tools, locations, users).  Each
// instance owns a keyed snapshot of `{items, lastUpdated}`, enforces a
// uniqueness key on insert and update, and can block deletes while other
// collections still reference an item.  The persistence contract matches
// the grid's: load on first use, write the full snapshot through on every
// accepted mutation.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jortegar/agroscout/internal/store"
)

// ErrDuplicateItem is returned when an insert or update would give two items
// the same uniqueness key.
var ErrDuplicateItem = errors.New("duplicate item")

// ErrItemNotFound is returned when the requested item id does not exist.
var ErrItemNotFound = errors.New("item not found")

// ErrItemReferenced is returned when a delete is blocked because another
// collection still references the item.
var ErrItemReferenced = errors.New("item still referenced")

// Item is what a collection stores.  ItemID is the stable identity;
// UniqueKey is the business key no two items may share (name, serial,
// email), compared case-insensitively.
type Item interface {
	ItemID() string
	UniqueKey() string
}

// Guard reports whether the item with the given id is still referenced
// elsewhere.  Registered guards run before every delete.
type Guard func(ctx context.Context, id string) (bool, error)

// Collection is a snapshot-persisted item set.  Mutations serialize under
// one mutex, mirroring the grid's single-writer point.
type Collection[T Item] struct {
	mu     sync.Mutex
	store  store.SnapshotStore
	key    string
	guards []Guard
}

type state[T Item] struct {
	Items       []T   `json:"items"`
	LastUpdated int64 `json:"lastUpdated"`
}

// New constructs a collection persisting under the given snapshot key.
func New[T Item](st store.SnapshotStore, key string) *Collection[T] {
	if st == nil {
		panic("nil snapshot store passed to collection.New")
	}
	return &Collection[T]{store: st, key: key}
}

// BlockDeleteWhen registers a referential guard.  Deletes fail with
// ErrItemReferenced while any guard reports the id as referenced.
func (c *Collection[T]) BlockDeleteWhen(g Guard) {
	c.guards = append(c.guards, g)
}

// List returns all items in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	st, err := c.loadState(ctx)
	if err != nil {
		return nil, err
	}
	return st.Items, nil
}

// Get returns the item with the given id or ErrItemNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	st, err := c.loadState(ctx)
	if err != nil {
		return zero, err
	}
	for _, it := range st.Items {
		if it.ItemID() == id {
			return it, nil
		}
	}
	return zero, ErrItemNotFound
}

// Add appends the item after checking its uniqueness key against the
// existing set, then writes the snapshot through.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.loadState(ctx)
	if err != nil {
		return err
	}
	for _, it := range st.Items {
		if strings.EqualFold(it.UniqueKey(), item.UniqueKey()) {
			return ErrDuplicateItem
		}
	}
	st.Items = append(st.Items, item)
	st.LastUpdated = time.Now().UnixMilli()
	return c.saveState(ctx, st)
}

// Update replaces the stored item with the same id.  The uniqueness key is
// re-checked against every other item.
func (c *Collection[T]) Update(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.loadState(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, it := range st.Items {
		if it.ItemID() == item.ItemID() {
			idx = i
			continue
		}
		if strings.EqualFold(it.UniqueKey(), item.UniqueKey()) {
			return ErrDuplicateItem
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}
	st.Items[idx] = item
	st.LastUpdated = time.Now().UnixMilli()
	return c.saveState(ctx, st)
}

// Delete removes the item with the given id.  Guards run first; a delete of
// a referenced item fails with ErrItemReferenced, an unknown id with
// ErrItemNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	for _, g := range c.guards {
		referenced, err := g(ctx, id)
		if err != nil {
			return fmt.Errorf("delete guard for %q: %w", id, err)
		}
		if referenced {
			return ErrItemReferenced
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.loadState(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, it := range st.Items {
		if it.ItemID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}
	st.Items = append(st.Items[:idx], st.Items[idx+1:]...)
	st.LastUpdated = time.Now().UnixMilli()
	return c.saveState(ctx, st)
}

// loadState decodes the snapshot.  Absent snapshots start empty; corrupt
// ones degrade to empty with a loud log, same contract as the grid store.
func (c *Collection[T]) loadState(ctx context.Context) (state[T], error) {
	payload, err := c.store.Load(ctx, c.key)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return state[T]{}, nil
		}
		return state[T]{}, fmt.Errorf("load snapshot %q: %w", c.key, err)
	}
	var st state[T]
	if err := json.Unmarshal(payload, &st); err != nil {
		log.Printf("collection: corrupt snapshot %q discarded, starting empty: %v", c.key, err)
		return state[T]{}, nil
	}
	return st, nil
}

func (c *Collection[T]) saveState(ctx context.Context, st state[T]) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", c.key, err)
	}
	if err := c.store.Save(ctx, c.key, payload); err != nil {
		return fmt.Errorf("write snapshot %q: %w", c.key, err)
	}
	return nil
}
