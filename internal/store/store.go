// Package store provides keyed snapshot persistence.  Every logical
// collection (the incidence grid, each inventory collection) is persisted as
// one opaque payload under a string key and rewritten in full after every
// accepted mutation.  Backends only move bytes; decoding, bootstrap fallback
// and corruption handling belong to the owning component.
package store

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when no payload has ever been
// saved under the requested key.  Callers bootstrap a default state instead
// of treating this as a failure.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is the persistence contract shared by all backends.  Save
// must be synchronous: when it returns nil the payload is durable, and a
// mutation is considered committed only after that point.
type SnapshotStore interface {
	// Load returns the payload last saved under key, or ErrSnapshotNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save overwrites the payload stored under key.
	Save(ctx context.Context, key string, payload []byte) error
}
