// Package grid implements the field grid and incidence aggregation engine:
// row/position addressing, the record lifecycle with its placement
// invariants, derived views (heatmap, subsection summaries, statistics),
// temporal filtering and the tabular export.  These error kinds are the
// structured values surfaced to the HTTP layer; handlers translate them into
// status codes and user-facing messages, the engine never formats messages
// for end users itself.
package grid

import "errors"

// ErrNoRowSelected is returned when a lifecycle operation is invoked without
// a target row.  Recoverable; the caller must re-prompt row selection.
var ErrNoRowSelected = errors.New("no row selected")

// ErrRowNotFound is returned when the given row id is outside the
// bootstrapped set.  Indicates a stale reference; callers should refresh
// their selection.
var ErrRowNotFound = errors.New("row not found")

// ErrDuplicatePosition is returned when the target row already holds a
// record at the requested position.  The user must pick another position or
// edit the existing record instead.
var ErrDuplicatePosition = errors.New("duplicate position in row")

// ErrRowCapacityExceeded is returned when a row already holds the maximum
// number of records.  Unreachable while positions are unique within a row,
// but the bound is a safety net and stays enforced.
var ErrRowCapacityExceeded = errors.New("row capacity exceeded")

// ErrRecordNotFound is returned when an update targets a record id that does
// not exist in the given row.  Deletes treat the same situation as a no-op.
var ErrRecordNotFound = errors.New("record not found")

// ErrPersistenceWriteFailed is returned when the snapshot write fails after
// an accepted mutation.  The in-memory result is still handed back to the
// caller; retrying or rolling back is a caller decision, never implicit.
var ErrPersistenceWriteFailed = errors.New("persistence write failed")
