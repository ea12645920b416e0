package grid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jortegar/agroscout/internal/model"
	"github.com/jortegar/agroscout/internal/store"
)

// Auditor receives notifications about grid mutations and recovered
// corruption.  Implementations must not block the mutation path; publish
// failures are theirs to log and swallow.  A nil Auditor disables auditing.
type Auditor interface {
	RecordMutated(ctx context.Context, action string, rec model.IncidenceRecord)
	SnapshotCorrupted(ctx context.Context, key, reason string)
}

// Audit action names, also used as event types on the queue.
const (
	ActionRecorded = "incidence.recorded"
	ActionUpdated  = "incidence.updated"
	ActionDeleted  = "incidence.deleted"
)

// Service owns the record lifecycle against the durable snapshot.  Every
// mutation is a load-modify-write sequence serialized under one mutex: the
// engine assumes a single logical writer, and the mutex is the serialization
// point that keeps that assumption valid under concurrent HTTP requests.
// Reads load a fresh snapshot and never go through cached derived state.
type Service struct {
	mu    sync.Mutex
	store store.SnapshotStore
	key   string
	geom  Geometry
	audit Auditor
}

// NewService constructs a Service persisting under the given snapshot key.
// audit may be nil.
func NewService(st store.SnapshotStore, key string, geom Geometry, audit Auditor) *Service {
	if st == nil {
		panic("nil snapshot store passed to grid.NewService")
	}
	return &Service{store: st, key: key, geom: geom, audit: audit}
}

// Geometry returns the grid geometry the service was configured with.
func (s *Service) Geometry() Geometry {
	return s.geom
}

// State returns the current authoritative snapshot.  An absent or corrupt
// snapshot degrades to the bootstrap state; backend I/O failures are
// returned as errors so that callers never mistake an unreachable store for
// an empty grid.
func (s *Service) State(ctx context.Context) (model.GridState, error) {
	return s.loadState(ctx)
}

// AddRecord appends a new observation to the given row.  Placement
// invariants are enforced in order: a row must be selected, it must exist,
// the position must be free and the row must have capacity left.  On success
// the record gets a fresh id and timestamp, the store-wide lastUpdated stamp
// moves, the snapshot is written through and the updated row is returned.
// Callers must use the returned row instead of any previously held copy.
func (s *Service) AddRecord(ctx context.Context, rowID, position, level int, notes string) (model.Row, error) {
	if rowID == 0 {
		return model.Row{}, ErrNoRowSelected
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return model.Row{}, err
	}
	i := rowIndex(st.Rows, rowID)
	if i < 0 {
		return model.Row{}, ErrRowNotFound
	}
	row := &st.Rows[i]
	for _, rec := range row.Records {
		if rec.Position == position {
			return model.Row{}, ErrDuplicatePosition
		}
	}
	if len(row.Records) >= RowCapacity {
		return model.Row{}, ErrRowCapacityExceeded
	}

	now := time.Now().UnixMilli()
	rec := model.IncidenceRecord{
		ID:         uuid.NewString(),
		RowID:      rowID,
		Position:   position,
		Level:      level,
		Notes:      notes,
		Timestamp:  now,
		Subsection: s.geom.SubsectionFor(position),
	}
	row.Records = append(row.Records, rec)
	st.LastUpdated = now

	if err := s.saveState(ctx, st); err != nil {
		return *row, err
	}
	if s.audit != nil {
		s.audit.RecordMutated(ctx, ActionRecorded, rec)
	}
	return *row, nil
}

// UpdateRecord replaces level and notes of an existing record in place.
// Position, owning row, id and the original timestamp never change.
func (s *Service) UpdateRecord(ctx context.Context, rowID int, recordID string, level int, notes string) (model.Row, error) {
	if rowID == 0 {
		return model.Row{}, ErrNoRowSelected
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return model.Row{}, err
	}
	i := rowIndex(st.Rows, rowID)
	if i < 0 {
		return model.Row{}, ErrRowNotFound
	}
	row := &st.Rows[i]
	j := -1
	for k := range row.Records {
		if row.Records[k].ID == recordID {
			j = k
			break
		}
	}
	if j < 0 {
		return model.Row{}, ErrRecordNotFound
	}
	row.Records[j].Level = level
	row.Records[j].Notes = notes
	st.LastUpdated = time.Now().UnixMilli()

	if err := s.saveState(ctx, st); err != nil {
		return *row, err
	}
	if s.audit != nil {
		s.audit.RecordMutated(ctx, ActionUpdated, row.Records[j])
	}
	return *row, nil
}

// DeleteRecord removes the record from the given row.  Deletion is
// idempotent: when the row holds no such record nothing is touched, no
// snapshot is written, lastUpdated keeps its value and the current row is
// returned without error.
func (s *Service) DeleteRecord(ctx context.Context, rowID int, recordID string) (model.Row, error) {
	if rowID == 0 {
		return model.Row{}, ErrNoRowSelected
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return model.Row{}, err
	}
	i := rowIndex(st.Rows, rowID)
	if i < 0 {
		return model.Row{}, ErrRowNotFound
	}
	row := &st.Rows[i]
	j := -1
	for k := range row.Records {
		if row.Records[k].ID == recordID {
			j = k
			break
		}
	}
	if j < 0 {
		// Idempotent miss: the record is already gone.
		return *row, nil
	}
	deleted := row.Records[j]
	row.Records = append(row.Records[:j], row.Records[j+1:]...)
	st.LastUpdated = time.Now().UnixMilli()

	if err := s.saveState(ctx, st); err != nil {
		return *row, err
	}
	if s.audit != nil {
		s.audit.RecordMutated(ctx, ActionDeleted, deleted)
	}
	return *row, nil
}

// loadState reads and decodes the snapshot.  Absent snapshots bootstrap
// silently; corrupt ones bootstrap loudly, with an error log and a
// snapshot.corrupted audit event, because the fallback discards whatever the
// payload held.  Backend I/O errors propagate: degrading an unreachable
// store to an empty grid would let the next write wipe real data.
func (s *Service) loadState(ctx context.Context) (model.GridState, error) {
	payload, err := s.store.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return s.bootstrapState(), nil
		}
		return model.GridState{}, fmt.Errorf("load snapshot %q: %w", s.key, err)
	}
	var st model.GridState
	if err := json.Unmarshal(payload, &st); err != nil {
		s.recoverCorrupt(ctx, err.Error())
		return s.bootstrapState(), nil
	}
	if len(st.Rows) == 0 {
		// A persisted grid always carries its bootstrapped rows.
		s.recoverCorrupt(ctx, "empty row set")
		return s.bootstrapState(), nil
	}
	return st, nil
}

// saveState encodes and writes the snapshot through to the store.  A write
// failure is reported as ErrPersistenceWriteFailed; callers keep the
// in-memory result and decide whether to retry or surface a warning.
func (s *Service) saveState(ctx context.Context, st model.GridState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", s.key, err)
	}
	if err := s.store.Save(ctx, s.key, payload); err != nil {
		log.Printf("grid: snapshot write failed for %q: %v", s.key, err)
		return fmt.Errorf("%w: %v", ErrPersistenceWriteFailed, err)
	}
	return nil
}

func (s *Service) bootstrapState() model.GridState {
	return model.GridState{
		Rows:        InitializeRows(s.geom.Rows),
		LastUpdated: time.Now().UnixMilli(),
	}
}

func (s *Service) recoverCorrupt(ctx context.Context, reason string) {
	log.Printf("grid: corrupt snapshot %q discarded, falling back to bootstrap state: %s", s.key, reason)
	if s.audit != nil {
		s.audit.SnapshotCorrupted(ctx, s.key, reason)
	}
}
