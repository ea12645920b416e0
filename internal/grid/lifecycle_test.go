package grid_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortegar/agroscout/internal/grid"
	"github.com/jortegar/agroscout/internal/model"
	"github.com/jortegar/agroscout/internal/store"
)

// flakyStore wraps a MemoryStore and injects failures, counting writes so
// tests can assert that rejected mutations never touch the backend.
type flakyStore struct {
	mem      *store.MemoryStore
	failLoad bool
	failSave bool
	saves    int
}

func (s *flakyStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.failLoad {
		return nil, errors.New("backend down")
	}
	return s.mem.Load(ctx, key)
}

func (s *flakyStore) Save(ctx context.Context, key string, payload []byte) error {
	if s.failSave {
		return errors.New("backend down")
	}
	s.saves++
	return s.mem.Save(ctx, key, payload)
}

// captureAuditor records the notifications a service emits.
type captureAuditor struct {
	mu        sync.Mutex
	actions   []string
	corrupted []string
}

func (a *captureAuditor) RecordMutated(_ context.Context, action string, _ model.IncidenceRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *captureAuditor) SnapshotCorrupted(_ context.Context, _ string, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.corrupted = append(a.corrupted, reason)
}

func newTestService(t *testing.T) (*grid.Service, *flakyStore) {
	t.Helper()
	st := &flakyStore{mem: store.NewMemoryStore()}
	return grid.NewService(st, "grid:test", grid.DefaultGeometry(), nil), st
}

func TestAddRecordAssignsIdentityAndPersists(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	row, err := svc.AddRecord(ctx, 5, 4, 6, "aphids on lower leaves")
	require.NoError(t, err)
	require.Len(t, row.Records, 1)

	rec := row.Records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 5, rec.RowID)
	assert.Equal(t, 4, rec.Position)
	assert.Equal(t, 6, rec.Level)
	assert.Equal(t, 4, rec.Subsection)
	assert.NotZero(t, rec.Timestamp)
	assert.Equal(t, 1, st.saves)

	// A second service on the same store sees the persisted record.
	again := grid.NewService(st, "grid:test", grid.DefaultGeometry(), nil)
	state, err := again.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.RecordCount())
	assert.Equal(t, rec.Timestamp, state.LastUpdated)
}

func TestAddRecordRequiresRowSelection(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.AddRecord(context.Background(), 0, 1, 3, "")
	assert.ErrorIs(t, err, grid.ErrNoRowSelected)
	assert.Zero(t, st.saves)
}

func TestAddRecordUnknownRow(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.AddRecord(context.Background(), 99, 1, 3, "")
	assert.ErrorIs(t, err, grid.ErrRowNotFound)
	assert.Zero(t, st.saves)
}

func TestAddRecordRejectsDuplicatePosition(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, 3, 7, 2, "")
	require.NoError(t, err)

	_, err = svc.AddRecord(ctx, 3, 7, 9, "")
	assert.ErrorIs(t, err, grid.ErrDuplicatePosition)
	assert.Equal(t, 1, st.saves)

	// The same position in a different row is fine.
	_, err = svc.AddRecord(ctx, 4, 7, 9, "")
	assert.NoError(t, err)
}

func TestAddRecordEnforcesRowCapacity(t *testing.T) {
	// A wide geometry so unique positions do not run out before the cap.
	geom := grid.Geometry{Rows: 2, Positions: 200, Subsections: 10}
	require.NoError(t, geom.Validate())
	st := &flakyStore{mem: store.NewMemoryStore()}
	svc := grid.NewService(st, "grid:test", geom, nil)
	ctx := context.Background()

	for pos := 1; pos <= grid.RowCapacity; pos++ {
		_, err := svc.AddRecord(ctx, 1, pos, 1, "")
		require.NoError(t, err)
	}

	_, err := svc.AddRecord(ctx, 1, grid.RowCapacity+1, 1, "")
	assert.ErrorIs(t, err, grid.ErrRowCapacityExceeded)

	// Other rows keep their own budget.
	_, err = svc.AddRecord(ctx, 2, 1, 1, "")
	assert.NoError(t, err)
}

func TestUpdateRecordKeepsIdentityFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	row, err := svc.AddRecord(ctx, 2, 5, 3, "initial")
	require.NoError(t, err)
	orig := row.Records[0]

	row, err = svc.UpdateRecord(ctx, 2, orig.ID, 8, "worsened")
	require.NoError(t, err)
	require.Len(t, row.Records, 1)

	got := row.Records[0]
	assert.Equal(t, 8, got.Level)
	assert.Equal(t, "worsened", got.Notes)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.Position, got.Position)
	assert.Equal(t, orig.RowID, got.RowID)
	assert.Equal(t, orig.Timestamp, got.Timestamp)
}

func TestUpdateRecordUnknownRecord(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateRecord(context.Background(), 2, "no-such-id", 5, "")
	assert.ErrorIs(t, err, grid.ErrRecordNotFound)
}

func TestDeleteRecordRemovesAndAudits(t *testing.T) {
	st := &flakyStore{mem: store.NewMemoryStore()}
	audit := &captureAuditor{}
	svc := grid.NewService(st, "grid:test", grid.DefaultGeometry(), audit)
	ctx := context.Background()

	row, err := svc.AddRecord(ctx, 1, 1, 4, "")
	require.NoError(t, err)
	recID := row.Records[0].ID

	row, err = svc.DeleteRecord(ctx, 1, recID)
	require.NoError(t, err)
	assert.Empty(t, row.Records)
	assert.Equal(t, []string{grid.ActionRecorded, grid.ActionDeleted}, audit.actions)
}

func TestDeleteRecordIdempotentMiss(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, 1, 1, 4, "")
	require.NoError(t, err)
	before, err := svc.State(ctx)
	require.NoError(t, err)
	savesBefore := st.saves

	row, err := svc.DeleteRecord(ctx, 1, "already-gone")
	require.NoError(t, err)
	assert.Len(t, row.Records, 1)

	after, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.LastUpdated, after.LastUpdated)
	assert.Equal(t, savesBefore, st.saves)
}

func TestPersistenceFailureReturnsMutatedRow(t *testing.T) {
	svc, st := newTestService(t)
	st.failSave = true

	row, err := svc.AddRecord(context.Background(), 1, 1, 5, "")
	assert.ErrorIs(t, err, grid.ErrPersistenceWriteFailed)
	// The in-memory result carries the accepted record.
	require.Len(t, row.Records, 1)
	assert.Equal(t, 5, row.Records[0].Level)
}

func TestAbsentSnapshotBootstraps(t *testing.T) {
	svc, _ := newTestService(t)

	state, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Rows, grid.DefaultRows)
	assert.Equal(t, "Surco 1", state.Rows[0].Name)
	assert.Equal(t, 0, state.RecordCount())
}

func TestCorruptSnapshotFallsBackLoudly(t *testing.T) {
	st := &flakyStore{mem: store.NewMemoryStore()}
	require.NoError(t, st.Save(context.Background(), "grid:test", []byte("{not json")))
	audit := &captureAuditor{}
	svc := grid.NewService(st, "grid:test", grid.DefaultGeometry(), audit)

	state, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Rows, grid.DefaultRows)
	assert.Len(t, audit.corrupted, 1)
}

func TestBackendErrorPropagates(t *testing.T) {
	svc, st := newTestService(t)
	st.failLoad = true

	_, err := svc.State(context.Background())
	assert.Error(t, err)

	_, err = svc.AddRecord(context.Background(), 1, 1, 3, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, grid.ErrRowNotFound)
}
