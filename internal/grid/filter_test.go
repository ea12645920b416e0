package grid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortegar/agroscout/internal/grid"
	"github.com/jortegar/agroscout/internal/model"
)

func stateWithTimestamps(ts ...int64) model.GridState {
	rows := grid.InitializeRows(1)
	for i, t := range ts {
		rows[0].Records = append(rows[0].Records, model.IncidenceRecord{
			ID:        string(rune('a' + i)),
			RowID:     1,
			Position:  i + 1,
			Level:     i,
			Timestamp: t,
		})
	}
	return model.GridState{Rows: rows, LastUpdated: 42}
}

func TestFilterByDayNilIsIdentity(t *testing.T) {
	state := stateWithTimestamps(1000, 2000, 3000)

	out := grid.FilterByDay(state, nil)
	assert.Equal(t, state.Rows, out.Rows)
	assert.Equal(t, state.LastUpdated, out.LastUpdated)
}

func TestFilterByDayBoundsAreInclusive(t *testing.T) {
	day := time.Date(2026, 3, 15, 14, 0, 0, 0, time.Local)
	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local).UnixMilli()
	end := time.Date(2026, 3, 16, 0, 0, 0, 0, time.Local).UnixMilli() - 1

	state := stateWithTimestamps(start-1, start, end, end+1)
	out := grid.FilterByDay(state, &day)

	require.Len(t, out.Rows, 1)
	recs := out.Rows[0].Records
	require.Len(t, recs, 2)
	assert.Equal(t, start, recs[0].Timestamp)
	assert.Equal(t, end, recs[1].Timestamp)
}

func TestFilterByDayKeepsEveryRow(t *testing.T) {
	day := time.Now()
	state := model.GridState{Rows: grid.InitializeRows(grid.DefaultRows)}

	out := grid.FilterByDay(state, &day)
	assert.Len(t, out.Rows, grid.DefaultRows)
	for _, row := range out.Rows {
		assert.NotNil(t, row.Records)
		assert.Empty(t, row.Records)
	}
}

func TestFilterByDayReturnsStructuralCopy(t *testing.T) {
	state := stateWithTimestamps(1000, 2000)

	out := grid.FilterByDay(state, nil)
	out.Rows[0].Name = "mutated"
	out.Rows[0].Records[0].Level = 99

	assert.Equal(t, "Surco 1", state.Rows[0].Name)
	assert.Equal(t, 0, state.Rows[0].Records[0].Level)
}
