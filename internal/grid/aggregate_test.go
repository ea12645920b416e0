package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortegar/agroscout/internal/grid"
	"github.com/jortegar/agroscout/internal/model"
)

func rowWith(id int, recs ...model.IncidenceRecord) model.Row {
	return model.Row{ID: id, Name: "Surco", Records: recs}
}

func rec(rowID, pos, level int) model.IncidenceRecord {
	g := grid.DefaultGeometry()
	return model.IncidenceRecord{
		ID:         "r",
		RowID:      rowID,
		Position:   pos,
		Level:      level,
		Subsection: g.SubsectionFor(pos),
	}
}

func TestHeatmapPlacesLevels(t *testing.T) {
	rows := grid.InitializeRows(grid.DefaultRows)
	rows[4].Records = append(rows[4].Records, rec(5, 4, 6))

	m := grid.Heatmap(rows, grid.DefaultPositions)
	require.Len(t, m, grid.DefaultRows)
	require.Len(t, m[4], grid.DefaultPositions)

	require.NotNil(t, m[4][3])
	assert.Equal(t, 6, *m[4][3])
	for i, cells := range m {
		for j, cell := range cells {
			if i == 4 && j == 3 {
				continue
			}
			assert.Nil(t, cell)
		}
	}
}

func TestHeatmapCollisionLastRecordWins(t *testing.T) {
	// The lifecycle keeps positions unique; if a collision slips into a
	// snapshot anyway, the last record in iteration order takes the cell.
	rows := []model.Row{rowWith(1,
		model.IncidenceRecord{ID: "first", Position: 6, Level: 3},
		model.IncidenceRecord{ID: "second", Position: 6, Level: 8},
	)}

	m := grid.Heatmap(rows, 10)
	require.NotNil(t, m[0][5])
	assert.Equal(t, 8, *m[0][5])
}

func TestHeatmapSkipsOutOfRangePositions(t *testing.T) {
	rows := []model.Row{rowWith(1,
		model.IncidenceRecord{Position: 0, Level: 9},
		model.IncidenceRecord{Position: 11, Level: 9},
		model.IncidenceRecord{Position: 10, Level: 2},
	)}

	m := grid.Heatmap(rows, 10)
	require.NotNil(t, m[0][9])
	assert.Equal(t, 2, *m[0][9])
	for j := 0; j < 9; j++ {
		assert.Nil(t, m[0][j])
	}
}

func TestSubsectionSummariesDefaultGeometry(t *testing.T) {
	// One subsection per position: the mean degenerates to the record level.
	row := rowWith(1, rec(1, 3, 7))

	out := grid.SubsectionSummaries(row, grid.DefaultGeometry())
	require.Len(t, out, grid.DefaultSubsections)

	require.NotNil(t, out[2].Level)
	assert.Equal(t, 7.0, *out[2].Level)
	assert.Equal(t, 3, out[2].Subsection)
	for i, s := range out {
		assert.Equal(t, 1, s.RowID)
		if i != 2 {
			assert.Nil(t, s.Level)
		}
	}
}

func TestSubsectionSummariesRangeBucketing(t *testing.T) {
	// 100 positions over 10 subsections: each bucket covers 10 positions.
	g := grid.Geometry{Rows: 1, Positions: 100, Subsections: 10}
	require.NoError(t, g.Validate())
	assert.Equal(t, 10, g.SubsectionWidth())
	assert.Equal(t, 1, g.SubsectionFor(1))
	assert.Equal(t, 1, g.SubsectionFor(10))
	assert.Equal(t, 2, g.SubsectionFor(11))
	assert.Equal(t, 10, g.SubsectionFor(100))

	row := rowWith(1,
		model.IncidenceRecord{Position: 11, Level: 4},
		model.IncidenceRecord{Position: 20, Level: 7},
	)
	out := grid.SubsectionSummaries(row, g)
	require.Len(t, out, 10)
	require.NotNil(t, out[1].Level)
	assert.Equal(t, 5.5, *out[1].Level)
	assert.Nil(t, out[0].Level)
}

func TestHeatmapAgreesWithSubsectionSummaries(t *testing.T) {
	// On the default geometry subsections map 1:1 onto positions, so both
	// views must report the same level, cell by cell, over one shared state.
	g := grid.DefaultGeometry()
	rows := grid.InitializeRows(g.Rows)
	rows[0].Records = append(rows[0].Records, rec(1, 2, 3), rec(1, 7, 9))
	rows[4].Records = append(rows[4].Records, rec(5, 4, 6))
	rows[11].Records = append(rows[11].Records, rec(12, 1, 0), rec(12, 10, 10))

	m := grid.Heatmap(rows, g.Positions)
	for i, row := range rows {
		summaries := grid.SubsectionSummaries(row, g)
		require.Len(t, summaries, g.Positions)
		for j := 0; j < g.Positions; j++ {
			cell := m[i][j]
			level := summaries[j].Level
			if cell == nil {
				assert.Nil(t, level, "row %d position %d", row.ID, j+1)
				continue
			}
			require.NotNil(t, level, "row %d position %d", row.ID, j+1)
			assert.Equal(t, float64(*cell), *level, "row %d position %d", row.ID, j+1)
		}
	}
}

func TestSubsectionMeanRoundsToOneDecimal(t *testing.T) {
	g := grid.Geometry{Rows: 1, Positions: 9, Subsections: 3}
	row := rowWith(1,
		model.IncidenceRecord{Position: 1, Level: 1},
		model.IncidenceRecord{Position: 2, Level: 2},
		model.IncidenceRecord{Position: 3, Level: 2},
	)

	out := grid.SubsectionSummaries(row, g)
	require.NotNil(t, out[0].Level)
	assert.Equal(t, 1.7, *out[0].Level) // 5/3 rounded
}

func TestStatisticsEmptyGridIsAllZero(t *testing.T) {
	rows := grid.InitializeRows(grid.DefaultRows)

	stats := grid.Statistics(rows, grid.DefaultPositions)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.Max)
	assert.Zero(t, stats.CoveragePercent)
}

func TestStatisticsSingleRecord(t *testing.T) {
	rows := grid.InitializeRows(grid.DefaultRows)
	rows[4].Records = append(rows[4].Records, rec(5, 4, 6))

	stats := grid.Statistics(rows, grid.DefaultPositions)
	assert.Equal(t, 6.0, stats.Mean)
	assert.Equal(t, 6, stats.Max)
	// 1 observed slot out of 20×10.
	assert.InDelta(t, 0.5, stats.CoveragePercent, 1e-9)
}

func TestStatisticsAggregatesAcrossRows(t *testing.T) {
	rows := grid.InitializeRows(2)
	rows[0].Records = append(rows[0].Records, rec(1, 1, 2), rec(1, 2, 4))
	rows[1].Records = append(rows[1].Records, rec(2, 1, 9))

	stats := grid.Statistics(rows, 10)
	assert.Equal(t, 5.0, stats.Mean)
	assert.Equal(t, 9, stats.Max)
	assert.InDelta(t, 15.0, stats.CoveragePercent, 1e-9) // 3 of 20 slots
}
