package grid_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortegar/agroscout/internal/grid"
	"github.com/jortegar/agroscout/internal/model"
)

func exportState() model.GridState {
	ts1 := time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local).UnixMilli()
	ts2 := time.Date(2026, 3, 15, 10, 5, 0, 0, time.Local).UnixMilli()
	return model.GridState{Rows: []model.Row{
		{ID: 1, Name: "Surco 1", Records: []model.IncidenceRecord{
			{ID: "a", RowID: 1, Position: 3, Level: 7, Notes: `He said "ok"`, Timestamp: ts1, Subsection: 3},
			{ID: "b", RowID: 1, Position: 9, Level: 0, Timestamp: ts2, Subsection: 9},
		}},
		{ID: 2, Name: "Surco 2", Records: []model.IncidenceRecord{
			{ID: "c", RowID: 2, Position: 1, Level: 10, Timestamp: ts2, Subsection: 1},
		}},
	}}
}

func TestWriteCSVGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, grid.WriteCSV(&buf, exportState()))

	want := "Surco,Subsección,Nivel de Incidencia,Notas,Fecha\n" +
		"1,3,7,\"He said \"\"ok\"\"\",15/03/2026 09:30\n" +
		"1,9,0,,15/03/2026 10:05\n" +
		"2,1,10,,15/03/2026 10:05\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVRoundTripsQuotedNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, grid.WriteCSV(&buf, exportState()))

	lines, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Surco", "Subsección", "Nivel de Incidencia", "Notas", "Fecha"}, lines[0])
	assert.Equal(t, `He said "ok"`, lines[1][3])
	assert.Equal(t, "", lines[2][3])
	assert.Equal(t, "10", lines[3][2])
}

func TestWriteCSVEmptyGridHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	state := model.GridState{Rows: grid.InitializeRows(grid.DefaultRows)}
	require.NoError(t, grid.WriteCSV(&buf, state))

	assert.Equal(t, "Surco,Subsección,Nivel de Incidencia,Notas,Fecha\n", buf.String())
}

func TestBuildWorkbookMirrorsCSVColumns(t *testing.T) {
	f, err := grid.BuildWorkbook(exportState())
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Incidencias", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Surco", get("A1"))
	assert.Equal(t, "Fecha", get("E1"))
	assert.Equal(t, "1", get("A2"))
	assert.Equal(t, "7", get("C2"))
	assert.Equal(t, `He said "ok"`, get("D2"))
	assert.Equal(t, "15/03/2026 09:30", get("E2"))
	assert.Equal(t, "9", get("B3"))
	assert.Equal(t, "0", get("C3"))
	assert.Equal(t, "2", get("A4"))
	assert.Equal(t, "10", get("C4"))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "incidencias_completo.csv", grid.ExportFilename(nil, "csv"))

	day := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)
	assert.Equal(t, "incidencias_2026-03-15.csv", grid.ExportFilename(&day, "csv"))
	assert.Equal(t, "incidencias_2026-03-15.xlsx", grid.ExportFilename(&day, "xlsx"))
}
