package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jortegar/agroscout/internal/model"
)

// The export flattens a (possibly filtered) snapshot into one line per
// record.  Serializers work purely on the state they are handed and never
// touch the store, so they can be exercised with synthetic data.

// exportHeader is the fixed column set, in order.
var exportHeader = []string{"Surco", "Subsección", "Nivel de Incidencia", "Notas", "Fecha"}

// sheetName is the worksheet used by the spreadsheet flavor of the export.
const sheetName = "Incidencias"

// WriteCSV serializes the grid as UTF-8 CSV: the fixed header first, then
// records in row order and natural in-row order (callers wanting position
// order sort before exporting).  Notes follow standard CSV quoting; absent
// notes serialize as an empty field.
func WriteCSV(w io.Writer, state model.GridState) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range state.Rows {
		for _, rec := range row.Records {
			if err := cw.Write(exportLine(rec)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildWorkbook serializes the grid as an XLSX workbook with the same
// columns as the CSV export.
func BuildWorkbook(state model.GridState) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	n := 2
	for _, row := range state.Rows {
		for _, rec := range row.Records {
			cell, err := excelize.CoordinatesToCellName(1, n)
			if err != nil {
				return nil, err
			}
			line := []interface{}{rec.RowID, rec.Subsection, rec.Level, rec.Notes, formatExportDate(rec.Timestamp)}
			if err := f.SetSheetRow(sheetName, cell, &line); err != nil {
				return nil, err
			}
			n++
		}
	}
	return f, nil
}

// ExportFilename names the download: the filtered day as an ISO date, or the
// literal "completo" for an unfiltered export.
func ExportFilename(day *time.Time, ext string) string {
	if day == nil {
		return "incidencias_completo." + ext
	}
	return fmt.Sprintf("incidencias_%s.%s", day.Format("2006-01-02"), ext)
}

func exportLine(rec model.IncidenceRecord) []string {
	return []string{
		strconv.Itoa(rec.RowID),
		strconv.Itoa(rec.Subsection),
		strconv.Itoa(rec.Level),
		rec.Notes,
		formatExportDate(rec.Timestamp),
	}
}

// formatExportDate renders the capture time as "dd/mm/yyyy HH:MM" in local
// time, matching the Spanish-locale headers.
func formatExportDate(ms int64) string {
	return time.UnixMilli(ms).Format("02/01/2006 15:04")
}
