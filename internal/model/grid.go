package model

// Row represents one physical planting row in the scouted field.  Rows are
// created once when the grid is bootstrapped and keep their integer identity
// for the lifetime of the grid; only their record list changes afterwards.
//
// Fields:
//  ID      – integer identifier, 1..N, assigned at bootstrap.
//  Name    – display name shown in row selectors (e.g. "Surco 7").
//  Records – point observations captured in this row, in insertion order.
type Row struct {
	ID      int               `json:"id"`
	Name    string            `json:"name"`
	Records []IncidenceRecord `json:"records"`
}

// IncidenceRecord is a single scouting observation taken at one position of a
// row.  Position and owning row are fixed at creation; only Level and Notes
// may change afterwards.
//
// Fields:
//  ID         – unique string id generated at creation.
//  RowID      – id of the owning row.
//  Position   – within-row coordinate, 1-based.
//  Level      – incidence severity, 0 (none) to 10 (critical).
//  Notes      – optional free text; absent notes are omitted from JSON.
//  Timestamp  – creation time in epoch milliseconds.
//  Subsection – aggregation bucket the position falls into, stored so that
//               exports do not have to re-derive it.
type IncidenceRecord struct {
	ID         string `json:"id"`
	RowID      int    `json:"rowId"`
	Position   int    `json:"position"`
	Level      int    `json:"level"`
	Notes      string `json:"notes,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	Subsection int    `json:"subsection"`
}

// GridState is the authoritative snapshot persisted by the store: the full
// row set plus the time of the last accepted mutation.
type GridState struct {
	Rows        []Row `json:"rows"`
	LastUpdated int64 `json:"lastUpdated"`
}

// RecordCount returns the total number of records across all rows.
func (s GridState) RecordCount() int {
	n := 0
	for _, r := range s.Rows {
		n += len(r.Records)
	}
	return n
}
