package grid

import (
	"fmt"

	"github.com/jortegar/agroscout/internal/model"
)

// Limits shared by every grid regardless of geometry.
const (
	// MaxLevel is the highest incidence severity a record may carry.
	MaxLevel = 10
	// RowCapacity caps the number of records a single row may hold.  With
	// unique positions the cap is unreachable on the default geometry; it is
	// kept as a hard safety bound.
	RowCapacity = 100
)

// Default geometry: 20 rows of 10 positions, one subsection per position.
const (
	DefaultRows        = 20
	DefaultPositions   = 10
	DefaultSubsections = 10
)

// Geometry describes the canonical row/position space of one grid.  Rows and
// positions are fixed at bootstrap.  Subsections must divide Positions
// evenly; each subsection covers a contiguous range of positions, so a grid
// of 100 positions over 10 subsections buckets 10 positions apiece while the
// default geometry degenerates to one position per subsection.
type Geometry struct {
	Rows        int // number of rows, ids 1..Rows
	Positions   int // positions per row, 1-based
	Subsections int // aggregation buckets per row
}

// DefaultGeometry returns the standard 20×10 grid with width-1 subsections.
func DefaultGeometry() Geometry {
	return Geometry{Rows: DefaultRows, Positions: DefaultPositions, Subsections: DefaultSubsections}
}

// Validate checks the geometry is usable.  Called once at startup.
func (g Geometry) Validate() error {
	if g.Rows < 1 || g.Positions < 1 || g.Subsections < 1 {
		return fmt.Errorf("grid geometry must be positive: %+v", g)
	}
	if g.Positions%g.Subsections != 0 {
		return fmt.Errorf("subsections (%d) must divide positions (%d) evenly", g.Subsections, g.Positions)
	}
	return nil
}

// SubsectionWidth returns how many positions each subsection covers.
func (g Geometry) SubsectionWidth() int {
	return g.Positions / g.Subsections
}

// SubsectionFor maps a 1-based position to its 1-based subsection using
// range bucketing, never a hard-coded 1:1 identity.
func (g Geometry) SubsectionFor(position int) int {
	return (position-1)/g.SubsectionWidth() + 1
}

// InitializeRows produces count rows with sequential ids 1..count and empty
// record lists.  Deterministic; meant for first boot only.  Callers must not
// re-run it against a store that already holds records — that is a caller
// error, not a silently handled case.
func InitializeRows(count int) []model.Row {
	rows := make([]model.Row, count)
	for i := range rows {
		rows[i] = model.Row{
			ID:      i + 1,
			Name:    fmt.Sprintf("Surco %d", i+1),
			Records: []model.IncidenceRecord{},
		}
	}
	return rows
}

// FindRow returns the row with the given id or ErrRowNotFound.  The returned
// row is a snapshot copy; mutations go through the lifecycle operations.
func FindRow(rows []model.Row, rowID int) (model.Row, error) {
	if i := rowIndex(rows, rowID); i >= 0 {
		return rows[i], nil
	}
	return model.Row{}, ErrRowNotFound
}

// rowIndex returns the slice index of the row with the given id, or -1.
func rowIndex(rows []model.Row, rowID int) int {
	for i := range rows {
		if rows[i].ID == rowID {
			return i
		}
	}
	return -1
}
