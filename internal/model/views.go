package model

// SubsectionSummary reports the averaged incidence level of one aggregation
// bucket of a row.  Level is nil when no record falls inside the bucket; the
// value is rounded to one decimal for display, storage keeps raw levels.
type SubsectionSummary struct {
	RowID      int      `json:"rowId"`
	Subsection int      `json:"subsection"`
	Level      *float64 `json:"level"`
}

// GridStatistics aggregates the whole grid.  All fields are zero when the
// grid holds no records; callers never see NaN.
//
//  Mean            – arithmetic mean of all levels.
//  Max             – highest level present.
//  CoveragePercent – observed positions as a percentage of all possible
//                    (row, position) slots.
type GridStatistics struct {
	Mean            float64 `json:"mean"`
	Max             int     `json:"max"`
	CoveragePercent float64 `json:"coveragePercent"`
}

// SeverityBand labels a level range for badges, legends and summary tables.
type SeverityBand string

const (
	BandLow      SeverityBand = "low"      // 0–2
	BandMedium   SeverityBand = "medium"   // 3–5
	BandHigh     SeverityBand = "high"     // 6–8
	BandCritical SeverityBand = "critical" // 9–10
)

// Band maps a level to its severity band.  Every view derives colors and
// labels through this single function so thresholds cannot drift between
// the heatmap legend, record badges and subsection tables.
func Band(level int) SeverityBand {
	switch {
	case level <= 2:
		return BandLow
	case level <= 5:
		return BandMedium
	case level <= 8:
		return BandHigh
	default:
		return BandCritical
	}
}
