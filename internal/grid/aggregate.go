package grid

import (
	"math"

	"github.com/jortegar/agroscout/internal/model"
)

// Derived views.  Everything in this file is a pure function over a snapshot
// handed in by the caller; nothing here reads the store or mutates its
// input, so the views can never drift from the authoritative record set.

// Heatmap builds the level matrix for visualization: one slice per row in
// store order, indexed 0..positions-1 for positions 1..positions, nil where
// no record sits.  The lifecycle guarantees unique positions per row; should
// a collision slip in anyway, the last record in iteration order wins.
// Records with out-of-range positions are ignored.
func Heatmap(rows []model.Row, positions int) [][]*int {
	m := make([][]*int, len(rows))
	for i, row := range rows {
		cells := make([]*int, positions)
		for _, rec := range row.Records {
			if rec.Position < 1 || rec.Position > positions {
				continue
			}
			level := rec.Level
			cells[rec.Position-1] = &level
		}
		m[i] = cells
	}
	return m
}

// SubsectionSummaries aggregates one row into its subsection buckets.  Each
// bucket reports the arithmetic mean, rounded to one decimal for display, of
// the records whose position falls in the bucket's range, or nil when the
// range is empty.  Grouping is range-based on the geometry: on the default
// grid every bucket covers a single position and the mean degenerates to
// that record's level, but the same code serves wider buckets unchanged.
func SubsectionSummaries(row model.Row, g Geometry) []model.SubsectionSummary {
	width := g.SubsectionWidth()
	out := make([]model.SubsectionSummary, g.Subsections)
	for s := 1; s <= g.Subsections; s++ {
		lo := (s-1)*width + 1
		hi := s * width
		sum, n := 0, 0
		for _, rec := range row.Records {
			if rec.Position >= lo && rec.Position <= hi {
				sum += rec.Level
				n++
			}
		}
		summary := model.SubsectionSummary{RowID: row.ID, Subsection: s}
		if n > 0 {
			mean := round1(float64(sum) / float64(n))
			summary.Level = &mean
		}
		out[s-1] = summary
	}
	return out
}

// Statistics flattens all levels across the grid.  An empty grid yields the
// zero value for every field, never NaN: coverage counts observed positions
// against all possible (row, position) slots grid-wide.
func Statistics(rows []model.Row, positions int) model.GridStatistics {
	sum, count, max := 0, 0, 0
	for _, row := range rows {
		for _, rec := range row.Records {
			sum += rec.Level
			count++
			if rec.Level > max {
				max = rec.Level
			}
		}
	}
	stats := model.GridStatistics{Max: max}
	if count > 0 {
		stats.Mean = float64(sum) / float64(count)
	}
	if slots := len(rows) * positions; slots > 0 {
		stats.CoveragePercent = 100 * float64(count) / float64(slots)
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
