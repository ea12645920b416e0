package grid

import (
	"time"

	"github.com/jortegar/agroscout/internal/model"
)

// FilterByDay projects the grid onto a single local calendar day: the result
// keeps only records whose timestamp falls within [start of day, end of day]
// inclusive.  A nil day is the identity filter and keeps every record.  The
// projection is a structural copy either way — rows and record slices are
// rebuilt, so callers can never mutate the authoritative state through a
// filtered result.
func FilterByDay(state model.GridState, day *time.Time) model.GridState {
	var startMs, endMs int64
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		startMs = start.UnixMilli()
		endMs = start.AddDate(0, 0, 1).UnixMilli() - 1
	}

	out := model.GridState{
		Rows:        make([]model.Row, len(state.Rows)),
		LastUpdated: state.LastUpdated,
	}
	for i, row := range state.Rows {
		cp := model.Row{ID: row.ID, Name: row.Name, Records: []model.IncidenceRecord{}}
		for _, rec := range row.Records {
			if day == nil || (rec.Timestamp >= startMs && rec.Timestamp <= endMs) {
				cp.Records = append(cp.Records, rec)
			}
		}
		out.Rows[i] = cp
	}
	return out
}
