package inventory

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSV exports for the inventory collections.  Same rules as the grid
// export: fixed header first, items in store order, standard quoting.

// WriteLocationsCSV serializes the location list.
func (s *Service) WriteLocationsCSV(ctx context.Context, w io.Writer) error {
	items, err := s.Locations.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Name, it.Area})
	}
	return writeCSV(w, []string{"Nombre", "Área"}, rows)
}

// WriteActivitiesCSV serializes the activity list.
func (s *Service) WriteActivitiesCSV(ctx context.Context, w io.Writer) error {
	items, err := s.Activities.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Name, formatDate(it.Date), it.Notes})
	}
	return writeCSV(w, []string{"Nombre", "Fecha", "Notas"}, rows)
}

// WriteSuppliesCSV serializes the supply list with location names resolved.
func (s *Service) WriteSuppliesCSV(ctx context.Context, w io.Writer) error {
	items, err := s.Supplies.List(ctx)
	if err != nil {
		return err
	}
	names, err := s.locationNames(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Name, strconv.Itoa(it.Quantity), it.Unit, names[it.LocationID]})
	}
	return writeCSV(w, []string{"Nombre", "Cantidad", "Unidad", "Ubicación"}, rows)
}

// WriteToolsCSV serializes the tool list with location names resolved.
func (s *Service) WriteToolsCSV(ctx context.Context, w io.Writer) error {
	items, err := s.Tools.List(ctx)
	if err != nil {
		return err
	}
	names, err := s.locationNames(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Name, it.Serial, names[it.LocationID]})
	}
	return writeCSV(w, []string{"Nombre", "Serie", "Ubicación"}, rows)
}

// WriteUsersCSV serializes the user list.  Password hashes are never
// exported.
func (s *Service) WriteUsersCSV(ctx context.Context, w io.Writer) error {
	items, err := s.Users.List(ctx)
	if err != nil {
		return err
	}
	names, err := s.locationNames(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Name, it.Email, it.Role, names[it.LocationID]})
	}
	return writeCSV(w, []string{"Nombre", "Correo", "Rol", "Ubicación"}, rows)
}

func (s *Service) locationNames(ctx context.Context) (map[string]string, error) {
	locs, err := s.Locations.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(locs))
	for _, l := range locs {
		names[l.ID] = l.Name
	}
	return names, nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Format("02/01/2006")
}
