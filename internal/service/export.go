package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/repo"
)

// ExportService assembles a flat export of every stored location.
type ExportService struct {
	locations repo.LocationRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(locations repo.LocationRepo) *ExportService {
	return &ExportService{locations: locations}
}

// Export returns one ExportRow per location in store order.
// Wish-list entries and visits without dates or a rating leave those
// columns empty.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	locs, err := s.locations.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(locs))
	for _, loc := range locs {
		row := domain.ExportRow{
			ID:         loc.ID,
			City:       loc.City,
			Country:    loc.Country,
			Kind:       loc.Kind(),
			Latitude:   loc.Coordinates.Latitude,
			Longitude:  loc.Coordinates.Longitude,
			Notes:      loc.Notes,
			QuickFacts: loc.QuickFacts,
		}
		if d := loc.Dates(); d != nil {
			row.Arrival = d.Arrival.Format(dateLayout)
			row.Departure = d.Departure.Format(dateLayout)
		}
		if r := loc.Rating(); r != nil {
			row.Rating = strconv.Itoa(*r)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
