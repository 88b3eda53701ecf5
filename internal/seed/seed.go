// Package seed loads the initial set of travel journal locations.
//
// The default set is embedded from travel.yaml. An alternative file of the
// same shape can be loaded with LoadFile.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/service"
)

//go:embed travel.yaml
var travelYAML []byte

type record struct {
	ID          string   `yaml:"id"`
	City        string   `yaml:"city"`
	Country     string   `yaml:"country"`
	Type        string   `yaml:"type"`
	Coordinates *coords  `yaml:"coordinates"`
	Dates       *dates   `yaml:"dates"`
	QuickFacts  []string `yaml:"quickFacts"`
	Images      []image  `yaml:"images"`
	Notes       string   `yaml:"notes"`
	Rating      *int     `yaml:"rating"`
}

type coords struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type dates struct {
	Arrival   string `yaml:"arrival"`
	Departure string `yaml:"departure"`
}

type image struct {
	URL     string `yaml:"url"`
	Caption string `yaml:"caption"`
}

// Default returns the embedded seed set.
func Default() ([]domain.Location, error) {
	locs, err := Parse(travelYAML)
	if err != nil {
		return nil, fmt.Errorf("seed.Default: %w", err)
	}
	return locs, nil
}

// LoadFile reads and parses a seed file from disk.
func LoadFile(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed.LoadFile: %w", err)
	}
	locs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed.LoadFile %s: %w", path, err)
	}
	return locs, nil
}

// Parse decodes a YAML list of locations. Unknown keys are rejected, ids must
// be present and unique, and every entry must pass the same validation as a
// location appended through the entry form.
func Parse(data []byte) ([]domain.Location, error) {
	var records []record
	if err := yaml.UnmarshalWithOptions(data, &records, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	locs := make([]domain.Location, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("seed.Parse: entry %d: %w: id is required", i, domain.ErrValidation)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("seed.Parse: entry %d: %w: duplicate id %q", i, domain.ErrValidation, r.ID)
		}
		seen[r.ID] = struct{}{}

		loc, err := service.NewLocation(r.ID, r.draft())
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: %s: %w", r.ID, err)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func (r record) draft() domain.LocationDraft {
	d := domain.LocationDraft{
		City:       r.City,
		Country:    r.Country,
		Kind:       r.Type,
		Rating:     r.Rating,
		QuickFacts: r.QuickFacts,
		Notes:      r.Notes,
	}
	if r.Coordinates != nil {
		d.Latitude = strconv.FormatFloat(r.Coordinates.Lat, 'f', -1, 64)
		d.Longitude = strconv.FormatFloat(r.Coordinates.Lng, 'f', -1, 64)
	}
	if r.Dates != nil {
		d.Arrival = r.Dates.Arrival
		d.Departure = r.Dates.Departure
	}
	for _, img := range r.Images {
		d.Images = append(d.Images, domain.Image{URL: img.URL, Caption: img.Caption})
	}
	return d
}
