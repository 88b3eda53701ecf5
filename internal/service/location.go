// Package service contains the business logic for the travel journal.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No storage details live here; services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ErikKalkoken/go-set"
	"github.com/google/uuid"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/repo"
)

// dateLayout is the calendar date format used for arrival and departure.
const dateLayout = "2006-01-02"

// LocationService implements business logic for the append-only location store.
type LocationService struct {
	repo  repo.LocationRepo
	newID func() string
}

// NewLocationService constructs a LocationService backed by the provided LocationRepo.
// Appended locations get ids of the form "loc-<uuidv7>", which sort by creation time.
func NewLocationService(r repo.LocationRepo) *LocationService {
	return &LocationService{repo: r, newID: newLocationID}
}

func newLocationID() string {
	return "loc-" + uuid.Must(uuid.NewV7()).String()
}

// All returns every location in store order: seed entries first, then appended
// entries in the order they were added. Always returns a non-nil slice.
func (s *LocationService) All(ctx context.Context) ([]domain.Location, error) {
	locs, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.All: %w", err)
	}
	if locs == nil {
		return []domain.Location{}, nil
	}
	return locs, nil
}

// GetByID returns a single location.
// Returns domain.ErrNotFound if no location with that id exists.
func (s *LocationService) GetByID(ctx context.Context, id string) (domain.Location, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.GetByID: %w", err)
	}
	return loc, nil
}

// ListPaged returns one page of locations in store order and the total count.
func (s *LocationService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
	locs, total, err := s.repo.Page(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LocationService.ListPaged: %w", err)
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	return locs, total, nil
}

// Append validates draft, assigns a fresh id and stores the new location at
// the end of the collection.
// Returns domain.ErrValidation if the draft violates business rules; the
// store is left untouched in that case.
func (s *LocationService) Append(ctx context.Context, draft domain.LocationDraft) (domain.Location, error) {
	loc, err := NewLocation(s.newID(), draft)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Append: %w", err)
	}
	if err := s.repo.Append(ctx, loc); err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Append: %w", err)
	}
	return loc, nil
}

// Stats counts visited and wish-list locations and the distinct countries
// among the visited ones.
func (s *LocationService) Stats(ctx context.Context) (domain.Stats, error) {
	locs, err := s.repo.All(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.LocationService.Stats: %w", err)
	}

	var st domain.Stats
	countries := set.Of[string]()
	for _, loc := range locs {
		if loc.Kind() == domain.KindVisited {
			st.Visited++
			countries.Add(loc.Country)
		} else {
			st.Wishlist++
		}
	}
	st.Countries = countries.Size()
	return st, nil
}

// NewLocation builds a Location with the given id from a draft, applying the
// same rules as Append:
//   - City and Country must be non-empty (whitespace-only is rejected).
//   - Latitude and Longitude must parse as finite numbers within range.
//   - Kind must be visited, wishlist (or bucket-list); empty means wishlist.
//   - For visited drafts, Arrival and Departure are given together or not at
//     all, parse as YYYY-MM-DD, and Arrival is not after Departure.
//   - For visited drafts, Rating is within 1..5 when present.
//
// Wish-list drafts drop any dates or rating. Absent facts and images become
// empty slices.
func NewLocation(id string, d domain.LocationDraft) (domain.Location, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Location{}, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	city := strings.TrimSpace(d.City)
	if city == "" {
		return domain.Location{}, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}
	country := strings.TrimSpace(d.Country)
	if country == "" {
		return domain.Location{}, fmt.Errorf("%w: country is required", domain.ErrValidation)
	}
	kind, ok := domain.ParseKind(strings.TrimSpace(d.Kind))
	if !ok {
		return domain.Location{}, fmt.Errorf("%w: unknown type %q", domain.ErrValidation, d.Kind)
	}

	lat, err := parseCoordinate("latitude", d.Latitude, 90)
	if err != nil {
		return domain.Location{}, err
	}
	lng, err := parseCoordinate("longitude", d.Longitude, 180)
	if err != nil {
		return domain.Location{}, err
	}

	loc := domain.Location{
		ID:          id,
		City:        city,
		Country:     country,
		Coordinates: domain.Coordinates{Latitude: lat, Longitude: lng},
		QuickFacts:  cleanFacts(d.QuickFacts),
		Images:      []domain.Image{},
		Notes:       d.Notes,
	}

	for _, img := range d.Images {
		if strings.TrimSpace(img.URL) == "" {
			return domain.Location{}, fmt.Errorf("%w: image url is required", domain.ErrValidation)
		}
		loc.Images = append(loc.Images, img)
	}

	if kind == domain.KindVisited {
		visit, err := parseVisit(d)
		if err != nil {
			return domain.Location{}, err
		}
		loc.Visit = visit
	}
	return loc, nil
}

// parseCoordinate parses a latitude or longitude typed into the form.
func parseCoordinate(name, raw string, limit float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, name)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%w: %s must be between %g and %g", domain.ErrValidation, name, -limit, limit)
	}
	return v, nil
}

func parseVisit(d domain.LocationDraft) (*domain.Visit, error) {
	v := &domain.Visit{}

	arrival, departure := strings.TrimSpace(d.Arrival), strings.TrimSpace(d.Departure)
	switch {
	case arrival == "" && departure == "":
	case arrival == "" || departure == "":
		return nil, fmt.Errorf("%w: arrival and departure must be given together", domain.ErrValidation)
	default:
		a, err := time.Parse(dateLayout, arrival)
		if err != nil {
			return nil, fmt.Errorf("%w: arrival must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		dep, err := time.Parse(dateLayout, departure)
		if err != nil {
			return nil, fmt.Errorf("%w: departure must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		if a.After(dep) {
			return nil, fmt.Errorf("%w: arrival must not be after departure", domain.ErrValidation)
		}
		v.Dates = &domain.Dates{Arrival: a, Departure: dep}
	}

	if d.Rating != nil {
		if *d.Rating < 1 || *d.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
		}
		r := *d.Rating
		v.Rating = &r
	}
	return v, nil
}

// cleanFacts trims each fact and drops blank ones. Never returns nil.
func cleanFacts(facts []string) []string {
	out := make([]string, 0, len(facts))
	for _, f := range facts {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
