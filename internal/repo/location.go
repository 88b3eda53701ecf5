// Package repo contains the storage layer for the travel journal.
// Each resource has its own file with an interface and an implementation.
// No business logic lives here, only storage and copying.
package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/travel-journal/internal/domain"
)

// ErrDuplicateID is returned by LocationRepo.Append when the id is already taken.
var ErrDuplicateID = errors.New("duplicate location id")

// LocationRepo defines the storage operations for Locations.
// The store is append-only: there is no update or delete.
// The service layer depends on this interface so it can be unit-tested with a mock.
type LocationRepo interface {
	// All returns every location in insertion order.
	All(ctx context.Context) ([]domain.Location, error)

	// GetByID returns the location with the given id.
	// Returns domain.ErrNotFound if no location with that id exists.
	GetByID(ctx context.Context, id string) (domain.Location, error)

	// Page returns the locations in [offset, offset+limit) in insertion order,
	// plus the total number of stored locations.
	Page(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error)

	// Append stores loc at the end of the collection.
	// Returns ErrDuplicateID if loc.ID is already present.
	Append(ctx context.Context, loc domain.Location) error
}

// memLocationRepo is the in-memory implementation of LocationRepo.
// Its lifetime is the process lifetime; a restart resets it to the seed set.
type memLocationRepo struct {
	mu    sync.RWMutex
	items []domain.Location
	index map[string]int
}

// NewLocationRepo constructs a LocationRepo pre-populated with seed, in order.
// Returns ErrDuplicateID if seed contains the same id twice.
func NewLocationRepo(seed []domain.Location) (LocationRepo, error) {
	r := &memLocationRepo{
		items: make([]domain.Location, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	for _, loc := range seed {
		if err := r.Append(context.Background(), loc); err != nil {
			return nil, fmt.Errorf("repo.NewLocationRepo: %w", err)
		}
	}
	return r, nil
}

func (r *memLocationRepo) All(_ context.Context) ([]domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Location, len(r.items))
	for i, loc := range r.items {
		out[i] = cloneLocation(loc)
	}
	return out, nil
}

func (r *memLocationRepo) GetByID(_ context.Context, id string) (domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneLocation(r.items[i]), nil
}

func (r *memLocationRepo) Page(_ context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.items))
	n := len(r.items)
	start := min(max(p.Offset(), 0), n)
	end := start + min(max(p.Limit, 0), n-start)

	out := make([]domain.Location, 0, end-start)
	for _, loc := range r.items[start:end] {
		out = append(out, cloneLocation(loc))
	}
	return out, total, nil
}

func (r *memLocationRepo) Append(_ context.Context, loc domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[loc.ID]; ok {
		return fmt.Errorf("repo.LocationRepo.Append: %w: %s", ErrDuplicateID, loc.ID)
	}
	r.index[loc.ID] = len(r.items)
	r.items = append(r.items, cloneLocation(loc))
	return nil
}

// cloneLocation deep-copies the slices and pointers of loc so callers can
// never mutate stored records through a returned value.
func cloneLocation(loc domain.Location) domain.Location {
	loc.QuickFacts = slices.Clone(loc.QuickFacts)
	loc.Images = slices.Clone(loc.Images)
	if loc.Visit != nil {
		v := *loc.Visit
		if v.Dates != nil {
			d := *v.Dates
			v.Dates = &d
		}
		if v.Rating != nil {
			n := *v.Rating
			v.Rating = &n
		}
		loc.Visit = &v
	}
	return loc
}
