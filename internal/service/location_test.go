package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/repo"
	"github.com/pkordes/travel-journal/internal/seed"
	"github.com/pkordes/travel-journal/internal/service"
)

// mockLocationRepo is a hand-written test double for repo.LocationRepo.
// Each method is a function field; set only the ones your test needs.
type mockLocationRepo struct {
	all     func(ctx context.Context) ([]domain.Location, error)
	getByID func(ctx context.Context, id string) (domain.Location, error)
	page    func(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error)
	append  func(ctx context.Context, loc domain.Location) error
}

func (m *mockLocationRepo) All(ctx context.Context) ([]domain.Location, error) {
	return m.all(ctx)
}
func (m *mockLocationRepo) GetByID(ctx context.Context, id string) (domain.Location, error) {
	return m.getByID(ctx, id)
}
func (m *mockLocationRepo) Page(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
	return m.page(ctx, p)
}
func (m *mockLocationRepo) Append(ctx context.Context, loc domain.Location) error {
	return m.append(ctx, loc)
}

// compile-time check: mockLocationRepo must satisfy repo.LocationRepo.
var _ repo.LocationRepo = (*mockLocationRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func intPtr(n int) *int { return &n }

func validDraft() domain.LocationDraft {
	return domain.LocationDraft{
		City:       "Lisbon",
		Country:    "Portugal",
		Kind:       "visited",
		Latitude:   "38.7223",
		Longitude:  "-9.1393",
		Arrival:    "2024-05-01",
		Departure:  "2024-05-06",
		Rating:     intPtr(4),
		QuickFacts: []string{"Pastel de nata", "  ", "Tram 28"},
		Notes:      "Hills everywhere.",
	}
}

// capturingRepo records every appended location.
func capturingRepo(got *[]domain.Location) *mockLocationRepo {
	return &mockLocationRepo{
		append: func(_ context.Context, loc domain.Location) error {
			*got = append(*got, loc)
			return nil
		},
	}
}

// ---- Append tests ----------------------------------------------------------

func TestLocationService_Append_Valid(t *testing.T) {
	var stored []domain.Location
	svc := service.NewLocationService(capturingRepo(&stored))

	got, err := svc.Append(context.Background(), validDraft())

	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, got, stored[0])

	assert.True(t, strings.HasPrefix(got.ID, "loc-"), "id %q", got.ID)
	assert.Equal(t, "Lisbon", got.City)
	assert.Equal(t, domain.KindVisited, got.Kind())
	assert.InDelta(t, 38.7223, got.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, -9.1393, got.Coordinates.Longitude, 1e-9)
	assert.Equal(t, []string{"Pastel de nata", "Tram 28"}, got.QuickFacts)
	assert.NotNil(t, got.Images)
	require.NotNil(t, got.Dates())
	assert.Equal(t, 5, got.Dates().Days())
	require.NotNil(t, got.Rating())
	assert.Equal(t, 4, *got.Rating())
}

func TestLocationService_Append_UniqueIDs(t *testing.T) {
	var stored []domain.Location
	svc := service.NewLocationService(capturingRepo(&stored))

	a, err := svc.Append(context.Background(), validDraft())
	require.NoError(t, err)
	b, err := svc.Append(context.Background(), validDraft())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestLocationService_Append_ThreeAfterSeedInOrder(t *testing.T) {
	ctx := context.Background()
	seeded, err := seed.Default()
	require.NoError(t, err)
	store, err := repo.NewLocationRepo(seeded)
	require.NoError(t, err)
	svc := service.NewLocationService(store)

	cities := []string{"Lisbon", "Porto", "Faro"}
	var appended []domain.Location
	for _, city := range cities {
		d := validDraft()
		d.City = city
		loc, err := svc.Append(ctx, d)
		require.NoError(t, err)
		appended = append(appended, loc)
	}

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(seeded)+len(cities))

	for i, loc := range seeded {
		assert.Equal(t, loc.ID, all[i].ID, "seed position %d", i)
	}
	tail := all[len(seeded):]
	for i, city := range cities {
		assert.Equal(t, city, tail[i].City)
		assert.Equal(t, appended[i].ID, tail[i].ID)
	}

	ids := make(map[string]struct{}, len(all))
	for _, loc := range all {
		ids[loc.ID] = struct{}{}
	}
	assert.Len(t, ids, len(all), "ids must be unique")
}

func TestLocationService_Append_WishlistDropsVisitFields(t *testing.T) {
	var stored []domain.Location
	svc := service.NewLocationService(capturingRepo(&stored))

	d := validDraft()
	d.Kind = "bucket-list"

	got, err := svc.Append(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, domain.KindWishlist, got.Kind())
	assert.Nil(t, got.Dates())
	assert.Nil(t, got.Rating())
}

func TestLocationService_Append_EmptyKindDefaultsToWishlist(t *testing.T) {
	var stored []domain.Location
	svc := service.NewLocationService(capturingRepo(&stored))

	d := validDraft()
	d.Kind = ""

	got, err := svc.Append(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, domain.KindWishlist, got.Kind())
}

func TestLocationService_Append_VisitWithoutDatesOrRating(t *testing.T) {
	var stored []domain.Location
	svc := service.NewLocationService(capturingRepo(&stored))

	d := validDraft()
	d.Arrival, d.Departure, d.Rating = "", "", nil

	got, err := svc.Append(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, domain.KindVisited, got.Kind())
	assert.Nil(t, got.Dates())
	assert.Nil(t, got.Rating())
}

func TestLocationService_Append_SameDayStay(t *testing.T) {
	var stored []domain.Location
	svc := service.NewLocationService(capturingRepo(&stored))

	d := validDraft()
	d.Departure = d.Arrival

	got, err := svc.Append(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, 0, got.Dates().Days())
}

func TestLocationService_Append_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *domain.LocationDraft)
	}{
		{"blank city", func(d *domain.LocationDraft) { d.City = "   " }},
		{"blank country", func(d *domain.LocationDraft) { d.Country = "" }},
		{"unknown kind", func(d *domain.LocationDraft) { d.Kind = "someday" }},
		{"missing latitude", func(d *domain.LocationDraft) { d.Latitude = "" }},
		{"non-numeric longitude", func(d *domain.LocationDraft) { d.Longitude = "west-ish" }},
		{"latitude out of range", func(d *domain.LocationDraft) { d.Latitude = "91" }},
		{"longitude out of range", func(d *domain.LocationDraft) { d.Longitude = "-180.5" }},
		{"NaN latitude", func(d *domain.LocationDraft) { d.Latitude = "NaN" }},
		{"arrival without departure", func(d *domain.LocationDraft) { d.Departure = "" }},
		{"bad arrival date", func(d *domain.LocationDraft) { d.Arrival = "01/05/2024" }},
		{"arrival after departure", func(d *domain.LocationDraft) { d.Arrival = "2024-05-07" }},
		{"rating too low", func(d *domain.LocationDraft) { d.Rating = intPtr(0) }},
		{"rating too high", func(d *domain.LocationDraft) { d.Rating = intPtr(6) }},
		{"image without url", func(d *domain.LocationDraft) {
			d.Images = []domain.Image{{URL: " ", Caption: "nothing"}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stored []domain.Location
			svc := service.NewLocationService(capturingRepo(&stored))

			d := validDraft()
			tc.mutate(&d)

			_, err := svc.Append(context.Background(), d)

			assert.ErrorIs(t, err, domain.ErrValidation)
			// A rejected draft must never reach the store.
			assert.Empty(t, stored)
		})
	}
}

func TestLocationService_Append_RepoError(t *testing.T) {
	repoErr := errors.New("store exploded")
	r := &mockLocationRepo{
		append: func(_ context.Context, _ domain.Location) error { return repoErr },
	}
	svc := service.NewLocationService(r)

	_, err := svc.Append(context.Background(), validDraft())

	assert.ErrorIs(t, err, repoErr)
}

// ---- NewLocation tests -----------------------------------------------------

func TestNewLocation_KeepsID(t *testing.T) {
	loc, err := service.NewLocation("loc-001", validDraft())

	require.NoError(t, err)
	assert.Equal(t, "loc-001", loc.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), loc.Dates().Arrival)
}

func TestNewLocation_BlankID(t *testing.T) {
	_, err := service.NewLocation(" ", validDraft())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- read tests ------------------------------------------------------------

func TestLocationService_All_Empty(t *testing.T) {
	r := &mockLocationRepo{
		all: func(_ context.Context) ([]domain.Location, error) { return nil, nil },
	}
	svc := service.NewLocationService(r)

	got, err := svc.All(context.Background())

	require.NoError(t, err)
	// Should return an empty slice, not nil.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocationService_GetByID_NotFound(t *testing.T) {
	r := &mockLocationRepo{
		getByID: func(_ context.Context, _ string) (domain.Location, error) {
			return domain.Location{}, domain.ErrNotFound
		},
	}
	svc := service.NewLocationService(r)

	_, err := svc.GetByID(context.Background(), "loc-404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocationService_ListPaged_PassesParams(t *testing.T) {
	var gotParams domain.PaginationParams
	r := &mockLocationRepo{
		page: func(_ context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
			gotParams = p
			return nil, 42, nil
		},
	}
	svc := service.NewLocationService(r)

	locs, total, err := svc.ListPaged(context.Background(), domain.PaginationParams{Page: 3, Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 5}, gotParams)
	assert.Equal(t, int64(42), total)
	assert.NotNil(t, locs)
}

// ---- Stats tests -----------------------------------------------------------

func TestLocationService_Stats(t *testing.T) {
	visited := func(country string) domain.Location {
		return domain.Location{Country: country, Visit: &domain.Visit{}}
	}
	wish := func(country string) domain.Location {
		return domain.Location{Country: country}
	}
	r := &mockLocationRepo{
		all: func(_ context.Context) ([]domain.Location, error) {
			return []domain.Location{
				visited("Japan"), visited("Japan"), visited("France"),
				wish("Peru"), wish("Japan"),
			}, nil
		},
	}
	svc := service.NewLocationService(r)

	st, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Visited: 3, Wishlist: 2, Countries: 2}, st)
}

func TestLocationService_Stats_Empty(t *testing.T) {
	r := &mockLocationRepo{
		all: func(_ context.Context) ([]domain.Location, error) { return nil, nil },
	}
	svc := service.NewLocationService(r)

	st, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, st)
}
