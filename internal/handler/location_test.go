package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/handler"
	"github.com/pkordes/travel-journal/internal/repo"
	"github.com/pkordes/travel-journal/internal/service"
	"github.com/pkordes/travel-journal/internal/session"
)

func TestListLocations_returnsPageWithPagination(t *testing.T) {
	var got domain.PaginationParams
	locs := &mockLocations{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
			got = p
			return []domain.Location{tokyo, reykjavik}, 12, nil
		},
	}
	h := newTestServer(locs, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/locations?page=2&limit=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 2}, got)

	var body handler.LocationList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 2, Total: 12}, body.Pagination)

	first := body.Data[0]
	assert.Equal(t, "Tokyo", first.City)
	assert.Equal(t, domain.KindVisited, first.Type)
	require.NotNil(t, first.Dates)
	assert.Equal(t, "2023-03-15", first.Dates.Arrival.Format("2006-01-02"))
	require.NotNil(t, first.StayDays)
	assert.Equal(t, 13, *first.StayDays)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 5, *first.Rating)

	second := body.Data[1]
	assert.Equal(t, domain.KindWishlist, second.Type)
	assert.Nil(t, second.Dates)
	assert.Nil(t, second.Rating)
	assert.Empty(t, second.QuickFacts)
}

func TestListLocations_defaultsAndCap(t *testing.T) {
	var got domain.PaginationParams
	locs := &mockLocations{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
			got = p
			return nil, 0, nil
		},
	}
	h := newTestServer(locs, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/locations?limit=500", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 100}, got)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":100,"total":0}}`, rec.Body.String())
}

func TestListLocations_badPageReturns422(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/locations?page=abc", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "page must be an integer", body.Error.Message)
}

func TestListLocations_storeErrorReturns500(t *testing.T) {
	locs := &mockLocations{
		listPaged: func(context.Context, domain.PaginationParams) ([]domain.Location, int64, error) {
			return nil, 0, errors.New("boom")
		},
	}
	h := newTestServer(locs, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/locations", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestGetLocation_found(t *testing.T) {
	locs := &mockLocations{
		getByID: func(_ context.Context, id string) (domain.Location, error) {
			require.Equal(t, "7", id)
			return reykjavik, nil
		},
	}
	h := newTestServer(locs, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/locations/7", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.Location
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Reykjavik", body.City)
	assert.InDelta(t, 64.1466, body.Coordinates.Latitude, 1e-9)
}

func TestGetLocation_unknownReturns404(t *testing.T) {
	locs := &mockLocations{
		getByID: func(context.Context, string) (domain.Location, error) {
			return domain.Location{}, fmt.Errorf("repo: %w", domain.ErrNotFound)
		},
	}
	h := newTestServer(locs, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/locations/missing", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"location not found"}}`, rec.Body.String())
}

func TestCreateLocation_submitsDraftAndReturns201(t *testing.T) {
	var got domain.LocationDraft
	sess := &mockSession{
		st: session.Initial(),
		submit: func(_ context.Context, d domain.LocationDraft) (domain.Location, error) {
			got = d
			return domain.Location{
				ID:          "loc-abc",
				City:        d.City,
				Country:     d.Country,
				Coordinates: domain.Coordinates{Latitude: 41.9028, Longitude: 12.4964},
				QuickFacts:  []string{},
				Images:      []domain.Image{},
			}, nil
		},
	}
	h := newTestServer(nil, nil, sess, nil)

	rec := do(t, h, http.MethodPost, "/locations",
		`{"city":"Rome","country":"Italy","type":"bucket-list","latitude":"41.9028","longitude":12.4964,"quickFacts":["Colosseum"]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/locations/loc-abc", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Submit"}, sess.calls)

	assert.Equal(t, "Rome", got.City)
	assert.Equal(t, "bucket-list", got.Kind)
	assert.Equal(t, "41.9028", got.Latitude)
	assert.Equal(t, "12.4964", got.Longitude)
	assert.Equal(t, []string{"Colosseum"}, got.QuickFacts)

	var body handler.Location
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "loc-abc", body.ID)
	assert.Equal(t, domain.KindWishlist, body.Type)
}

func TestCreateLocation_validationErrorReturns422(t *testing.T) {
	sess := &mockSession{
		st: session.Initial(),
		submit: func(context.Context, domain.LocationDraft) (domain.Location, error) {
			return domain.Location{}, fmt.Errorf("service.LocationService.Append: %w: latitude must be a number", domain.ErrValidation)
		},
	}
	h := newTestServer(nil, nil, sess, nil)

	rec := do(t, h, http.MethodPost, "/locations", `{"city":"Rome","country":"Italy","latitude":"north","longitude":"12"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"validation_error","message":"latitude must be a number"}}`, rec.Body.String())
}

func TestCreateLocation_malformedBodyReturns422(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "{"},
		{"unknown field", `{"town":"Rome"}`},
		{"two objects", `{"city":"a"}{"city":"b"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sess := &mockSession{st: session.Initial()}
			h := newTestServer(nil, nil, sess, nil)

			rec := do(t, h, http.MethodPost, "/locations", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Empty(t, sess.calls)
		})
	}
}

func TestGetStats(t *testing.T) {
	locs := &mockLocations{
		stats: func(context.Context) (domain.Stats, error) {
			return domain.Stats{Visited: 6, Wishlist: 6, Countries: 6}, nil
		},
	}
	h := newTestServer(locs, nil, nil, nil)

	rec := do(t, h, http.MethodGet, "/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"visited":6,"wishlist":6,"countries":6}`, rec.Body.String())
}

func TestListLocations_hugePageReturnsEmptyPage(t *testing.T) {
	store, err := repo.NewLocationRepo([]domain.Location{tokyo, reykjavik})
	require.NoError(t, err)
	h := handler.NewServer(service.NewLocationService(store), nil, &mockSession{st: session.Initial()}, &mockCues{}, nil).Routes()

	rec := do(t, h, http.MethodGet, "/locations?page=4611686018427387904", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.LocationList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Empty(t, body.Data)
	assert.Equal(t, 2, body.Pagination.Total)
	assert.Equal(t, 4611686018427387904, body.Pagination.Page)
}
