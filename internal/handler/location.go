package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-journal/internal/domain"
)

// ListLocations handles GET /locations.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	page, err := optionalInt(r, "page")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("page must be an integer"))
		return
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("limit must be an integer"))
		return
	}

	params := domain.NewPaginationParams(page, limit)
	locs, total, err := s.locations.ListPaged(r.Context(), params)
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}

	data := make([]Location, len(locs))
	for i, l := range locs {
		data[i] = locationToResponse(l)
	}
	writeJSON(w, http.StatusOK, LocationList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetLocation handles GET /locations/{id}.
func (s *Server) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.locations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("location not found"))
			return
		}
		s.writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationToResponse(loc))
}

// CreateLocation handles POST /locations, the entry form's submit.
// On success the form closes and the success cue plays.
func (s *Server) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var body CreateLocationRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	created, err := s.session.Submit(r.Context(), requestToDraft(body))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.writeInternalError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.LocationsAppended.Inc()
	}
	w.Header().Set("Location", "/locations/"+created.ID)
	writeJSON(w, http.StatusCreated, locationToResponse(created))
}

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.locations.Stats(r.Context())
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Stats{Visited: st.Visited, Wishlist: st.Wishlist, Countries: st.Countries})
}

// optionalInt parses an integer query parameter. Absent means nil.
func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
