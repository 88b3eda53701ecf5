package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/travel-journal/internal/domain"
)

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateToResponse(s.session.State()))
}

// SelectRequest is the body of PUT /selection.
type SelectRequest struct {
	ID string `json:"id"`
}

// PutSelection handles PUT /selection: a click on a marker.
func (s *Server) PutSelection(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	if strings.TrimSpace(body.ID) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("id is required"))
		return
	}

	st, err := s.session.Select(r.Context(), body.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("location not found"))
			return
		}
		s.writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(st))
}

// DeleteSelection handles DELETE /selection: closing the detail panel.
func (s *Server) DeleteSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateToResponse(s.session.ClosePanel()))
}

// PostActivity handles POST /activity: pointer movement over the globe.
func (s *Server) PostActivity(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateToResponse(s.session.Activity()))
}

// PostRotationPause handles POST /rotation/pause: a drag on the globe.
func (s *Server) PostRotationPause(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateToResponse(s.session.PauseRotation()))
}

// FormRequest is the body of PUT /form.
type FormRequest struct {
	Open *bool `json:"open"`
}

// PutForm handles PUT /form, opening or closing the entry form.
func (s *Server) PutForm(w http.ResponseWriter, r *http.Request) {
	var body FormRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	if body.Open == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("open is required"))
		return
	}

	if *body.Open {
		writeJSON(w, http.StatusOK, stateToResponse(s.session.OpenForm()))
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(s.session.CloseForm()))
}

// LookupRequest is the body of POST /form/lookup.
type LookupRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// LookupResponse is the body returned by POST /form/lookup.
// A lookup that found nothing is not an HTTP error: Found is false and
// Message tells the user to enter coordinates by hand.
type LookupResponse struct {
	Seq         uint64       `json:"seq"`
	Found       bool         `json:"found"`
	Stale       bool         `json:"stale"`
	Coordinates *Coordinates `json:"coordinates"`
	Message     string       `json:"message"`
}

// PostFormLookup handles POST /form/lookup.
func (s *Server) PostFormLookup(w http.ResponseWriter, r *http.Request) {
	var body LookupRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	res, err := s.session.Lookup(r.Context(), body.City, body.Country)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.writeInternalError(w, r, err)
		return
	}

	out := LookupResponse{Seq: res.Seq, Found: res.Found, Stale: res.Stale}
	switch {
	case res.Found:
		c := coordinatesToResponse(*res.Coordinates)
		out.Coordinates = &c
		out.Message = "Coordinates found."
	default:
		out.Message = "Location not found. Please enter coordinates manually."
	}
	if res.Stale {
		out.Message = "A newer lookup superseded this one."
	}
	writeJSON(w, http.StatusOK, out)
}

// SoundRequest is the body of PUT /sound.
type SoundRequest struct {
	Enabled *bool `json:"enabled"`
}

// PutSound handles PUT /sound.
func (s *Server) PutSound(w http.ResponseWriter, r *http.Request) {
	var body SoundRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	if body.Enabled == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("enabled is required"))
		return
	}
	writeJSON(w, http.StatusOK, stateToResponse(s.session.SetSound(*body.Enabled)))
}

// GetCues handles GET /cues. Each cue is returned once.
func (s *Server) GetCues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cues": s.cues.Drain()})
}
