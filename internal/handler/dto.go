package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/session"
)

// Coordinates is the wire form of domain.Coordinates.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Image is the wire form of domain.Image.
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Dates is a visit's stay window.
type Dates struct {
	Arrival   openapi_types.Date `json:"arrival"`
	Departure openapi_types.Date `json:"departure"`
}

// Location is the wire form of domain.Location.
type Location struct {
	ID          string      `json:"id"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Type        domain.Kind `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
	Dates       *Dates      `json:"dates"`
	// StayDays is the stay length rounded up to whole days, when dates are known.
	StayDays   *int     `json:"stayDays,omitempty"`
	QuickFacts []string `json:"quickFacts"`
	Images     []Image  `json:"images"`
	Notes      string   `json:"notes"`
	Rating     *int     `json:"rating"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// LocationList is the body of GET /locations.
type LocationList struct {
	Data       []Location `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Stats is the body of GET /stats.
type Stats struct {
	Visited   int `json:"visited"`
	Wishlist  int `json:"wishlist"`
	Countries int `json:"countries"`
}

// numberText accepts a JSON number or a string and keeps its text, so the
// entry form may send coordinates exactly as typed.
type numberText string

func (n *numberText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numberText(num.String())
	return nil
}

// CreateLocationRequest is the body of POST /locations, as filled in by the
// entry form.
type CreateLocationRequest struct {
	City       string     `json:"city"`
	Country    string     `json:"country"`
	Type       string     `json:"type"`
	Latitude   numberText `json:"latitude"`
	Longitude  numberText `json:"longitude"`
	Arrival    string     `json:"arrival"`
	Departure  string     `json:"departure"`
	Rating     *int       `json:"rating"`
	QuickFacts []string   `json:"quickFacts"`
	Images     []Image    `json:"images"`
	Notes      string     `json:"notes"`
}

// LookupState is the wire form of session.Lookup.
type LookupState struct {
	Seq         uint64               `json:"seq"`
	Status      session.LookupStatus `json:"status"`
	Query       string               `json:"query,omitempty"`
	Coordinates *Coordinates         `json:"coordinates"`
}

// State is the wire form of session.State.
type State struct {
	FocusedID    *string     `json:"focusedId"`
	AutoRotate   bool        `json:"autoRotate"`
	FormOpen     bool        `json:"formOpen"`
	SoundEnabled bool        `json:"soundEnabled"`
	Lookup       LookupState `json:"lookup"`
}

// --- mapping helpers --------------------------------------------------------

func coordinatesToResponse(c domain.Coordinates) Coordinates {
	return Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

// locationToResponse converts a domain.Location into the wire type.
// Slices are never nil so clients always receive arrays.
func locationToResponse(l domain.Location) Location {
	out := Location{
		ID:          l.ID,
		City:        l.City,
		Country:     l.Country,
		Type:        l.Kind(),
		Coordinates: coordinatesToResponse(l.Coordinates),
		QuickFacts:  l.QuickFacts,
		Images:      make([]Image, 0, len(l.Images)),
		Notes:       l.Notes,
		Rating:      l.Rating(),
	}
	if out.QuickFacts == nil {
		out.QuickFacts = []string{}
	}
	for _, img := range l.Images {
		out.Images = append(out.Images, Image{URL: img.URL, Caption: img.Caption})
	}
	if d := l.Dates(); d != nil {
		out.Dates = &Dates{
			Arrival:   openapi_types.Date{Time: d.Arrival},
			Departure: openapi_types.Date{Time: d.Departure},
		}
		days := d.Days()
		out.StayDays = &days
	}
	return out
}

// requestToDraft converts a CreateLocationRequest into a domain.LocationDraft.
// Validation is left to the service.
func requestToDraft(body CreateLocationRequest) domain.LocationDraft {
	d := domain.LocationDraft{
		City:       body.City,
		Country:    body.Country,
		Kind:       body.Type,
		Latitude:   string(body.Latitude),
		Longitude:  string(body.Longitude),
		Arrival:    body.Arrival,
		Departure:  body.Departure,
		Rating:     body.Rating,
		QuickFacts: body.QuickFacts,
		Notes:      body.Notes,
	}
	for _, img := range body.Images {
		d.Images = append(d.Images, domain.Image{URL: img.URL, Caption: img.Caption})
	}
	return d
}

func stateToResponse(st session.State) State {
	out := State{
		AutoRotate:   st.AutoRotate,
		FormOpen:     st.FormOpen,
		SoundEnabled: st.SoundEnabled,
		Lookup: LookupState{
			Seq:    st.Lookup.Seq,
			Status: st.Lookup.Status,
			Query:  st.Lookup.Query,
		},
	}
	if st.Focused() {
		id := st.FocusedID
		out.FocusedID = &id
	}
	if st.Lookup.Result != nil {
		c := coordinatesToResponse(*st.Lookup.Result)
		out.Lookup.Coordinates = &c
	}
	if out.Lookup.Status == session.LookupNone {
		out.Lookup.Status = "idle"
	}
	return out
}

// formatFloat renders v without trailing zeros, for CSV cells.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
