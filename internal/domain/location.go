// Package domain contains the core data types for the travel journal.
// This package has no dependencies on the transport or storage layers and is
// imported by every other internal package (repo, service, session, handler).
package domain

import (
	"math"
	"time"
)

// Kind distinguishes places already visited from wish-list entries.
type Kind string

const (
	KindVisited  Kind = "visited"
	KindWishlist Kind = "wishlist"
)

// ParseKind maps a wire value to a Kind. Older clients call wish-list
// entries "bucket-list", so that spelling is accepted too. An empty value
// defaults to KindWishlist.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "visited":
		return KindVisited, true
	case "wishlist", "bucket-list", "":
		return KindWishlist, true
	}
	return "", false
}

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both components are within their geographic ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Image is a captioned photo attached to a location.
type Image struct {
	URL     string
	Caption string
}

// Dates is the stay window of a visit. Both values are calendar dates (UTC midnight).
type Dates struct {
	Arrival   time.Time
	Departure time.Time
}

// Days returns the stay length in whole days, rounded up.
func (d Dates) Days() int {
	return int(math.Ceil(d.Departure.Sub(d.Arrival).Hours() / 24))
}

// Visit holds the fields that only make sense for a visited location.
// Both are optional: a visit may be logged without dates or a rating.
type Visit struct {
	Dates  *Dates
	Rating *int
}

// Location is a single travel journal entry.
//
// A location is visited iff Visit is non-nil. Wish-list entries have nowhere
// to put dates or a rating, so the "wishlist implies no dates and no rating"
// rule holds by construction.
type Location struct {
	ID          string
	City        string
	Country     string
	Coordinates Coordinates
	QuickFacts  []string
	Images      []Image
	Notes       string
	Visit       *Visit
}

// Kind reports whether the location is visited or on the wish list.
func (l Location) Kind() Kind {
	if l.Visit != nil {
		return KindVisited
	}
	return KindWishlist
}

// Dates returns the stay window, or nil for wish-list entries and visits
// logged without dates.
func (l Location) Dates() *Dates {
	if l.Visit == nil {
		return nil
	}
	return l.Visit.Dates
}

// Rating returns the 1–5 rating, or nil when absent.
func (l Location) Rating() *int {
	if l.Visit == nil {
		return nil
	}
	return l.Visit.Rating
}

// LocationDraft is the raw input collected by the entry form.
// Coordinates and dates arrive as text because the form binds them to text
// inputs; the service parses and validates them in Append.
type LocationDraft struct {
	City       string
	Country    string
	Kind       string
	Latitude   string
	Longitude  string
	Arrival    string
	Departure  string
	Rating     *int
	QuickFacts []string
	Images     []Image
	Notes      string
}

// Stats summarises the store for the stats bar.
type Stats struct {
	Visited   int
	Wishlist  int
	Countries int // distinct countries among visited locations
}
