// Package scene derives what the globe renderer draws from the stored
// locations and the current selection. Nothing here is stored; a Scene is
// recomputed for every request.
package scene

import (
	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/geo"
)

const (
	// GlobeRadius is the visual radius of the globe mesh. Arcs are drawn at it.
	GlobeRadius = 2.0
	// MarkerRadius sits slightly above the globe so markers clear the texture.
	MarkerRadius = 2.05
	// CameraDistance is how far from the centre the camera parks when it
	// flies to a focused location.
	CameraDistance = 5.0
	// ArcSegments is the number of Bézier segments per travel arc.
	ArcSegments = 50
)

// Marker is one location pin.
type Marker struct {
	ID       string      `json:"id"`
	Kind     domain.Kind `json:"kind"`
	Position geo.Point3D `json:"position"`
	Selected bool        `json:"selected"`
}

// Arc is a travel leg between two consecutive visited locations.
type Arc struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Points []geo.Point3D `json:"points"`
}

// Scene is the renderer's view of the journal.
type Scene struct {
	Visited  []Marker `json:"visited"`
	Wishlist []Marker `json:"wishlist"`
	Arcs     []Arc    `json:"arcs"`

	// CameraTarget is where the camera flies to for the focused location.
	// Nil when nothing is focused or the focused id is not in locs.
	CameraTarget *geo.Point3D `json:"cameraTarget"`
}

// Compose builds a Scene from locs in store order.
//
// Markers are split by kind with their relative order preserved. Arcs join
// visited locations i and i+1 in that order, so n visited locations give
// n-1 arcs; wish-list entries never take part and do not break a chain.
func Compose(locs []domain.Location, focusedID string) Scene {
	s := Scene{
		Visited:  []Marker{},
		Wishlist: []Marker{},
		Arcs:     []Arc{},
	}

	var prev *domain.Location
	for i := range locs {
		loc := &locs[i]
		m := Marker{
			ID:       loc.ID,
			Kind:     loc.Kind(),
			Position: geo.ProjectCoordinates(loc.Coordinates, MarkerRadius),
			Selected: focusedID != "" && loc.ID == focusedID,
		}
		if m.Selected {
			target := geo.ProjectCoordinates(loc.Coordinates, CameraDistance)
			s.CameraTarget = &target
		}

		if m.Kind != domain.KindVisited {
			s.Wishlist = append(s.Wishlist, m)
			continue
		}
		s.Visited = append(s.Visited, m)
		if prev != nil {
			s.Arcs = append(s.Arcs, Arc{
				From:   prev.ID,
				To:     loc.ID,
				Points: geo.Arc(prev.Coordinates, loc.Coordinates, GlobeRadius, ArcSegments),
			})
		}
		prev = loc
	}
	return s
}
