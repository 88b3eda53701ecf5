// Package geo maps geographic coordinates onto the globe mesh.
//
// The globe is a sphere centred on the origin of a right-handed coordinate
// system with +Y pointing at the north pole. The longitude offset and the sign
// on X line the texture seam up with the renderer's default camera.
package geo

import (
	"math"

	"github.com/pkordes/travel-journal/internal/domain"
)

// Point3D is a position in globe space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Scale returns p multiplied by s.
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Length returns the Euclidean distance from the origin.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point3D) DistanceTo(q Point3D) float64 {
	return p.Add(q.Scale(-1)).Length()
}

// Project converts latitude/longitude in degrees to a point on a sphere of
// the given radius.
func Project(lat, lng, radius float64) Point3D {
	colatitude := (90 - lat) * math.Pi / 180
	azimuth := (lng + 180) * math.Pi / 180

	return Point3D{
		X: -radius * math.Sin(colatitude) * math.Cos(azimuth),
		Y: radius * math.Cos(colatitude),
		Z: radius * math.Sin(colatitude) * math.Sin(azimuth),
	}
}

// ProjectCoordinates is Project for a domain.Coordinates value.
func ProjectCoordinates(c domain.Coordinates, radius float64) Point3D {
	return Project(c.Latitude, c.Longitude, radius)
}

// arcLift is how far the arc apex rises above the sphere, as a fraction of
// the chord length between the endpoints.
const arcLift = 0.3

// Arc returns segments+1 points along a quadratic Bézier curve from start to
// end. The control point is the chord midpoint pushed out to
// radius + chord*arcLift, so longer legs bulge higher above the surface.
//
// A segments value below 1 is treated as 1. For antipodal endpoints the chord
// midpoint is the origin and has no direction; the curve is then lifted
// towards the north pole.
func Arc(start, end domain.Coordinates, radius float64, segments int) []Point3D {
	if segments < 1 {
		segments = 1
	}

	p0 := ProjectCoordinates(start, radius)
	p2 := ProjectCoordinates(end, radius)

	mid := p0.Add(p2).Scale(0.5)
	height := radius + p0.DistanceTo(p2)*arcLift
	var p1 Point3D
	if l := mid.Length(); l > 1e-12 {
		p1 = mid.Scale(height / l)
	} else {
		p1 = Point3D{Y: height}
	}

	points := make([]Point3D, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		points[i] = p0.Scale(u * u).
			Add(p1.Scale(2 * u * t)).
			Add(p2.Scale(t * t))
	}
	return points
}
