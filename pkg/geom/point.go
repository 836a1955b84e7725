// Package geom provides the small set of 3D primitives the reconnection
// engine works with: points, direction vectors, and bounded linear spans.
//
// All coordinates are in model length units. The package is pure math and
// has no knowledge of model elements; see pkg/model for the entity layer.
package geom

import "math"

// Point is a location in model space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Vector is a displacement between two points.
type Vector struct {
	X, Y, Z float64
}

// Add returns the point translated by v.
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return p.Sub(q).Norm()
}

// MidpointTo returns the point halfway between p and q.
func (p Point) MidpointTo(q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2, (p.Z + q.Z) / 2}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Unit returns v normalized to length 1. The zero vector is returned
// unchanged, so callers comparing directions via Dot stay well-defined.
func (v Vector) Unit() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}
