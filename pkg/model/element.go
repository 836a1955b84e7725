// Package model defines the building-model entities the reconnection engine
// operates on — segments, junctions, and their connectivity ports — plus the
// Host contract through which all mutations flow.
//
// The engine never owns elements: it holds references handed out by a Host
// and requests creation, deletion, and geometry changes through it. The
// reference in-memory Host lives in pkg/model/memory; a production host
// would adapt a CAD application's API to the same interface.
package model

import "github.com/kstrandberg/uncouple/pkg/geom"

// ElementID uniquely identifies an element within a model.
type ElementID string

// Category classifies an element for traversal filters.
type Category string

// Element categories.
const (
	// CategorySegment marks linear pipe/duct segments.
	CategorySegment Category = "segment"
	// CategoryJunction marks couplings joining two segments.
	CategoryJunction Category = "junction"
)

// Element is anything that lives in a model and carries ports.
// Both Segment and Junction implement it; the engine treats the two
// uniformly wherever it only needs identity and connectivity.
type Element interface {
	PortCarrier

	// ID returns the element's unique identity.
	ID() ElementID
	// Category returns the element's traversal category.
	Category() Category
}

// PortCarrier exposes an element's connectivity ports. Junctions come in two
// internal shapes (ports held directly, or held by a nested sub-assembly);
// implementations normalize that behind this single capability so callers
// never inspect the concrete representation.
type PortCarrier interface {
	Ports() []*Port
}

// Location describes where an element sits in model space. Hosts report
// either a point location or a curve location; discovery only ever needs a
// single representative point from it.
type Location interface {
	// Representative returns the point used for proximity queries.
	Representative() geom.Point
}

// PointLocation locates an element at a single point.
type PointLocation struct {
	P geom.Point
}

// Representative returns the location point.
func (l PointLocation) Representative() geom.Point { return l.P }

// SpanLocation locates an element along a curve. The representative point
// is the curve's start, matching how point-less fittings are queried.
type SpanLocation struct {
	S geom.Span
}

// Representative returns the curve's start point.
func (l SpanLocation) Representative() geom.Point { return l.S.Start }
