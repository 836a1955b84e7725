// Package topology finds the segments attached to a junction.
//
// Discovery is read-only: it walks the junction's port graph and, when port
// data is missing or inconsistent, falls back to a geometric proximity scan.
// It never fails — on any dead end it returns whatever it has accumulated,
// and the caller classifies the result count.
package topology

import (
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

// DefaultProximity is the fallback scan tolerance in length units.
// Small on purpose: it exists to tolerate broken port data, not to guess at
// distant segments.
const DefaultProximity = 1.0

// FindAttachedSegments returns the segments attached to j, de-duplicated by
// identity in first-seen order. The port-graph walk wins when it yields
// anything; otherwise segments within proximity of the junction's
// representative point are returned. A non-positive proximity uses
// DefaultProximity.
//
// Running discovery twice on an unmodified junction yields the same set.
func FindAttachedSegments(host model.Host, j *model.Junction, proximity float64) []*model.Segment {
	if host == nil || j == nil {
		return nil
	}
	if segs := walkPorts(host, j); len(segs) > 0 {
		return segs
	}
	if proximity <= 0 {
		proximity = DefaultProximity
	}
	return scanNearby(host, j, proximity)
}

// walkPorts follows every external reference of the junction's connected
// ports and keeps owners that are segments other than the junction itself.
func walkPorts(host model.Host, j *model.Junction) []*model.Segment {
	var (
		out  []*model.Segment
		seen = map[model.ElementID]bool{}
	)
	for _, port := range host.Ports(j) {
		if !port.Connected() {
			continue
		}
		for _, ref := range port.Refs() {
			owner := ref.Owner()
			if owner == nil || owner.ID() == j.ID() {
				continue
			}
			seg, ok := owner.(*model.Segment)
			if !ok || owner.Category() != model.CategorySegment {
				continue
			}
			if seen[seg.ID()] {
				continue
			}
			seen[seg.ID()] = true
			out = append(out, seg)
		}
	}
	return out
}

// scanNearby is the geometric fallback for models whose port data is
// missing or inconsistent. It uses the junction's point location, or the
// start of its location curve, as the probe point.
func scanNearby(host model.Host, j *model.Junction, proximity float64) []*model.Segment {
	loc := j.Location()
	if loc == nil {
		return nil
	}
	return host.SegmentsNear(loc.Representative(), proximity)
}

// Representative returns the probe point discovery would use for j,
// reporting false when the junction carries no location at all.
func Representative(j *model.Junction) (geom.Point, bool) {
	if j == nil || j.Location() == nil {
		return geom.Point{}, false
	}
	return j.Location().Representative(), true
}
