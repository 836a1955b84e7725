package memory

import (
	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

// Model implements model.Host and model.BatchDeleter. It deliberately does
// NOT implement model.Unioner: the reference host has no native union
// primitive, which exercises the strategy chain's optional-capability
// fall-through. Engine tests provide a Unioner test double where needed.
var (
	_ model.Host         = (*Model)(nil)
	_ model.BatchDeleter = (*Model)(nil)
)

// Ports returns el's ports. Segments and junctions normalize their own
// representation behind PortCarrier, so this is uniform by construction.
func (m *Model) Ports(el model.Element) []*model.Port {
	if el == nil {
		return nil
	}
	return el.Ports()
}

// SegmentsNear returns segments whose span passes within tol of p,
// in insertion order.
func (m *Model) SegmentsNear(p geom.Point, tol float64) []*model.Segment {
	var out []*model.Segment
	for _, seg := range m.Segments() {
		if seg.Span().DistanceTo(p) < tol {
			out = append(out, seg)
		}
	}
	return out
}

// CreateSegment creates a new segment over span using template's type.
// The new segment has a fresh identity and empty metadata.
func (m *Model) CreateSegment(template *model.Segment, span geom.Span) (*model.Segment, error) {
	if template == nil {
		return nil, errors.New(errors.ErrCodeCreateFailed, "nil template segment")
	}
	if _, ok := m.segments[template.ID()]; !ok {
		return nil, errors.New(errors.ErrCodeCreateFailed, "template segment %s not in model", template.ID())
	}
	if span.Length() == 0 {
		return nil, errors.New(errors.ErrCodeCreateFailed, "zero-length span")
	}
	return m.AddSegment(template.TypeName(), span, nil), nil
}

// DeleteElement removes the element with the given id. Like CAD hosts that
// refuse to delete entangled elements in place, it rejects elements that
// still hold connected ports; callers disconnect first or escalate to
// DeleteElements.
func (m *Model) DeleteElement(id model.ElementID) error {
	el := m.Element(id)
	if el == nil {
		return errors.New(errors.ErrCodeNotFound, "element %s", id)
	}
	for _, p := range el.Ports() {
		if p.Connected() {
			return errors.New(errors.ErrCodeDeleteFailed, "element %s still connected", id)
		}
	}
	m.remove(id)
	return nil
}

// DeleteElements force-removes all listed elements in one operation,
// severing any remaining links first. This is the collection-based
// escalation path for elements DeleteElement refuses.
func (m *Model) DeleteElements(ids []model.ElementID) error {
	for _, id := range ids {
		el := m.Element(id)
		if el == nil {
			return errors.New(errors.ErrCodeNotFound, "element %s", id)
		}
		for _, p := range el.Ports() {
			model.UnlinkAll(p)
		}
		m.remove(id)
	}
	return nil
}

func (m *Model) remove(id model.ElementID) {
	delete(m.segments, id)
	delete(m.junctions, id)
	// order keeps stale ids; Segments/Junctions filter against the maps.
}

// LinkPorts establishes a logical connection between a and b. Ports of
// segments with mismatched types are incompatible, mirroring hosts that
// reject size/type mismatches.
func (m *Model) LinkPorts(a, b *model.Port) error {
	if a == nil || b == nil {
		return errors.New(errors.ErrCodeLinkIncompatible, "nil port")
	}
	if a.Owner() == b.Owner() {
		return errors.New(errors.ErrCodeLinkIncompatible, "ports share owner %s", a.Owner().ID())
	}
	if m.Element(a.Owner().ID()) == nil || m.Element(b.Owner().ID()) == nil {
		return errors.New(errors.ErrCodeLinkIncompatible, "port owner no longer in model")
	}
	sa, aIsSeg := a.Owner().(*model.Segment)
	sb, bIsSeg := b.Owner().(*model.Segment)
	if aIsSeg && bIsSeg && sa.TypeName() != sb.TypeName() {
		return errors.New(errors.ErrCodeLinkIncompatible, "segment types %q and %q do not match", sa.TypeName(), sb.TypeName())
	}
	model.Link(a, b)
	return nil
}

// UnlinkPorts removes the logical connection between a and b.
func (m *Model) UnlinkPorts(a, b *model.Port) error {
	if a == nil || b == nil {
		return errors.New(errors.ErrCodeInvalidElement, "nil port")
	}
	model.Unlink(a, b)
	return nil
}

// UpdateSpan replaces seg's geometry in place. Identity and metadata are
// preserved; both ports move to the new endpoints.
func (m *Model) UpdateSpan(seg *model.Segment, span geom.Span) error {
	if seg == nil {
		return errors.New(errors.ErrCodeInvalidElement, "nil segment")
	}
	if _, ok := m.segments[seg.ID()]; !ok {
		return errors.New(errors.ErrCodeNotFound, "segment %s", seg.ID())
	}
	if span.Length() == 0 {
		return errors.New(errors.ErrCodeInvalidElement, "zero-length span for segment %s", seg.ID())
	}
	seg.SetSpan(span)
	return nil
}

// MoveElement translates an element by offset. Segments move their span and
// ports; junctions move their location and ports.
func (m *Model) MoveElement(id model.ElementID, offset geom.Vector) error {
	switch el := m.Element(id).(type) {
	case *model.Segment:
		s := el.Span()
		el.SetSpan(geom.NewSpan(s.Start.Add(offset), s.End.Add(offset)))
	case *model.Junction:
		if loc := el.Location(); loc != nil {
			el.SetLocation(model.PointLocation{P: loc.Representative().Add(offset)})
		}
		for _, p := range el.Ports() {
			p.SetOrigin(p.Origin().Add(offset))
		}
	default:
		return errors.New(errors.ErrCodeNotFound, "element %s", id)
	}
	return nil
}
