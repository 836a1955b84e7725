package model

import "github.com/kstrandberg/uncouple/pkg/geom"

// Assembly is the nested sub-model some hosts use to hang ports off a
// fitting instead of the fitting itself. It exists so both junction shapes
// can be exercised; callers never touch it directly — Junction.Ports
// normalizes over it.
type Assembly struct {
	ports []*Port
}

// NewAssembly creates a sub-model holding the given ports.
func NewAssembly(ports ...*Port) *Assembly {
	return &Assembly{ports: ports}
}

// Ports returns the assembly's ports.
func (a *Assembly) Ports() []*Port { return a.ports }

// Junction is a coupling: a short-lived element joining exactly two segments
// through two of its own ports. Junctions with any other attached-segment
// count are rejected by the orchestrator, not handled best-effort.
type Junction struct {
	id       ElementID
	typeName string
	loc      Location
	ports    []*Port  // direct representation
	sub      *Assembly // nested representation; nil when ports are direct
}

// NewJunction constructs a junction with directly-held ports at the given
// origins. loc may be nil for hosts that report no location.
func NewJunction(id ElementID, typeName string, loc Location, origins ...geom.Point) *Junction {
	j := &Junction{id: id, typeName: typeName, loc: loc}
	for _, o := range origins {
		j.ports = append(j.ports, NewPort(j, o))
	}
	return j
}

// NewNestedJunction constructs a junction whose ports live on a nested
// sub-assembly, mirroring hosts where fittings expose connectivity through
// a contained sub-model rather than directly.
func NewNestedJunction(id ElementID, typeName string, loc Location, origins ...geom.Point) *Junction {
	j := &Junction{id: id, typeName: typeName, loc: loc}
	ports := make([]*Port, 0, len(origins))
	for _, o := range origins {
		ports = append(ports, NewPort(j, o))
	}
	j.sub = NewAssembly(ports...)
	return j
}

// ID returns the junction's identity.
func (j *Junction) ID() ElementID { return j.id }

// Category returns CategoryJunction.
func (j *Junction) Category() Category { return CategoryJunction }

// TypeName returns the junction's family/type identifier.
func (j *Junction) TypeName() string { return j.typeName }

// Location returns where the junction sits, or nil if unknown.
func (j *Junction) Location() Location { return j.loc }

// SetLocation moves the junction. Hosts call this from MoveElement.
func (j *Junction) SetLocation(loc Location) { j.loc = loc }

// Ports returns the junction's ports regardless of internal shape.
func (j *Junction) Ports() []*Port {
	if j.sub != nil {
		return j.sub.Ports()
	}
	return j.ports
}

// Nested reports whether the junction holds its ports on a sub-assembly.
func (j *Junction) Nested() bool { return j.sub != nil }
