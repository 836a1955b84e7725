// Package modelio provides JSON import and export for building models.
//
// The format has three top-level arrays:
//
//	{
//	  "segments": [
//	    {"id": "a", "type": "DN50",
//	     "start": {"x": 0, "y": 0, "z": 0}, "end": {"x": 5, "y": 0, "z": 0},
//	     "meta": {"mark": "P-101"}}
//	  ],
//	  "junctions": [
//	    {"id": "j1", "type": "Coupling",
//	     "location": {"x": 5.1, "y": 0, "z": 0},
//	     "ports": [{"x": 5, "y": 0, "z": 0}, {"x": 5.2, "y": 0, "z": 0}]}
//	  ],
//	  "links": [
//	    {"from": "j1", "from_port": 0, "to": "a", "to_port": 1}
//	  ]
//	}
//
// Segments need an id, a type, and two distinct endpoints; meta is optional.
// Junctions need an id, a type, and port origins; location is optional and
// "nested" marks junctions whose ports live on a sub-assembly. Links address
// ports by element id and port index.
//
// Import preserves array order as the model's insertion order, and export
// writes elements back in that order, so a round trip is stable.
package modelio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
)

type segmentJSON struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Start geom.Point     `json:"start"`
	End   geom.Point     `json:"end"`
	Meta  model.Metadata `json:"meta,omitempty"`
}

type junctionJSON struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Location *geom.Point  `json:"location,omitempty"`
	Nested   bool         `json:"nested,omitempty"`
	Ports    []geom.Point `json:"ports"`
}

type linkJSON struct {
	From     string `json:"from"`
	FromPort int    `json:"from_port"`
	To       string `json:"to"`
	ToPort   int    `json:"to_port"`
}

type modelJSON struct {
	Segments  []segmentJSON  `json:"segments"`
	Junctions []junctionJSON `json:"junctions"`
	Links     []linkJSON     `json:"links,omitempty"`
}

// ReadJSON decodes a model from r.
//
// ReadJSON returns an error if the JSON is malformed, an element id is
// duplicated, a segment has coincident endpoints, or a link references an
// unknown element or port index. The returned model is independent of r;
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*memory.Model, error) {
	var data modelJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model")
	}

	m := memory.New()
	for _, s := range data.Segments {
		if s.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidModel, "segment without id")
		}
		span := geom.NewSpan(s.Start, s.End)
		if span.Length() == 0 {
			return nil, errors.New(errors.ErrCodeInvalidModel, "segment %s has coincident endpoints", s.ID)
		}
		if _, err := m.InsertSegment(model.ElementID(s.ID), s.Type, span, s.Meta); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "segment %s", s.ID)
		}
	}
	for _, j := range data.Junctions {
		if j.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidModel, "junction without id")
		}
		var loc model.Location
		if j.Location != nil {
			loc = model.PointLocation{P: *j.Location}
		}
		if _, err := m.InsertJunction(model.ElementID(j.ID), j.Type, loc, j.Nested, j.Ports...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "junction %s", j.ID)
		}
	}
	for _, l := range data.Links {
		from, err := portAt(m, l.From, l.FromPort)
		if err != nil {
			return nil, err
		}
		to, err := portAt(m, l.To, l.ToPort)
		if err != nil {
			return nil, err
		}
		if err := m.LinkPorts(from, to); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err,
				"link %s[%d] -> %s[%d]", l.From, l.FromPort, l.To, l.ToPort)
		}
	}
	return m, nil
}

func portAt(m *memory.Model, id string, idx int) (*model.Port, error) {
	el := m.Element(model.ElementID(id))
	if el == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "link references unknown element %s", id)
	}
	ports := el.Ports()
	if idx < 0 || idx >= len(ports) {
		return nil, errors.New(errors.ErrCodeInvalidModel,
			"link references port %d of %s, which has %d ports", idx, id, len(ports))
	}
	return ports[idx], nil
}

// ImportJSON reads a model from the JSON file at path.
func ImportJSON(path string) (*memory.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
