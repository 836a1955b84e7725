package modelio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
)

// WriteJSON encodes m to w in the package's JSON format. Elements appear in
// insertion order, each link exactly once, so export is deterministic and
// round-trips through ReadJSON.
func WriteJSON(m *memory.Model, w io.Writer) error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidModel, "nil model")
	}

	// Address every port by owner id and index so links can be flattened.
	type portAddr struct {
		id  string
		idx int
	}
	addr := map[*model.Port]portAddr{}
	index := func(el model.Element) {
		for i, p := range el.Ports() {
			addr[p] = portAddr{id: string(el.ID()), idx: i}
		}
	}

	var data modelJSON
	for _, seg := range m.Segments() {
		index(seg)
		data.Segments = append(data.Segments, segmentJSON{
			ID:    string(seg.ID()),
			Type:  seg.TypeName(),
			Start: seg.Span().Start,
			End:   seg.Span().End,
			Meta:  seg.Meta(),
		})
	}
	for _, j := range m.Junctions() {
		index(j)
		jj := junctionJSON{
			ID:     string(j.ID()),
			Type:   j.TypeName(),
			Nested: j.Nested(),
		}
		if loc := j.Location(); loc != nil {
			p := loc.Representative()
			jj.Location = &p
		}
		for _, port := range j.Ports() {
			jj.Ports = append(jj.Ports, port.Origin())
		}
		data.Junctions = append(data.Junctions, jj)
	}

	seen := map[[2]portAddr]bool{}
	emit := func(el model.Element) {
		for _, p := range el.Ports() {
			for _, ref := range p.Refs() {
				from, to := addr[p], addr[ref]
				key := [2]portAddr{from, to}
				rev := [2]portAddr{to, from}
				if seen[key] || seen[rev] {
					continue
				}
				seen[key] = true
				data.Links = append(data.Links, linkJSON{
					From: from.id, FromPort: from.idx,
					To: to.id, ToPort: to.idx,
				})
			}
		}
	}
	for _, seg := range m.Segments() {
		emit(seg)
	}
	for _, j := range m.Junctions() {
		emit(j)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode model")
	}
	return nil
}

// ExportJSON writes m to the file at path, creating or truncating it.
func ExportJSON(m *memory.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := WriteJSON(m, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
