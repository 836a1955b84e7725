// Package viz renders models as connectivity diagrams.
//
// Segments are boxes, junctions are diamonds, and port links are edges.
// ToDOT produces Graphviz DOT text; RenderSVG and RenderPNG rasterize it.
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
)

// Options configures diagram output.
type Options struct {
	// Detailed includes spans and port counts in node labels.
	// When false, only the element id and type are shown.
	Detailed bool
}

// ToDOT converts a model's connectivity to Graphviz DOT format. Output is
// deterministic: elements in insertion order, each link emitted once.
func ToDOT(m *memory.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph model {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, seg := range m.Segments() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", seg.ID(), segmentLabel(seg, opts.Detailed))
	}
	for _, j := range m.Junctions() {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=diamond, fillcolor=lightgrey];\n",
			j.ID(), junctionLabel(j, opts.Detailed))
	}

	buf.WriteString("\n")
	seen := map[[2]model.ElementID]bool{}
	emit := func(el model.Element) {
		for _, p := range el.Ports() {
			for _, ref := range p.Refs() {
				other := ref.Owner()
				if other == nil {
					continue
				}
				key := [2]model.ElementID{el.ID(), other.ID()}
				rev := [2]model.ElementID{other.ID(), el.ID()}
				if seen[key] || seen[rev] {
					continue
				}
				seen[key] = true
				fmt.Fprintf(&buf, "  %q -- %q;\n", el.ID(), other.ID())
			}
		}
	}
	for _, seg := range m.Segments() {
		emit(seg)
	}
	for _, j := range m.Junctions() {
		emit(j)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func segmentLabel(seg *model.Segment, detailed bool) string {
	label := fmt.Sprintf("%s\n%s", seg.ID(), seg.TypeName())
	if !detailed {
		return label
	}
	s := seg.Span()
	parts := []string{
		label,
		fmt.Sprintf("(%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)",
			s.Start.X, s.Start.Y, s.Start.Z, s.End.X, s.End.Y, s.End.Z),
		fmt.Sprintf("len: %.2f", seg.Length()),
	}
	return strings.Join(parts, "\n")
}

func junctionLabel(j *model.Junction, detailed bool) string {
	label := fmt.Sprintf("%s\n%s", j.ID(), j.TypeName())
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nports: %d", label, len(j.Ports()))
}

// RenderSVG renders DOT text to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders DOT text to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
