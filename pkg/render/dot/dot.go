// Package dot renders entity relationship diagrams to Graphviz DOT and
// rasterized formats.
//
// Models become nodes labeled with HTML-like tables (header, optional
// description row, one row per field) and composition edges carry crow's
// foot arrowheads encoding cardinality and modality.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/christophertubbs/erdantic/pkg/erd"
)

// ToDOT converts a diagram to Graphviz DOT. Output order follows the
// diagram's canonical model and edge order, so the text is stable across
// runs.
func ToDOT(d *erd.Diagram) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", d.Name())
	fmt.Fprintf(&buf, "  rankdir=%s;\n", d.Orientation())
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  fontsize=9;\n")
	buf.WriteString("  fontcolor=\"gray66\";\n")
	buf.WriteString("  node [fontsize=14, shape=plain];\n")
	buf.WriteString("\n")

	for _, m := range d.Models() {
		fmt.Fprintf(&buf, "  %q [label=%s];\n", m.Key(), Label(m))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [tailport=\"%s_e:e\", arrowhead=%q];\n",
			e.Source.Key(), e.Target.Key(), e.SourceField.Name(), arrowhead(e))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// arrowhead returns the crow's foot arrow shape for an edge's head. The
// shape concatenates the cardinality glyph (crow for many, nonetee for one)
// with the modality glyph (odot for optional, tee for mandatory).
func arrowhead(e erd.Edge) string {
	cardinality, modality := e.CardinalityModality()

	shape := "nonetee"
	if cardinality == erd.CardinalityMany {
		shape = "crow"
	}
	if modality == erd.ModalityOptional {
		return shape + "odot"
	}
	return shape + "tee"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
