package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/circuitgen/pkg/level"
)

// Options configures the diagram.
type Options struct {
	// Scale is the drawing size of one layout unit, in inches.
	Scale float64
	// Highlight is a node path drawn with bold edges.
	Highlight []int
	// ShowIDs labels edges with their ids.
	ShowIDs bool
}

const defaultScale = 1.2

// ToDOT converts l to Graphviz DOT source for the neato engine.
func ToDOT(l *level.Level, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = defaultScale
	}
	bold := make(map[[2]int]bool, len(opts.Highlight))
	for i := 0; i+1 < len(opts.Highlight); i++ {
		bold[key(opts.Highlight[i], opts.Highlight[i+1])] = true
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", l.ID)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#fff6c2\", fontsize=14, width=0.45, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=2, color=\"#555555\"];\n\n")

	for _, n := range l.Nodes {
		attrs := []string{
			fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.Pos.X*scale, -n.Pos.Y*scale),
			fmt.Sprintf("label=%q", strconv.Itoa(n.ID)),
		}
		if n.IsSwitch() {
			attrs = append(attrs, "shape=doublecircle", "fillcolor=\"#c2dcff\"",
				fmt.Sprintf("xlabel=\"S%d\"", n.SwitchGroup))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  n%d -- n%d [%s];\n", e.A, e.B, strings.Join(edgeAttrs(e, bold, opts.ShowIDs), ", "))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e level.Edge, bold map[[2]int]bool, ids bool) []string {
	var attrs []string
	switch e.Diode {
	case level.DiodeAtoB:
		attrs = append(attrs, "dir=forward", "arrowhead=normal")
	case level.DiodeBtoA:
		attrs = append(attrs, "dir=back", "arrowtail=normal")
	}
	if e.IsGated() {
		color := "#c0392b"
		if e.GateOpen {
			color = "#27ae60"
		}
		attrs = append(attrs, "style=dashed", fmt.Sprintf("color=%q", color))
	}
	if bold[key(e.A, e.B)] {
		attrs = append(attrs, "penwidth=4")
	}
	if ids {
		attrs = append(attrs, fmt.Sprintf("label=\"e%d\"", e.ID), "fontsize=10")
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func key(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %.2f %.2f" width="%.0f" height="%.0f">`,
		m[1], m[2], w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
