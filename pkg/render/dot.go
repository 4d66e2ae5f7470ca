package render

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/songsort/pkg/pref"
)

// Options configures preference graph rendering.
type Options struct {
	// Reduce draws only edges not implied by a two-hop path.
	Reduce bool
	// Ranking, when set, prefixes each item label with its position.
	Ranking []string
}

var edgeStyles = map[pref.Kind]string{
	pref.Direct:   `color=black`,
	pref.Imported: `color="#3b82f6", style=dashed`,
	pref.Inferred: `color=grey, style=dotted`,
}

// ToDOT converts decisions to Graphviz DOT format. The result can be rendered
// with [RenderSVG].
func ToDOT(decisions []pref.Decision, opts Options) (string, error) {
	edges := decisions
	if opts.Reduce && len(decisions) > 0 {
		var err error
		if edges, err = pref.TransitiveReduction(decisions, false); err != nil {
			return "", err
		}
	}

	position := make(map[string]int, len(opts.Ranking))
	for i, it := range opts.Ranking {
		position[it] = i + 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := pref.Items(decisions)
	for _, it := range opts.Ranking {
		if !slices.Contains(nodes, it) {
			nodes = append(nodes, it)
		}
	}
	for _, it := range nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", it, label(it, position[it]))
	}

	buf.WriteString("\n")
	for _, d := range edges {
		attrs := []string{edgeStyles[d.Kind]}
		if d.Timed() {
			attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(d.Ordinal)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", d.Chosen, d.Rejected, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func label(item string, pos int) string {
	if pos == 0 {
		return item
	}
	return fmt.Sprintf("%d. %s", pos, item)
}
