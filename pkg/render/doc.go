// Package render draws the preference graph of a ranking session.
//
// [ToDOT] turns decisions into a Graphviz digraph with an edge from each
// chosen item to the item it beat. Edges are styled by provenance: direct
// decisions are solid, imported ones dashed, inferred ones dotted. With
// [Options.Reduce] only the transitive reduction is drawn, which is usually
// far easier to read.
//
//	dot, err := render.ToDOT(decisions, render.Options{Reduce: true})
//	svg, err := render.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// SVG rendering uses the embedded Graphviz from go-graphviz. PDF and PNG
// conversion shell out to rsvg-convert.
package render
