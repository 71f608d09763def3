// Package render turns levels into debug images.
//
// The [nodelink] subpackage draws a level with Graphviz at its stored
// positions. The functions here convert its SVG output to other formats
// with the external rsvg-convert tool from librsvg:
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{}))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// rsvg-convert is only needed for PDF and PNG. Install it with
// "brew install librsvg" (macOS) or "apt install librsvg2-bin" (Linux).
package render
