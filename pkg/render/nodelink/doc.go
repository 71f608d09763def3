// Package nodelink draws a level as a node-link diagram with Graphviz.
//
// Nodes are pinned at their stored positions (neato with pos="x,y!"), so the
// picture shows exactly the layout a player would see:
//
//   - bulbs are circles, switches are double circles labelled with their group
//   - diodes are arrows in their allowed direction
//   - gated edges are dashed; green when open at the start, red when closed
//   - an optional highlight path (usually the backbone) is drawn bold
//
// [ToDOT] produces the DOT source; [RenderSVG] renders it in-process through
// [github.com/goccy/go-graphviz], which needs no system Graphviz install.
package nodelink
