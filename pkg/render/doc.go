// Package render draws a sketch as an SVG wireframe preview.
//
// The preview is a faithful picture of what the component list describes:
// every component becomes a shape at its stored position and size, styled by
// kind (buttons filled, inputs outlined, image placeholders crossed out,
// lines drawn as lines). It exists so a sketch can be eyeballed from the
// terminal without loading the editor frontend.
//
// Rendering is pure: identical input always produces identical SVG bytes,
// which makes output suitable for golden-file comparison in tests.
package render
