package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/websketch/websketch/pkg/sketch"
)

// Default canvas padding around the sketch bounds, in pixels.
const defaultPadding = 24.0

const svgCSS = `
    .component { stroke: #2d3748; stroke-width: 1.5; }
    .button { fill: #2d3748; }
    .button-label { fill: #ffffff; }
    .input, .container, .box { fill: #ffffff; }
    .container { stroke-dasharray: 6 4; }
    .placeholder { fill: #f7fafc; }
    .label { fill: #2d3748; font-family: sans-serif; }
    .line { stroke: #2d3748; stroke-width: 2; }`

// Option configures the SVG renderer.
type Option func(*renderer)

type renderer struct {
	padding    float64
	showIDs    bool
	background string
}

// WithPadding sets the canvas padding around the sketch bounds.
func WithPadding(px float64) Option { return func(r *renderer) { r.padding = px } }

// WithIDs annotates every component with its id, for debugging layouts.
func WithIDs() Option { return func(r *renderer) { r.showIDs = true } }

// WithBackground sets the canvas background color (default white).
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// SVG renders the sketch as an SVG document. An empty sketch produces a
// small empty canvas, never an error.
func SVG(components []sketch.Component, opts ...Option) []byte {
	r := renderer{padding: defaultPadding, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	bounds := sketch.UnionBounds(components)
	width := bounds.Width() + 2*r.padding
	height := bounds.Height() + 2*r.padding
	if width < 2*r.padding+1 {
		width = 200
		height = 100
	}

	// Shift so the top-left component sits at the padding offset.
	dx := r.padding - bounds.MinX
	dy := r.padding - bounds.MinY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, r.background)

	for _, c := range components {
		renderComponent(&buf, c, dx, dy)
		if r.showIDs {
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" class="label" font-size="9">%s</text>`+"\n",
				c.X+dx, c.Y+dy-4, html.EscapeString(c.ID))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderComponent draws one component, dispatching on its kind.
func renderComponent(buf *bytes.Buffer, c sketch.Component, dx, dy float64) {
	x, y := c.X+dx, c.Y+dy

	switch c.Kind {
	case sketch.KindHorizontalLine:
		midY := y + c.Height/2
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="line"/>`+"\n",
			x, midY, x+c.Width, midY)

	case sketch.KindButton:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" class="component button"/>`+"\n",
			x, y, c.Width, c.Height)
		renderLabel(buf, c, x, y, "button-label")

	case sketch.KindInput:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" class="component input"/>`+"\n",
			x, y, c.Width, c.Height)
		renderLabel(buf, c, x, y, "label")

	case sketch.KindContainer:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="component container"/>`+"\n",
			x, y, c.Width, c.Height)

	case sketch.KindImagePlaceholder:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="component placeholder"/>`+"\n",
			x, y, c.Width, c.Height)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="line"/>`+"\n",
			x, y, x+c.Width, y+c.Height)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="line"/>`+"\n",
			x+c.Width, y, x, y+c.Height)

	case sketch.KindText, sketch.KindHeading:
		size := 14.0
		if c.Kind == sketch.KindHeading {
			size = 22.0
		}
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" class="label" font-size="%.0f">%s</text>`+"\n",
			x, y+size, size, html.EscapeString(labelText(c)))

	default:
		// Footer, NavigationBox, List, Table: generic labeled boxes.
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="component box"/>`+"\n",
			x, y, c.Width, c.Height)
		renderLabel(buf, c, x, y, "label")
	}
}

// renderLabel centers the component's label text inside its box.
func renderLabel(buf *bytes.Buffer, c sketch.Component, x, y float64, class string) {
	text := labelText(c)
	if text == "" {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" class="%s" font-size="13" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		x+c.Width/2, y+c.Height/2, class, html.EscapeString(text))
}

// labelText picks the display text: the text prop if present, else the kind.
func labelText(c sketch.Component) string {
	if text, ok := c.Props["text"].(string); ok && text != "" {
		return text
	}
	return string(c.Kind)
}
