package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/websketch/websketch/pkg/sketch"
)

func previewSketch() []sketch.Component {
	return []sketch.Component{
		sketch.New("button-1", sketch.KindButton, 544, 36, 150, 53, map[string]any{"text": "Submit"}),
		sketch.New("input-1", sketch.KindInput, 100, 200, 428, 47, nil),
		sketch.New("line-1", sketch.KindHorizontalLine, 0, 120, 700, 2, nil),
		sketch.New("image-1", sketch.KindImagePlaceholder, 100, 300, 200, 150, nil),
		sketch.New("heading-1", sketch.KindHeading, 100, 10, 300, 40, map[string]any{"text": "Sign up"}),
	}
}

func TestSVGStructure(t *testing.T) {
	svg := string(SVG(previewSketch()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("output does not start with an svg element: %.80s", svg)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("output not closed")
	}

	for _, want := range []string{
		`class="component button"`,
		`class="component input"`,
		`class="component placeholder"`,
		`class="line"`,
		">Submit<",
		">Sign up<",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSVGEmptySketch(t *testing.T) {
	svg := string(SVG(nil))

	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Errorf("empty sketch did not produce a valid document: %s", svg)
	}
}

func TestSVGDeterministic(t *testing.T) {
	a := SVG(previewSketch())
	b := SVG(previewSketch())

	if !bytes.Equal(a, b) {
		t.Error("identical input produced different output")
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	components := []sketch.Component{
		sketch.New("button-1", sketch.KindButton, 0, 0, 150, 53, map[string]any{"text": `<script>"x"</script>`}),
	}

	svg := string(SVG(components))
	if strings.Contains(svg, "<script>") {
		t.Error("label text not escaped")
	}
}

func TestSVGWithIDs(t *testing.T) {
	svg := string(SVG(previewSketch(), WithIDs()))

	if !strings.Contains(svg, ">button-1<") {
		t.Error("WithIDs() did not annotate components")
	}
}

func TestSVGWithBackground(t *testing.T) {
	svg := string(SVG(previewSketch(), WithBackground("#fafafa")))

	if !strings.Contains(svg, `fill="#fafafa"`) {
		t.Error("WithBackground() not applied")
	}
}
