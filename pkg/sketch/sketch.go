// Package sketch defines the wireframe document model: placed components,
// their kinds, and the minimum-size invariants every component must satisfy.
//
// A sketch is a flat list of rectangular components positioned on a canvas
// whose origin (0,0) is the top-left corner, with x increasing rightward and
// y increasing downward. All measurements are pixels.
//
// # Size Floors
//
// Every component is at least 20px wide. Every component is at least 20px
// tall, except HorizontalLine which may be as thin as 2px. These floors are
// a public contract of the type: they are applied by [Component.Clamp] at
// construction and re-applied after every mutation by the operation
// executor, never assumed from caller input.
package sketch

import (
	"fmt"
	"math/rand"
	"time"
)

// =============================================================================
// Component Kinds
// =============================================================================

// Kind identifies the UI element a component represents.
type Kind string

// The full set of component kinds understood by the editor frontend.
const (
	KindContainer        Kind = "Container"
	KindButton           Kind = "Button"
	KindInput            Kind = "Input"
	KindImagePlaceholder Kind = "ImagePlaceholder"
	KindText             Kind = "Text"
	KindHorizontalLine   Kind = "HorizontalLine"
	KindHeading          Kind = "Heading"
	KindFooter           Kind = "Footer"
	KindNavigationBox    Kind = "NavigationBox"
	KindList             Kind = "List"
	KindTable            Kind = "Table"
)

// Kinds lists every valid kind, in the order the frontend declares them.
var Kinds = []Kind{
	KindContainer,
	KindButton,
	KindInput,
	KindImagePlaceholder,
	KindText,
	KindHorizontalLine,
	KindHeading,
	KindFooter,
	KindNavigationBox,
	KindList,
	KindTable,
}

// ParseKind resolves a kind name to a Kind, reporting whether it is valid.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Size floors, in pixels.
const (
	// MinWidth is the minimum width of any component.
	MinWidth = 20.0

	// MinHeight is the minimum height of a non-line component.
	MinHeight = 20.0

	// MinLineHeight is the minimum height of a HorizontalLine.
	MinLineHeight = 2.0
)

// MinHeightFor returns the height floor for the given kind.
func MinHeightFor(kind Kind) float64 {
	if kind == KindHorizontalLine {
		return MinLineHeight
	}
	return MinHeight
}

// =============================================================================
// Component
// =============================================================================

// Component is a positioned, sized, typed rectangle in the wireframe.
// Field names on the wire match the frontend contract exactly.
type Component struct {
	ID     string         `json:"id" bson:"id"`
	Kind   Kind           `json:"type" bson:"type"`
	X      float64        `json:"x" bson:"x"`
	Y      float64        `json:"y" bson:"y"`
	Width  float64        `json:"width" bson:"width"`
	Height float64        `json:"height" bson:"height"`
	Props  map[string]any `json:"props" bson:"props"`
}

// New creates a component with the size floors applied.
func New(id string, kind Kind, x, y, width, height float64, props map[string]any) Component {
	if props == nil {
		props = map[string]any{}
	}
	c := Component{ID: id, Kind: kind, X: x, Y: y, Width: width, Height: height, Props: props}
	return c.Clamp()
}

// Clamp returns a copy of the component with width and height raised to the
// canonical floors for its kind. Position is left untouched.
func (c Component) Clamp() Component {
	c.Width = max(MinWidth, c.Width)
	c.Height = max(MinHeightFor(c.Kind), c.Height)
	return c
}

// CheckInvariants reports an error if the component violates a size floor.
// Used by the executor as a post-batch defense-in-depth check.
func (c Component) CheckInvariants() error {
	if c.Width < MinWidth {
		return fmt.Errorf("component %s has invalid width: %g", c.ID, c.Width)
	}
	if c.Height < MinHeightFor(c.Kind) {
		return fmt.Errorf("component %s has invalid height: %g", c.ID, c.Height)
	}
	return nil
}

// Right returns the x coordinate of the component's right edge.
func (c Component) Right() float64 { return c.X + c.Width }

// Bottom returns the y coordinate of the component's bottom edge.
func (c Component) Bottom() float64 { return c.Y + c.Height }

// CenterX returns the x coordinate of the component's horizontal center.
func (c Component) CenterX() float64 { return c.X + c.Width/2 }

// CenterY returns the y coordinate of the component's vertical center.
func (c Component) CenterY() float64 { return c.Y + c.Height/2 }

// =============================================================================
// Sketch helpers
// =============================================================================

// Find returns the component with the given id, reporting whether it exists.
func Find(components []Component, id string) (Component, bool) {
	for _, c := range components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// Contains reports whether a component with the given id exists.
func Contains(components []Component, id string) bool {
	_, ok := Find(components, id)
	return ok
}

// Clone returns a deep-enough copy of the component list: the slice and each
// component's props map are fresh, so mutating the copy never aliases the
// original. Prop values themselves are shared (they are treated as opaque).
func Clone(components []Component) []Component {
	out := make([]Component, len(components))
	for i, c := range components {
		props := make(map[string]any, len(c.Props))
		for k, v := range c.Props {
			props[k] = v
		}
		c.Props = props
		out[i] = c
	}
	return out
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID synthesizes a component id in the frontend's format:
// "component-{millis}-{9 random alphanumerics}".
func NewID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("component-%d-%s", time.Now().UnixMilli(), suffix)
}
