package sketch

// Bounds is an axis-aligned bounding box in canvas coordinates.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// MidX returns the horizontal midpoint of the bounds.
func (b Bounds) MidX() float64 { return b.MinX + b.Width()/2 }

// MidY returns the vertical midpoint of the bounds.
func (b Bounds) MidY() float64 { return b.MinY + b.Height()/2 }

// Overlaps reports whether the boxes of a and b intersect. The test is
// closed-interval: boxes that merely touch on an edge still count as
// overlapping. The only disjoint conditions are one box lying entirely to
// one side of the other on either axis.
func Overlaps(a, b Component) bool {
	return !(a.Right() < b.X ||
		b.Right() < a.X ||
		a.Bottom() < b.Y ||
		b.Bottom() < a.Y)
}

// UnionBounds computes the bounding box enclosing every component.
// The result is undefined for an empty list; callers must special-case
// empty sketches before asking for bounds.
func UnionBounds(components []Component) Bounds {
	if len(components) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: components[0].X,
		MinY: components[0].Y,
		MaxX: components[0].Right(),
		MaxY: components[0].Bottom(),
	}
	for _, c := range components[1:] {
		b.MinX = min(b.MinX, c.X)
		b.MinY = min(b.MinY, c.Y)
		b.MaxX = max(b.MaxX, c.Right())
		b.MaxY = max(b.MaxY, c.Bottom())
	}
	return b
}

// GroupRect is a bounding box expressed as origin plus size, the shape the
// layout analyzer reports for column and section groups.
type GroupRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GroupBounds computes the origin-plus-size bounding box of a group.
// An empty group yields the zero rect.
func GroupBounds(components []Component) GroupRect {
	if len(components) == 0 {
		return GroupRect{}
	}
	b := UnionBounds(components)
	return GroupRect{X: b.MinX, Y: b.MinY, Width: b.Width(), Height: b.Height()}
}
