package sketch

import "testing"

func rect(id string, x, y, w, h float64) Component {
	return New(id, KindContainer, x, y, w, h, nil)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Component
		b    Component
		want bool
	}{
		{"clearly overlapping", rect("a", 0, 0, 100, 100), rect("b", 50, 50, 100, 100), true},
		{"disjoint horizontally", rect("a", 0, 0, 100, 100), rect("b", 200, 0, 100, 100), false},
		{"disjoint vertically", rect("a", 0, 0, 100, 100), rect("b", 0, 200, 100, 100), false},
		{"touching edges count", rect("a", 0, 0, 100, 100), rect("b", 100, 0, 100, 100), true},
		{"touching corners count", rect("a", 0, 0, 100, 100), rect("b", 100, 100, 100, 100), true},
		{"contained", rect("a", 0, 0, 300, 300), rect("b", 50, 50, 100, 100), true},
		{"one pixel apart", rect("a", 0, 0, 100, 100), rect("b", 101, 0, 100, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Symmetry
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnionBounds(t *testing.T) {
	components := []Component{
		rect("a", 10, 20, 100, 50),
		rect("b", 200, 5, 50, 150),
	}

	b := UnionBounds(components)
	if b.MinX != 10 || b.MinY != 5 {
		t.Errorf("min = (%g, %g), want (10, 5)", b.MinX, b.MinY)
	}
	if b.MaxX != 250 || b.MaxY != 155 {
		t.Errorf("max = (%g, %g), want (250, 155)", b.MaxX, b.MaxY)
	}
	if b.Width() != 240 || b.Height() != 150 {
		t.Errorf("size = %gx%g, want 240x150", b.Width(), b.Height())
	}
}

func TestGroupBounds(t *testing.T) {
	components := []Component{
		rect("a", 10, 20, 100, 50),
		rect("b", 60, 40, 100, 50),
	}

	g := GroupBounds(components)
	want := GroupRect{X: 10, Y: 20, Width: 150, Height: 70}
	if g != want {
		t.Errorf("GroupBounds() = %+v, want %+v", g, want)
	}

	if empty := GroupBounds(nil); empty != (GroupRect{}) {
		t.Errorf("GroupBounds(nil) = %+v, want zero rect", empty)
	}
}
