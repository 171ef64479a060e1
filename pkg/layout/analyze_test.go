package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/websketch/websketch/pkg/sketch"
)

func comp(id string, kind sketch.Kind, x, y, w, h float64) sketch.Component {
	return sketch.New(id, kind, x, y, w, h, nil)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)

	if a.LayoutStats.ComponentCount != 0 {
		t.Errorf("ComponentCount = %d, want 0", a.LayoutStats.ComponentCount)
	}
	if len(a.SpatialRelationships) != 0 {
		t.Errorf("got %d relationships, want 0", len(a.SpatialRelationships))
	}
	if a.Description != "Empty sketch with no components" {
		t.Errorf("Description = %q", a.Description)
	}
	if a.LayoutStats.LeftColumn != nil || a.LayoutStats.TopSection != nil {
		t.Error("empty analysis should have no groups")
	}
}

func TestAnalyzeSingleComponent(t *testing.T) {
	a := Analyze([]sketch.Component{comp("only", sketch.KindHeading, 50, 50, 200, 40)})

	if a.LayoutStats.ComponentCount != 1 {
		t.Errorf("ComponentCount = %d, want 1", a.LayoutStats.ComponentCount)
	}
	if len(a.SpatialRelationships) != 0 {
		t.Errorf("single component produced %d relationships", len(a.SpatialRelationships))
	}
	// Canvas degenerates to the component's own box.
	if a.LayoutStats.CanvasWidth != 200 || a.LayoutStats.CanvasHeight != 40 {
		t.Errorf("canvas = %gx%g, want 200x40",
			a.LayoutStats.CanvasWidth, a.LayoutStats.CanvasHeight)
	}
}

func TestRelationshipOverlappingWins(t *testing.T) {
	a := Analyze([]sketch.Component{
		comp("a", sketch.KindContainer, 0, 0, 100, 100),
		comp("b", sketch.KindButton, 50, 50, 100, 100),
	})

	var overlapping, directional int
	for _, r := range a.SpatialRelationships {
		switch r.Relationship {
		case RelOverlapping:
			overlapping++
		case RelAbove, RelBelow, RelLeft, RelRight:
			directional++
		}
	}
	if overlapping != 1 {
		t.Errorf("overlapping count = %d, want 1", overlapping)
	}
	// Overlap terminates directional checks for the pair.
	if directional != 0 {
		t.Errorf("directional count = %d, want 0", directional)
	}
}

func TestRelationshipAboveBelow(t *testing.T) {
	// Stacked with full horizontal overlap, 30px apart.
	a := Analyze([]sketch.Component{
		comp("top", sketch.KindHeading, 100, 0, 200, 40),
		comp("bottom", sketch.KindText, 100, 70, 200, 40),
	})

	var above *Relationship
	for i := range a.SpatialRelationships {
		if a.SpatialRelationships[i].Relationship == RelAbove {
			above = &a.SpatialRelationships[i]
		}
	}
	if above == nil {
		t.Fatal("no above relationship found")
	}
	if above.Component1 != "top" || above.Component2 != "bottom" {
		t.Errorf("above pair = (%s, %s)", above.Component1, above.Component2)
	}
	if above.Distance == nil || *above.Distance != 30 {
		t.Errorf("distance = %v, want 30", above.Distance)
	}
}

func TestRelationshipLeftRight(t *testing.T) {
	// Side by side with full vertical overlap, 44px apart.
	a := Analyze([]sketch.Component{
		comp("west", sketch.KindInput, 0, 100, 300, 50),
		comp("east", sketch.KindButton, 344, 100, 150, 50),
	})

	var left *Relationship
	for i := range a.SpatialRelationships {
		if a.SpatialRelationships[i].Relationship == RelLeft {
			left = &a.SpatialRelationships[i]
		}
	}
	if left == nil {
		t.Fatal("no left relationship found")
	}
	if left.Distance == nil || *left.Distance != 44 {
		t.Errorf("distance = %v, want 44", left.Distance)
	}
}

func TestAlignedIsNotExclusive(t *testing.T) {
	// Same x within the 20px threshold AND stacked vertically: the pair
	// must produce both an above and an aligned record.
	a := Analyze([]sketch.Component{
		comp("one", sketch.KindInput, 100, 0, 200, 40),
		comp("two", sketch.KindInput, 110, 100, 200, 40),
	})

	kinds := map[string]int{}
	for _, r := range a.SpatialRelationships {
		kinds[r.Relationship]++
	}
	if kinds[RelAligned] != 1 {
		t.Errorf("aligned count = %d, want 1", kinds[RelAligned])
	}
	if kinds[RelAbove] != 1 {
		t.Errorf("above count = %d, want 1", kinds[RelAbove])
	}
}

func TestAlignedThreshold(t *testing.T) {
	tests := []struct {
		name    string
		x2      float64
		aligned bool
	}{
		{"identical x", 100, true},
		{"within threshold", 119, true},
		{"at threshold", 120, false},
		{"beyond threshold", 150, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze([]sketch.Component{
				comp("one", sketch.KindText, 100, 0, 50, 30),
				comp("two", sketch.KindText, tt.x2, 200, 50, 30),
			})
			found := false
			for _, r := range a.SpatialRelationships {
				if r.Relationship == RelAligned {
					found = true
				}
			}
			if found != tt.aligned {
				t.Errorf("aligned = %v, want %v", found, tt.aligned)
			}
		})
	}
}

func TestColumnsAndSections(t *testing.T) {
	a := Analyze([]sketch.Component{
		comp("nav", sketch.KindNavigationBox, 0, 0, 100, 400),
		comp("body", sketch.KindContainer, 300, 0, 300, 300),
		comp("footer", sketch.KindFooter, 300, 350, 300, 50),
	})

	stats := a.LayoutStats
	if stats.LeftColumn == nil || stats.RightColumn == nil {
		t.Fatal("expected both columns")
	}
	if len(stats.LeftColumn.Components) != 1 || stats.LeftColumn.Components[0] != "nav" {
		t.Errorf("left column = %v", stats.LeftColumn.Components)
	}
	if len(stats.RightColumn.Components) != 2 {
		t.Errorf("right column = %v", stats.RightColumn.Components)
	}
	if stats.TopSection == nil || stats.BottomSection == nil {
		t.Fatal("expected both sections")
	}
	if !strings.Contains(a.Description, "two columns") {
		t.Errorf("description missing column summary: %q", a.Description)
	}
	if !strings.Contains(a.Description, "top section") {
		t.Errorf("description missing section summary: %q", a.Description)
	}
}

func TestDescriptionCounts(t *testing.T) {
	a := Analyze([]sketch.Component{
		comp("b1", sketch.KindButton, 0, 0, 100, 40),
		comp("b2", sketch.KindButton, 200, 0, 100, 40),
		comp("i1", sketch.KindInput, 0, 100, 100, 40),
	})

	if !strings.Contains(a.Description, "The sketch contains 3 components:") {
		t.Errorf("description = %q", a.Description)
	}
	if !strings.Contains(a.Description, "- 2 Buttons") {
		t.Errorf("description missing pluralized button count: %q", a.Description)
	}
	if !strings.Contains(a.Description, "- 1 Input") {
		t.Errorf("description missing input count: %q", a.Description)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	components := []sketch.Component{
		comp("a", sketch.KindHeading, 10, 10, 300, 50),
		comp("b", sketch.KindInput, 10, 80, 300, 40),
		comp("c", sketch.KindButton, 330, 80, 120, 40),
		comp("d", sketch.KindFooter, 10, 500, 440, 60),
	}

	first, err := json.Marshal(Analyze(components))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Analyze(components))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(first) != string(again) {
			t.Fatal("analysis output is not deterministic")
		}
	}
}

func TestOriginPositions(t *testing.T) {
	// Components at the canvas origin normalize to 0% on both axes.
	a := Analyze([]sketch.Component{
		comp("a", sketch.KindText, 50, 50, 100, 30),
		comp("b", sketch.KindText, 50, 50, 100, 30),
	})

	for _, d := range a.Components {
		if !strings.Contains(d.Description, "(0.0%, 0.0%)") {
			t.Errorf("description = %q, want 0%% positions", d.Description)
		}
	}
}
