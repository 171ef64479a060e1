// Package layout analyzes a sketch into a structured, human-readable
// description of component positions, spatial relationships, and regional
// grouping. The analysis is the context handed to the operation proposer;
// it is derived state, recomputed on every pipeline run and never persisted.
//
// Analysis is a pure function of the component list: identical input always
// produces identical output, including the ordering of every slice, which
// makes the package suitable for snapshot-based testing.
package layout

import (
	"fmt"
	"strings"

	"github.com/websketch/websketch/pkg/sketch"
)

// Relationship classifications between a pair of components.
const (
	RelAbove       = "above"
	RelBelow       = "below"
	RelLeft        = "left"
	RelRight       = "right"
	RelOverlapping = "overlapping"
	RelAligned     = "aligned"
)

// alignThreshold is the maximum |x1-x2| for two components to count as
// left-edge aligned, in pixels.
const alignThreshold = 20.0

// ComponentDescription summarizes one component's placement.
type ComponentDescription struct {
	ID          string `json:"id"`
	Kind        string `json:"type"`
	Position    string `json:"position"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

// Relationship records how one component sits relative to another.
// Distance is set only for above/below/left/right classifications.
type Relationship struct {
	Component1   string   `json:"component1"`
	Component2   string   `json:"component2"`
	Relationship string   `json:"relationship"`
	Distance     *float64 `json:"distance,omitempty"`
}

// Group is a named region of the sketch: the ids it contains and their
// collective bounding box.
type Group struct {
	Components []string         `json:"components"`
	Bounds     sketch.GroupRect `json:"bounds"`
}

// Stats aggregates layout-level measurements.
type Stats struct {
	CanvasWidth    float64        `json:"canvasWidth"`
	CanvasHeight   float64        `json:"canvasHeight"`
	ComponentCount int            `json:"componentCount"`
	ComponentKinds map[string]int `json:"componentTypes"`
	LeftColumn     *Group         `json:"leftColumn,omitempty"`
	RightColumn    *Group         `json:"rightColumn,omitempty"`
	TopSection     *Group         `json:"topSection,omitempty"`
	BottomSection  *Group         `json:"bottomSection,omitempty"`
}

// Analysis is the complete structured description of a sketch.
type Analysis struct {
	Description          string                 `json:"description"`
	Components           []ComponentDescription `json:"components"`
	SpatialRelationships []Relationship         `json:"spatialRelationships"`
	LayoutStats          Stats                  `json:"layoutStats"`
}

// Analyze produces the layout analysis for a component list. An empty list
// yields a canned empty analysis, never an error.
func Analyze(components []sketch.Component) Analysis {
	if len(components) == 0 {
		return Analysis{
			Description:          "Empty sketch with no components",
			Components:           []ComponentDescription{},
			SpatialRelationships: []Relationship{},
			LayoutStats: Stats{
				ComponentKinds: map[string]int{},
			},
		}
	}

	bounds := sketch.UnionBounds(components)

	descriptions := make([]ComponentDescription, len(components))
	for i, c := range components {
		descriptions[i] = describeComponent(c, bounds)
	}

	relationships := identifyRelationships(components)
	stats := analyzeStructure(components, bounds)

	return Analysis{
		Description:          generateDescription(stats, relationships),
		Components:           descriptions,
		SpatialRelationships: relationships,
		LayoutStats:          stats,
	}
}

// describeComponent renders a one-line placement summary for a component,
// bucketing its normalized position into thirds on each axis.
func describeComponent(c sketch.Component, bounds sketch.Bounds) ComponentDescription {
	canvasWidth := bounds.Width()
	canvasHeight := bounds.Height()

	var nx, ny float64
	if canvasWidth > 0 {
		nx = (c.X - bounds.MinX) / canvasWidth
	}
	if canvasHeight > 0 {
		ny = (c.Y - bounds.MinY) / canvasHeight
	}

	var position string
	switch {
	case nx < 0.33:
		position = "left side"
	case nx > 0.66:
		position = "right side"
	default:
		position = "center"
	}
	switch {
	case ny < 0.33:
		position += ", top section"
	case ny > 0.66:
		position += ", bottom section"
	default:
		position += ", middle section"
	}

	size := fmt.Sprintf("%dx%dpx", int(c.Width), int(c.Height))

	return ComponentDescription{
		ID:       c.ID,
		Kind:     string(c.Kind),
		Position: position,
		Size:     size,
		Description: fmt.Sprintf("%s at %s (%.1f%%, %.1f%%), size %s",
			c.Kind, position, nx*100, ny*100, size),
	}
}

// identifyRelationships classifies every unordered pair of components.
// Overlap short-circuits the directional checks for a pair; the aligned
// check is independent, so a pair can produce more than one record.
func identifyRelationships(components []sketch.Component) []Relationship {
	relationships := []Relationship{}

	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			a, b := components[i], components[j]

			if sketch.Overlaps(a, b) {
				relationships = append(relationships, Relationship{
					Component1:   a.ID,
					Component2:   b.ID,
					Relationship: RelOverlapping,
				})
				continue
			}

			// Above/below only counts when the pair shares more than half
			// of the narrower component's width horizontally.
			horizontalOverlap := max(0, min(a.Right(), b.Right())-max(a.X, b.X))
			if horizontalOverlap > min(a.Width, b.Width)*0.5 {
				switch {
				case a.Bottom() < b.Y:
					d := b.Y - a.Bottom()
					relationships = append(relationships, Relationship{
						Component1: a.ID, Component2: b.ID,
						Relationship: RelAbove, Distance: &d,
					})
				case b.Bottom() < a.Y:
					d := a.Y - b.Bottom()
					relationships = append(relationships, Relationship{
						Component1: a.ID, Component2: b.ID,
						Relationship: RelBelow, Distance: &d,
					})
				}
			}

			// Left/right is the symmetric test on shared height.
			verticalOverlap := max(0, min(a.Bottom(), b.Bottom())-max(a.Y, b.Y))
			if verticalOverlap > min(a.Height, b.Height)*0.5 {
				switch {
				case a.Right() < b.X:
					d := b.X - a.Right()
					relationships = append(relationships, Relationship{
						Component1: a.ID, Component2: b.ID,
						Relationship: RelLeft, Distance: &d,
					})
				case b.Right() < a.X:
					d := a.X - b.Right()
					relationships = append(relationships, Relationship{
						Component1: a.ID, Component2: b.ID,
						Relationship: RelRight, Distance: &d,
					})
				}
			}

			if abs(a.X-b.X) < alignThreshold {
				relationships = append(relationships, Relationship{
					Component1:   a.ID,
					Component2:   b.ID,
					Relationship: RelAligned,
				})
			}
		}
	}

	return relationships
}

// analyzeStructure partitions the sketch into left/right columns and
// top/bottom sections by each component's center relative to the canvas
// midlines, and tallies components by kind.
func analyzeStructure(components []sketch.Component, bounds sketch.Bounds) Stats {
	stats := Stats{
		CanvasWidth:    bounds.Width(),
		CanvasHeight:   bounds.Height(),
		ComponentCount: len(components),
		ComponentKinds: map[string]int{},
	}
	for _, c := range components {
		stats.ComponentKinds[string(c.Kind)]++
	}

	var left, right, top, bottom []sketch.Component
	for _, c := range components {
		if c.CenterX() < bounds.MidX() {
			left = append(left, c)
		} else {
			right = append(right, c)
		}
		if c.CenterY() < bounds.MidY() {
			top = append(top, c)
		} else {
			bottom = append(bottom, c)
		}
	}

	stats.LeftColumn = groupOf(left)
	stats.RightColumn = groupOf(right)
	stats.TopSection = groupOf(top)
	stats.BottomSection = groupOf(bottom)

	return stats
}

func groupOf(components []sketch.Component) *Group {
	if len(components) == 0 {
		return nil
	}
	ids := make([]string, len(components))
	for i, c := range components {
		ids[i] = c.ID
	}
	return &Group{Components: ids, Bounds: sketch.GroupBounds(components)}
}

// generateDescription assembles the natural-language summary. Kind counts
// are listed in first-appearance order so the output is deterministic.
func generateDescription(stats Stats, relationships []Relationship) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("The sketch contains %d components:", stats.ComponentCount))

	for _, kind := range kindOrder(stats) {
		count := stats.ComponentKinds[kind]
		plural := ""
		if count > 1 {
			plural = "s"
		}
		parts = append(parts, fmt.Sprintf("- %d %s%s", count, kind, plural))
	}

	if stats.LeftColumn != nil && stats.RightColumn != nil {
		parts = append(parts, fmt.Sprintf(
			"The layout has two columns: left column with %d components, right column with %d components.",
			len(stats.LeftColumn.Components), len(stats.RightColumn.Components)))
	}

	if stats.TopSection != nil && stats.BottomSection != nil {
		parts = append(parts, fmt.Sprintf(
			"The layout is divided into top section (%d components) and bottom section (%d components).",
			len(stats.TopSection.Components), len(stats.BottomSection.Components)))
	}

	aligned := 0
	for _, r := range relationships {
		if r.Relationship == RelAligned {
			aligned++
		}
	}
	if aligned > 0 {
		parts = append(parts, fmt.Sprintf("There are %d aligned component pairs.", aligned))
	}

	return strings.Join(parts, " ")
}

// kindOrder returns the kinds present in stats, ordered by their first
// appearance in the canonical kind list.
func kindOrder(stats Stats) []string {
	var order []string
	for _, k := range sketch.Kinds {
		if stats.ComponentKinds[string(k)] > 0 {
			order = append(order, string(k))
		}
	}
	return order
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
