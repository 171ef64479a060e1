package ops

import (
	"sort"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/sketch"
)

// Apply validates and executes a batch against the sketch. The input list is
// never mutated; each operation transforms a working copy, and the result is
// either the fully-applied batch or an error with the input left untouched.
//
// Execution re-clamps dimensions to the canonical floors regardless of what
// validation allowed, and the finished result is re-checked against the
// size invariant as a final safety net.
func Apply(components []sketch.Component, operations []Operation) ([]sketch.Component, error) {
	if err := Validate(components, operations); err != nil {
		return nil, err
	}

	working := sketch.Clone(components)

	for _, op := range operations {
		var err error
		switch op.Type {
		case OpMove:
			working = applyMove(working, op)
		case OpResize:
			working = applyResize(working, op)
		case OpAdd:
			working, err = applyAdd(working, op)
		case OpDelete:
			working = applyDelete(working, op)
		case OpModify:
			working = applyModify(working, op)
		case OpAlign:
			working = applyAlign(working, op)
		case OpDistribute:
			working = applyDistribute(working, op)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExecution, err, "failed to execute operations")
		}
	}

	for _, c := range working {
		if err := c.CheckInvariants(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExecution, err, "post-execution invariant violation")
		}
	}

	return working, nil
}

func applyMove(components []sketch.Component, op Operation) []sketch.Component {
	if op.ComponentID == "" || op.X == nil || op.Y == nil {
		return components
	}
	out := make([]sketch.Component, len(components))
	for i, c := range components {
		if c.ID == op.ComponentID {
			c.X = *op.X
			c.Y = *op.Y
		}
		out[i] = c
	}
	return out
}

func applyResize(components []sketch.Component, op Operation) []sketch.Component {
	if op.ComponentID == "" || op.Width == nil || op.Height == nil {
		return components
	}
	out := make([]sketch.Component, len(components))
	for i, c := range components {
		if c.ID == op.ComponentID {
			c.Width = *op.Width
			c.Height = *op.Height
			c = c.Clamp()
		}
		out[i] = c
	}
	return out
}

func applyAdd(components []sketch.Component, op Operation) ([]sketch.Component, error) {
	if op.ComponentType == "" || op.X == nil || op.Y == nil || op.Width == nil || op.Height == nil {
		return components, nil
	}
	kind, ok := sketch.ParseKind(op.ComponentType)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "invalid component type: %s", op.ComponentType)
	}
	added := sketch.New(sketch.NewID(), kind, *op.X, *op.Y, *op.Width, *op.Height, op.Props)
	return append(components, added), nil
}

func applyDelete(components []sketch.Component, op Operation) []sketch.Component {
	if op.ComponentID == "" {
		return components
	}
	// Deleting an unknown id is a no-op, not an error.
	out := make([]sketch.Component, 0, len(components))
	for _, c := range components {
		if c.ID != op.ComponentID {
			out = append(out, c)
		}
	}
	return out
}

func applyModify(components []sketch.Component, op Operation) []sketch.Component {
	if op.ComponentID == "" || op.Props == nil {
		return components
	}
	out := make([]sketch.Component, len(components))
	for i, c := range components {
		if c.ID == op.ComponentID {
			merged := make(map[string]any, len(c.Props)+len(op.Props))
			for k, v := range c.Props {
				merged[k] = v
			}
			for k, v := range op.Props {
				merged[k] = v
			}
			c.Props = merged
		}
		out[i] = c
	}
	return out
}

func applyAlign(components []sketch.Component, op Operation) []sketch.Component {
	if len(op.TargetIDs) < 2 || op.Alignment == "" {
		return components
	}

	targetSet := make(map[string]bool, len(op.TargetIDs))
	for _, id := range op.TargetIDs {
		targetSet[id] = true
	}
	var targets []sketch.Component
	for _, c := range components {
		if targetSet[c.ID] {
			targets = append(targets, c)
		}
	}
	if len(targets) < 2 {
		return components
	}

	// One shared coordinate per alignment type, applied to every target
	// while preserving its own size.
	var shared float64
	switch op.Alignment {
	case AlignLeft:
		shared = targets[0].X
		for _, c := range targets[1:] {
			shared = min(shared, c.X)
		}
	case AlignRight:
		shared = targets[0].Right()
		for _, c := range targets[1:] {
			shared = max(shared, c.Right())
		}
	case AlignCenter:
		sum := 0.0
		for _, c := range targets {
			sum += c.CenterX()
		}
		shared = sum / float64(len(targets))
	case AlignTop:
		shared = targets[0].Y
		for _, c := range targets[1:] {
			shared = min(shared, c.Y)
		}
	case AlignBottom:
		shared = targets[0].Bottom()
		for _, c := range targets[1:] {
			shared = max(shared, c.Bottom())
		}
	default:
		return components
	}

	out := make([]sketch.Component, len(components))
	for i, c := range components {
		if targetSet[c.ID] {
			switch op.Alignment {
			case AlignLeft:
				c.X = shared
			case AlignRight:
				c.X = shared - c.Width
			case AlignCenter:
				c.X = shared - c.Width/2
			case AlignTop:
				c.Y = shared
			case AlignBottom:
				c.Y = shared - c.Height
			}
		}
		out[i] = c
	}
	return out
}

func applyDistribute(components []sketch.Component, op Operation) []sketch.Component {
	if len(op.TargetIDs) < 2 || op.Spacing == nil {
		return components
	}

	targetSet := make(map[string]bool, len(op.TargetIDs))
	for _, id := range op.TargetIDs {
		targetSet[id] = true
	}
	var targets []sketch.Component
	for _, c := range components {
		if targetSet[c.ID] {
			targets = append(targets, c)
		}
	}
	if len(targets) < 2 {
		return components
	}

	// Cumulative left-to-right layout anchored at the leftmost target's
	// original x. Only horizontal distribution is defined.
	sort.Slice(targets, func(i, j int) bool { return targets[i].X < targets[j].X })

	placed := make(map[string]float64, len(targets))
	x := targets[0].X
	for _, c := range targets {
		placed[c.ID] = x
		x += c.Width + *op.Spacing
	}

	out := make([]sketch.Component, len(components))
	for i, c := range components {
		if newX, ok := placed[c.ID]; ok {
			c.X = newX
		}
		out[i] = c
	}
	return out
}
