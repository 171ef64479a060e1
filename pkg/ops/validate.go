package ops

import (
	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/sketch"
)

// Validate checks a whole batch against the current sketch before any
// execution. It is a pure predicate: the sketch and operations are never
// mutated, and the first violation fails the whole batch with a message
// naming the offending operation's index.
//
// The resize height floor is type-specific here (2px for HorizontalLine,
// 20px otherwise), matching the floors the executor clamps to.
func Validate(components []sketch.Component, operations []Operation) error {
	for i, op := range operations {
		if !validTypes[op.Type] {
			return errors.New(errors.ErrCodeValidation, "operation %d: invalid operation type %q", i, op.Type)
		}

		switch op.Type {
		case OpMove, OpResize, OpDelete, OpModify:
			if op.ComponentID == "" {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing componentId for %s", i, op.Type)
			}
			if !sketch.Contains(components, op.ComponentID) {
				return errors.New(errors.ErrCodeValidation, "operation %d: component %s not found", i, op.ComponentID)
			}
		}

		switch op.Type {
		case OpMove:
			if op.X == nil || op.Y == nil {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing x or y for move operation", i)
			}

		case OpResize:
			if op.Width == nil || op.Height == nil {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing width or height for resize operation", i)
			}
			if *op.Width < sketch.MinWidth {
				return errors.New(errors.ErrCodeValidation, "operation %d: width must be at least %dpx", i, int(sketch.MinWidth))
			}
			target, _ := sketch.Find(components, op.ComponentID)
			if floor := sketch.MinHeightFor(target.Kind); *op.Height < floor {
				return errors.New(errors.ErrCodeValidation, "operation %d: height must be at least %dpx", i, int(floor))
			}

		case OpAdd:
			if op.ComponentType == "" {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing componentType for add operation", i)
			}
			if _, ok := sketch.ParseKind(op.ComponentType); !ok {
				return errors.New(errors.ErrCodeValidation, "operation %d: invalid component type %q", i, op.ComponentType)
			}
			if op.X == nil || op.Y == nil {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing x or y for add operation", i)
			}
			if op.Width == nil || op.Height == nil {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing width or height for add operation", i)
			}

		case OpAlign, OpDistribute:
			if len(op.TargetIDs) < 2 {
				return errors.New(errors.ErrCodeValidation, "operation %d: need at least 2 targetIds for %s", i, op.Type)
			}
			for _, targetID := range op.TargetIDs {
				if !sketch.Contains(components, targetID) {
					return errors.New(errors.ErrCodeValidation, "operation %d: target component %s not found", i, targetID)
				}
			}
		}

		if op.Type == OpAlign {
			if op.Alignment == "" {
				return errors.New(errors.ErrCodeValidation, "operation %d: missing alignment for align operation", i)
			}
			if !validAlignments[op.Alignment] {
				return errors.New(errors.ErrCodeValidation, "operation %d: invalid alignment %q", i, op.Alignment)
			}
		}

		if op.Type == OpDistribute && op.Spacing == nil {
			return errors.New(errors.ErrCodeValidation, "operation %d: missing spacing for distribute operation", i)
		}
	}

	return nil
}
