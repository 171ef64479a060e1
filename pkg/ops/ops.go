// Package ops defines the edit operations that transform a sketch, their
// precondition checks, and a pure batch executor.
//
// Operations are ephemeral: the proposer creates a batch, the pipeline
// validates and executes it exactly once, and the only durable trace is the
// session's append-only operation history. Validation is all-or-nothing over
// the whole batch; execution applies the batch atomically, so callers see
// either the fully-applied result or the untouched input.
package ops

// Type identifies an operation variant.
type Type string

// The operation variants a proposer may emit.
const (
	OpMove       Type = "move"
	OpResize     Type = "resize"
	OpAdd        Type = "add"
	OpDelete     Type = "delete"
	OpModify     Type = "modify"
	OpAlign      Type = "align"
	OpDistribute Type = "distribute"
)

// Alignment names the shared edge or axis for an align operation.
type Alignment string

// Valid alignments.
const (
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignCenter Alignment = "center"
	AlignTop    Alignment = "top"
	AlignBottom Alignment = "bottom"
)

// validAlignments is the set of accepted alignment names.
var validAlignments = map[Alignment]bool{
	AlignLeft:   true,
	AlignRight:  true,
	AlignCenter: true,
	AlignTop:    true,
	AlignBottom: true,
}

// validTypes is the set of accepted operation types.
var validTypes = map[Type]bool{
	OpMove:       true,
	OpResize:     true,
	OpAdd:        true,
	OpDelete:     true,
	OpModify:     true,
	OpAlign:      true,
	OpDistribute: true,
}

// Operation is a single requested edit. It is a tagged record: Type selects
// the variant, and the remaining fields are optional payload whose presence
// is enforced per variant by [Validate]. Numeric fields are pointers so a
// missing value is distinguishable from zero.
type Operation struct {
	Type          Type           `json:"type" bson:"type"`
	ComponentID   string         `json:"componentId,omitempty" bson:"componentId,omitempty"`
	ComponentType string         `json:"componentType,omitempty" bson:"componentType,omitempty"`
	X             *float64       `json:"x,omitempty" bson:"x,omitempty"`
	Y             *float64       `json:"y,omitempty" bson:"y,omitempty"`
	Width         *float64       `json:"width,omitempty" bson:"width,omitempty"`
	Height        *float64       `json:"height,omitempty" bson:"height,omitempty"`
	Props         map[string]any `json:"props,omitempty" bson:"props,omitempty"`
	TargetIDs     []string       `json:"targetIds,omitempty" bson:"targetIds,omitempty"`
	Alignment     Alignment      `json:"alignment,omitempty" bson:"alignment,omitempty"`
	Spacing       *float64       `json:"spacing,omitempty" bson:"spacing,omitempty"`
}

// Float returns a pointer to v, for building operations in code and tests.
func Float(v float64) *float64 { return &v }
