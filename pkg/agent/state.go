package agent

import (
	"github.com/websketch/websketch/pkg/layout"
	"github.com/websketch/websketch/pkg/llm"
	"github.com/websketch/websketch/pkg/ops"
	"github.com/websketch/websketch/pkg/session"
	"github.com/websketch/websketch/pkg/sketch"
)

// Step identifies a pipeline stage. Runs start at StepImageAnalyze when an
// image is attached, otherwise at StepAnalyze, and always end at StepComplete
// or StepError.
type Step string

const (
	StepImageAnalyze Step = "imageAnalyze"
	StepAnalyze      Step = "analyze"
	StepModify       Step = "modify"
	StepValidate     Step = "validate"
	StepExecute      Step = "execute"
	StepComplete     Step = "complete"
	StepError        Step = "error"
)

// State is the working state threaded through one pipeline run. Stage
// functions read the fields earlier stages filled in and set Step to hand
// off; any failure sets Step to StepError with Err carrying the cause.
type State struct {
	SessionID string

	// Input
	UserMessage    string
	CurrentSketch  []sketch.Component
	MessageHistory []session.Message
	ImageData      []byte

	// Analysis step
	Analysis *layout.Analysis

	// Modification step
	Modification *llm.Modification
	Operations   []ops.Operation

	// Execution step
	ModifiedSketch []sketch.Component

	// Control
	Step Step
	Err  error

	// Fallback data
	InitialSketch []sketch.Component
	LatestSketch  []sketch.Component
}

// Next returns the step that follows the current one. Terminal steps map to
// themselves, so the run loop stops as soon as Next is a fixed point.
func Next(step Step) Step {
	switch step {
	case StepImageAnalyze:
		return StepAnalyze
	case StepAnalyze:
		return StepModify
	case StepModify:
		return StepValidate
	case StepValidate:
		return StepExecute
	case StepExecute:
		return StepComplete
	default:
		return step
	}
}

// Terminal reports whether a step ends the run.
func Terminal(step Step) bool {
	return step == StepComplete || step == StepError
}
