// Package agent runs the sketch-editing pipeline.
//
// A run is a deterministic walk through the steps
// imageAnalyze → analyze → modify → validate → execute → complete, with
// error reachable from every step. The two non-deterministic collaborators
// (the proposing model and the image detector) sit behind interfaces; all
// routing, validation, and execution is plain local code.
//
// # Usage
//
//	runner := agent.NewRunner(proposer, detector, store, logger)
//	result, err := runner.Run(ctx, agent.Request{
//	    Message:       "move the button below the input",
//	    CurrentSketch: components,
//	})
//
// On failure Run still returns a Result: its sketch is the session's last
// known good state, so callers can always hand the client something valid.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/layout"
	"github.com/websketch/websketch/pkg/llm"
	"github.com/websketch/websketch/pkg/observability"
	"github.com/websketch/websketch/pkg/ops"
	"github.com/websketch/websketch/pkg/session"
	"github.com/websketch/websketch/pkg/sketch"
	"github.com/websketch/websketch/pkg/vision"
)

// Request is one editing turn: a user intent against a sketch, optionally
// carrying an image to bootstrap the sketch from.
type Request struct {
	SessionID      string
	Message        string
	CurrentSketch  []sketch.Component
	MessageHistory []session.Message
	ImageData      []byte
}

// Result is the outcome of a run. On success ModifiedSketch is the executed
// batch's output; on failure it is the fallback sketch the session was
// rolled back to.
type Result struct {
	Success        bool               `json:"success"`
	ModifiedSketch []sketch.Component `json:"modifiedSketch"`
	Operations     []ops.Operation    `json:"operations"`
	Reasoning      string             `json:"reasoning"`
	Description    string             `json:"description"`
	SessionID      string             `json:"sessionId"`
}

// Runner executes pipeline runs against a session store.
//
// The Runner is stateless between runs; multiple goroutines can share one,
// though callers should serialize runs that target the same session id.
type Runner struct {
	proposer llm.Proposer
	detector vision.Detector
	store    session.Store
	logger   *log.Logger
}

// NewRunner creates a runner. detector may be nil if image requests are
// never made; logger nil means the default logger.
func NewRunner(proposer llm.Proposer, detector vision.Detector, store session.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		proposer: proposer,
		detector: detector,
		store:    store,
		logger:   logger,
	}
}

// Run executes the pipeline for one request. The session is resolved first
// (created when the request carries no id, or when the id no longer exists),
// then the state machine runs to a terminal step, and finally the outcome is
// persisted: the modified sketch and operation batch on success, a rollback
// to the last known good sketch on failure.
//
// The returned error is the pipeline's terminal error, if any; the Result is
// non-nil either way.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	state, err := r.resolveSession(ctx, req)
	if err != nil {
		return &Result{
			Success:        false,
			ModifiedSketch: req.CurrentSketch,
			Operations:     []ops.Operation{},
			SessionID:      req.SessionID,
		}, err
	}

	runStart := time.Now()
	observability.Pipeline().OnRunStart(ctx, state.SessionID, len(state.CurrentSketch))

	for !Terminal(state.Step) {
		step := state.Step
		stepStart := time.Now()
		observability.Pipeline().OnStepStart(ctx, state.SessionID, string(step))

		switch step {
		case StepImageAnalyze:
			r.stageImageAnalyze(ctx, state)
		case StepAnalyze:
			r.stageAnalyze(ctx, state)
		case StepModify:
			r.stageModify(ctx, state)
		case StepValidate:
			r.stageValidate(ctx, state)
		case StepExecute:
			r.stageExecute(ctx, state)
		}

		observability.Pipeline().OnStepComplete(ctx, state.SessionID, string(step), time.Since(stepStart), state.Err)
	}

	result, err := r.finish(ctx, state, req)
	observability.Pipeline().OnRunComplete(ctx, state.SessionID, len(result.Operations), time.Since(runStart), err)
	return result, err
}

// resolveSession loads or creates the session and builds the initial run
// state from it. A request id that no longer resolves is recreated with the
// request's sketch, so expired sessions degrade to a fresh start instead of
// a hard failure.
func (r *Runner) resolveSession(ctx context.Context, req Request) (*State, error) {
	state := &State{
		UserMessage:    req.Message,
		CurrentSketch:  sketch.Clone(req.CurrentSketch),
		MessageHistory: req.MessageHistory,
		ImageData:      req.ImageData,
		InitialSketch:  sketch.Clone(req.CurrentSketch),
		LatestSketch:   sketch.Clone(req.CurrentSketch),
	}

	id := req.SessionID
	if id == "" {
		created, err := r.store.Create(ctx, req.CurrentSketch, "")
		if err != nil {
			return nil, err
		}
		observability.Session().OnSessionCreate(ctx, created)
		r.logger.Info("created session", "session_id", created)
		state.SessionID = created
	} else {
		sess, err := r.store.Get(ctx, id)
		switch {
		case session.IsNotFound(err):
			if _, err := r.store.Create(ctx, req.CurrentSketch, id); err != nil {
				return nil, err
			}
			observability.Session().OnSessionCreate(ctx, id)
			r.logger.Info("recreated expired session", "session_id", id)
		case err != nil:
			return nil, err
		default:
			if len(sess.CurrentSketch) > 0 {
				state.CurrentSketch = sess.CurrentSketch
			}
			state.InitialSketch = sess.InitialSketch
			state.LatestSketch = sess.LatestSketch
		}
		state.SessionID = id
	}

	if len(state.ImageData) > 0 {
		state.Step = StepImageAnalyze
	} else {
		state.Step = StepAnalyze
	}
	return state, nil
}

// finish persists the run outcome and builds the result. On success the
// session advances to the modified sketch; on failure it is rolled back to
// the last successfully executed sketch (or the initial one). A persistence
// failure during rollback is logged but never masks the pipeline error.
func (r *Runner) finish(ctx context.Context, state *State, req Request) (*Result, error) {
	if state.Step == StepError {
		fallback := state.LatestSketch
		if len(fallback) == 0 {
			fallback = state.InitialSketch
		}

		err := r.store.Update(ctx, state.SessionID, session.UpdateRequest{CurrentSketch: fallback})
		observability.Session().OnSessionUpdate(ctx, state.SessionID, err)
		if err != nil {
			r.logger.Error("failed to persist fallback sketch",
				"session_id", state.SessionID, "error", err)
		}

		r.logger.Error("pipeline run failed",
			"session_id", state.SessionID, "error", state.Err)

		return &Result{
			Success:        false,
			ModifiedSketch: fallback,
			Operations:     []ops.Operation{},
			Reasoning:      "Error: " + errors.UserMessage(state.Err),
			Description:    "Request failed: " + errors.UserMessage(state.Err),
			SessionID:      state.SessionID,
		}, state.Err
	}

	modified := state.ModifiedSketch
	if modified == nil {
		modified = state.CurrentSketch
	}

	update := session.UpdateRequest{
		CurrentSketch: modified,
		Operations:    state.Operations,
	}
	if strings.TrimSpace(state.UserMessage) != "" {
		update.Message = &session.Message{Role: "user", Content: state.UserMessage}
	}
	err := r.store.Update(ctx, state.SessionID, update)
	observability.Session().OnSessionUpdate(ctx, state.SessionID, err)
	if err != nil {
		r.logger.Error("failed to persist session update",
			"session_id", state.SessionID, "error", err)
	}

	operations := state.Operations
	if operations == nil {
		operations = []ops.Operation{}
	}
	result := &Result{
		Success:        true,
		ModifiedSketch: modified,
		Operations:     operations,
		SessionID:      state.SessionID,
	}
	if state.Modification != nil {
		result.Reasoning = state.Modification.Reasoning
		result.Description = state.Modification.Description
	}

	r.logger.Info("pipeline run complete",
		"session_id", state.SessionID,
		"operations", len(operations),
		"components", len(modified))
	return result, nil
}

// =============================================================================
// Pipeline Stages
// =============================================================================

// stageImageAnalyze bootstraps the sketch from an uploaded image. A request
// without image data routes straight past this stage; an image-only request
// (no text intent) terminates after the wireframe is generated, since there
// are no edit operations to run.
func (r *Runner) stageImageAnalyze(ctx context.Context, state *State) {
	if len(state.ImageData) == 0 {
		state.Step = StepAnalyze
		return
	}
	if r.detector == nil {
		state.fail(errors.New(errors.ErrCodeImageAnalysis, "no image detector configured"))
		return
	}

	r.logger.Info("analyzing image", "session_id", state.SessionID)

	components, err := r.detector.Detect(ctx, state.ImageData)
	if err != nil {
		state.fail(err)
		return
	}

	state.CurrentSketch = components
	state.LatestSketch = components
	state.InitialSketch = components
	state.ImageData = nil

	if strings.TrimSpace(state.UserMessage) == "" {
		state.ModifiedSketch = components
		state.Step = StepComplete
	} else {
		state.Step = Next(StepImageAnalyze)
	}

	r.logger.Info("image analysis complete",
		"session_id", state.SessionID, "components", len(components))
}

// stageAnalyze runs the layout analyzer over the current sketch.
func (r *Runner) stageAnalyze(ctx context.Context, state *State) {
	r.logger.Info("analyzing sketch layout", "session_id", state.SessionID)

	analysis := layout.Analyze(state.CurrentSketch)
	state.Analysis = &analysis
	state.Step = Next(StepAnalyze)

	r.logger.Info("layout analysis complete",
		"session_id", state.SessionID,
		"components", state.Analysis.LayoutStats.ComponentCount)
}

// stageModify asks the proposer for an operation batch. A proposal with zero
// operations is a no-op edit and completes the run with the sketch unchanged.
func (r *Runner) stageModify(ctx context.Context, state *State) {
	r.logger.Info("generating modifications", "session_id", state.SessionID)

	raw, err := r.proposer.Propose(ctx, systemPrompt,
		buildUserPrompt(state.Analysis, state.CurrentSketch, state.UserMessage))
	if err != nil {
		state.fail(err)
		return
	}

	mod, err := llm.ParseModification(raw)
	if err != nil {
		state.fail(err)
		return
	}

	state.Modification = mod
	state.Operations = mod.Operations

	if len(mod.Operations) == 0 {
		state.ModifiedSketch = state.CurrentSketch
		state.Step = StepComplete
	} else {
		state.Step = Next(StepModify)
	}

	r.logger.Info("modification generated",
		"session_id", state.SessionID, "operations", len(state.Operations))
}

// stageValidate checks the whole batch against the current sketch.
func (r *Runner) stageValidate(ctx context.Context, state *State) {
	r.logger.Info("validating operations", "session_id", state.SessionID)

	if len(state.Operations) == 0 {
		state.fail(errors.New(errors.ErrCodeValidation, "no operations to validate"))
		return
	}
	if err := ops.Validate(state.CurrentSketch, state.Operations); err != nil {
		state.fail(err)
		return
	}
	state.Step = Next(StepValidate)
}

// stageExecute applies the validated batch. Success advances LatestSketch,
// making the result the new rollback target for later runs.
func (r *Runner) stageExecute(ctx context.Context, state *State) {
	r.logger.Info("executing operations", "session_id", state.SessionID)

	modified, err := ops.Apply(state.CurrentSketch, state.Operations)
	if err != nil {
		state.fail(err)
		return
	}

	state.ModifiedSketch = modified
	state.LatestSketch = modified
	state.Step = Next(StepExecute)

	r.logger.Info("operations executed",
		"session_id", state.SessionID, "components", len(modified))
}

func (s *State) fail(err error) {
	s.Err = err
	s.Step = StepError
}
