// Package pkg provides the core libraries for the Websketch sketch-editing agent.
//
// # Overview
//
// Websketch turns natural-language instructions into concrete layout
// operations on UI wireframe sketches. A sketch is a flat list of typed,
// positioned rectangles; the agent analyzes it, asks a language model for an
// operation batch, validates the batch against the current sketch, and
// executes it atomically.
//
// # Architecture
//
// The typical data flow through a single edit:
//
//	Sketch + instruction (HTTP API or CLI)
//	         ↓
//	    [layout] package (spatial analysis)
//	         ↓
//	    [llm] package (operation proposal)
//	         ↓
//	    [ops] package (validate + execute)
//	         ↓
//	    [session] package (persist history)
//
// The [agent] package orchestrates these stages as an explicit state
// machine; any stage failure rolls the session back to its last good sketch.
//
// # Main Packages
//
// [sketch] - The component model: kinds, size floors, geometry helpers, and
// deterministic id generation.
//
// [layout] - Pure spatial analysis of a component list: positions,
// pairwise relationships, and regional grouping. Its output is the context
// handed to the model.
//
// [ops] - Edit operations (move, resize, add, delete, modify, align,
// distribute), their all-or-nothing batch validation, and the pure batch
// executor.
//
// [llm] - The operation proposer interface and its OpenAI-backed
// implementation, including response parsing with code-fence stripping.
//
// [vision] - Component detection from uploaded wireframe images, built on
// the same proposer interface with a vision-capable model.
//
// [agent] - The pipeline state machine tying the stages together, with
// session resolution and error rollback.
//
// [session] - Session persistence with memory, Redis, MongoDB, and file
// backends. All backends share one TTL and update semantics.
//
// [io] - Sketch file reading and writing with structural validation.
//
// [render] - SVG wireframe previews of a sketch.
//
// [retry] - Bounded retry with transient/permanent error classification,
// used by the OpenAI client.
//
// [errors] - The error code taxonomy shared by every package, plus input
// validation helpers.
//
// [observability] - Optional hook registry for pipeline, session, and model
// instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...         # All tests
//	go test ./pkg/ops/...     # Specific package
//
// [sketch]: https://pkg.go.dev/github.com/websketch/websketch/pkg/sketch
// [layout]: https://pkg.go.dev/github.com/websketch/websketch/pkg/layout
// [ops]: https://pkg.go.dev/github.com/websketch/websketch/pkg/ops
// [llm]: https://pkg.go.dev/github.com/websketch/websketch/pkg/llm
// [vision]: https://pkg.go.dev/github.com/websketch/websketch/pkg/vision
// [agent]: https://pkg.go.dev/github.com/websketch/websketch/pkg/agent
// [session]: https://pkg.go.dev/github.com/websketch/websketch/pkg/session
// [io]: https://pkg.go.dev/github.com/websketch/websketch/pkg/io
// [render]: https://pkg.go.dev/github.com/websketch/websketch/pkg/render
// [retry]: https://pkg.go.dev/github.com/websketch/websketch/pkg/retry
// [errors]: https://pkg.go.dev/github.com/websketch/websketch/pkg/errors
// [observability]: https://pkg.go.dev/github.com/websketch/websketch/pkg/observability
package pkg
