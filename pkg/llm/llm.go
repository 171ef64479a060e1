// Package llm connects the agent to a language model that proposes sketch
// modifications.
//
// The [Proposer] interface is the seam between the deterministic pipeline
// and the model: the pipeline builds prompts, the proposer returns raw text,
// and [ParseModification] turns that text into a typed operation batch. Any
// OpenAI-compatible chat-completions endpoint satisfies the concrete
// implementation in this package.
package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/ops"
)

// Proposer generates modification proposals from prompts. Implementations
// must be safe for concurrent use.
type Proposer interface {
	// Propose sends a system and user prompt and returns the raw model text.
	Propose(ctx context.Context, system, user string) (string, error)

	// ProposeWithImage additionally attaches a PNG or JPEG image to the user
	// turn, for vision-capable models.
	ProposeWithImage(ctx context.Context, system, user string, image []byte, mimeType string) (string, error)
}

// Modification is a parsed model proposal: the operation batch plus the
// model's own explanation of it.
type Modification struct {
	Operations  []ops.Operation `json:"operations" bson:"operations"`
	Reasoning   string          `json:"reasoning" bson:"reasoning"`
	Description string          `json:"description" bson:"description"`
}

// Models are asked for bare JSON but routinely wrap it in markdown fences
// anyway; tolerate both.
var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ParseModification extracts a Modification from raw model output. Fenced
// code blocks are stripped before unmarshaling. A response that is not valid
// JSON, or that carries no operations field at all, fails with a
// PROPOSER_PARSE error.
func ParseModification(text string) (*Modification, error) {
	content := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	var mod Modification
	if err := json.Unmarshal([]byte(content), &mod); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProposerParse, err, "failed to parse model response as JSON")
	}
	if mod.Operations == nil {
		return nil, errors.New(errors.ErrCodeProposerParse, "model response has no operations field")
	}
	return &mod, nil
}
