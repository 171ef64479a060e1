// Package vision turns uploaded wireframe images into sketch components.
//
// Detection is delegated to a vision-capable model behind the [llm.Proposer]
// interface: the image is attached to the prompt, the model returns a JSON
// box list, and this package converts the boxes into placed components with
// fresh ids and clamped dimensions.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/llm"
	"github.com/websketch/websketch/pkg/sketch"
)

// Detector extracts wireframe components from an image.
type Detector interface {
	Detect(ctx context.Context, imageData []byte) ([]sketch.Component, error)
}

// LLMDetector implements Detector on top of a vision-capable Proposer.
type LLMDetector struct {
	proposer llm.Proposer
}

// NewLLMDetector creates a Detector backed by the given proposer. The
// proposer's model must accept image attachments.
func NewLLMDetector(proposer llm.Proposer) *LLMDetector {
	return &LLMDetector{proposer: proposer}
}

const detectSystemPrompt = `You are an expert at analyzing UI layouts and wireframes.
Analyze the provided image and identify the UI components it contains.

For each component, report:
- Component type (Container, Button, Input, ImagePlaceholder, Text, Heading, NavigationBox, List, Table, HorizontalLine, Footer)
- Bounding box in pixels: x, y (top-left origin), width, height

Return a JSON object with this structure:
{
  "components": [
    {
      "componentType": "Button",
      "x": 10,
      "y": 20,
      "width": 150,
      "height": 40,
      "properties": {}
    }
  ],
  "layoutDescription": "Overall description of the layout"
}

Be accurate and only identify components you're confident about.
Respond ONLY with valid JSON, no markdown formatting or code blocks.`

type detectedBox struct {
	ComponentType string         `json:"componentType"`
	X             float64        `json:"x"`
	Y             float64        `json:"y"`
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	Properties    map[string]any `json:"properties"`
}

type detectResponse struct {
	Components        []detectedBox `json:"components"`
	LayoutDescription string        `json:"layoutDescription"`
}

var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Detect implements Detector. The image must be PNG or JPEG; its decoded
// dimensions are passed to the model so box coordinates come back in image
// pixel space.
func (d *LLMDetector) Detect(ctx context.Context, imageData []byte) ([]sketch.Component, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageAnalysis, err, "unsupported or corrupt image")
	}

	mimeType := "image/png"
	if format == "jpeg" {
		mimeType = "image/jpeg"
	}

	userPrompt := fmt.Sprintf(
		"Analyze this UI image (width: %dpx, height: %dpx).\n\n"+
			"Identify every UI component and its bounding box. Consider position and size "+
			"relative to the image, visual appearance, and common UI patterns.\n\n"+
			"Return the JSON analysis as specified.",
		cfg.Width, cfg.Height,
	)

	raw, err := d.proposer.ProposeWithImage(ctx, detectSystemPrompt, userPrompt, imageData, mimeType)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageAnalysis, err, "vision model call failed")
	}

	return parseDetections(raw)
}

// parseDetections converts the model's box list into components. Unknown
// component types fall back to Container rather than failing the upload;
// boxes get fresh ids and floor-clamped dimensions.
func parseDetections(raw string) ([]sketch.Component, error) {
	content := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	var parsed detectResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageAnalysis, err, "failed to parse vision response as JSON")
	}

	components := make([]sketch.Component, 0, len(parsed.Components))
	for _, box := range parsed.Components {
		kind, ok := sketch.ParseKind(box.ComponentType)
		if !ok {
			kind = sketch.KindContainer
		}
		components = append(components, sketch.New(sketch.NewID(), kind, box.X, box.Y, box.Width, box.Height, box.Properties))
	}
	return components, nil
}
