package vision

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/sketch"
)

type fakeProposer struct {
	response string
	err      error

	gotUser string
	gotMime string
}

func (f *fakeProposer) Propose(ctx context.Context, system, user string) (string, error) {
	return f.response, f.err
}

func (f *fakeProposer) ProposeWithImage(ctx context.Context, system, user string, img []byte, mimeType string) (string, error) {
	f.gotUser = user
	f.gotMime = mimeType
	return f.response, f.err
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	proposer := &fakeProposer{response: `{
		"components": [
			{"componentType": "Button", "x": 10, "y": 20, "width": 150, "height": 40},
			{"componentType": "Input", "x": 10, "y": 80, "width": 300, "height": 45}
		],
		"layoutDescription": "A simple form"
	}`}

	components, err := NewLLMDetector(proposer).Detect(context.Background(), testPNG(t, 640, 480))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("len(components) = %d, want 2", len(components))
	}
	if components[0].Kind != sketch.KindButton || components[1].Kind != sketch.KindInput {
		t.Errorf("kinds = %s, %s", components[0].Kind, components[1].Kind)
	}
	if components[0].ID == components[1].ID {
		t.Error("detected components share an id")
	}
	if proposer.gotMime != "image/png" {
		t.Errorf("mime = %q, want image/png", proposer.gotMime)
	}
	if !strings.Contains(proposer.gotUser, "width: 640px") || !strings.Contains(proposer.gotUser, "height: 480px") {
		t.Errorf("user prompt missing image dimensions: %q", proposer.gotUser)
	}
}

func TestDetectUnknownKindFallsBackToContainer(t *testing.T) {
	proposer := &fakeProposer{response: `{"components":[{"componentType":"Blob","x":0,"y":0,"width":100,"height":50}]}`}

	components, err := NewLLMDetector(proposer).Detect(context.Background(), testPNG(t, 100, 100))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if components[0].Kind != sketch.KindContainer {
		t.Errorf("kind = %s, want Container", components[0].Kind)
	}
}

func TestDetectClampsSmallBoxes(t *testing.T) {
	proposer := &fakeProposer{response: `{"components":[{"componentType":"Button","x":0,"y":0,"width":5,"height":1}]}`}

	components, err := NewLLMDetector(proposer).Detect(context.Background(), testPNG(t, 100, 100))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if components[0].Width != sketch.MinWidth || components[0].Height != sketch.MinHeight {
		t.Errorf("size = %gx%g, want clamped floors", components[0].Width, components[0].Height)
	}
}

func TestDetectStripsFences(t *testing.T) {
	proposer := &fakeProposer{response: "```json\n{\"components\":[{\"componentType\":\"Text\",\"x\":0,\"y\":0,\"width\":100,\"height\":30}]}\n```"}

	components, err := NewLLMDetector(proposer).Detect(context.Background(), testPNG(t, 100, 100))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(components) != 1 {
		t.Fatalf("len(components) = %d, want 1", len(components))
	}
}

func TestDetectRejectsCorruptImage(t *testing.T) {
	proposer := &fakeProposer{response: "{}"}

	_, err := NewLLMDetector(proposer).Detect(context.Background(), []byte("not an image"))
	if err == nil {
		t.Fatal("Detect() = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeImageAnalysis) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeImageAnalysis)
	}
}

func TestDetectRejectsNonJSONResponse(t *testing.T) {
	proposer := &fakeProposer{response: "I see a login form."}

	_, err := NewLLMDetector(proposer).Detect(context.Background(), testPNG(t, 100, 100))
	if err == nil {
		t.Fatal("Detect() = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeImageAnalysis) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeImageAnalysis)
	}
}
