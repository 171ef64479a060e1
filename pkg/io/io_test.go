package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/websketch/websketch/pkg/sketch"
)

func TestReadJSON(t *testing.T) {
	input := `[
		{"id": "button-1", "type": "Button", "x": 544, "y": 36, "width": 150, "height": 53},
		{"id": "line-1", "type": "HorizontalLine", "x": 0, "y": 100, "width": 700, "height": 2}
	]`

	components, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("got %d components, want 2", len(components))
	}
	if components[0].Kind != sketch.KindButton || components[0].Width != 150 {
		t.Errorf("component 0 = %+v", components[0])
	}
	if components[1].Height != 2 {
		t.Errorf("line height = %v, want 2 (line floor, not raised to 20)", components[1].Height)
	}
	if components[0].Props == nil {
		t.Error("missing props not defaulted to empty map")
	}
}

func TestReadJSONClampsDimensions(t *testing.T) {
	input := `[{"id": "b", "type": "Button", "x": 0, "y": 0, "width": 5, "height": 1}]`

	components, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if components[0].Width != sketch.MinWidth || components[0].Height != sketch.MinHeight {
		t.Errorf("got %v×%v, want raised to floors", components[0].Width, components[0].Height)
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "not an array",
			input:   `{"id": "a"}`,
			wantErr: "decode sketch",
		},
		{
			name:    "missing id",
			input:   `[{"type": "Button", "x": 0, "y": 0, "width": 100, "height": 40}]`,
			wantErr: "missing id",
		},
		{
			name:    "duplicate id",
			input:   `[{"id": "a", "type": "Button"}, {"id": "a", "type": "Input"}]`,
			wantErr: `duplicate id "a"`,
		},
		{
			name:    "unknown type",
			input:   `[{"id": "a", "type": "Widget"}]`,
			wantErr: `unknown type "Widget"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	components := []sketch.Component{
		sketch.New("input-1", sketch.KindInput, 100, 200, 428, 47, nil),
		sketch.New("button-1", sketch.KindButton, 544, 36, 150, 53, map[string]any{"text": "Submit"}),
	}

	var buf bytes.Buffer
	if err := WriteJSON(components, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(got) != 2 || got[1].Props["text"] != "Submit" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLoadSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.json")
	components := []sketch.Component{
		sketch.New("button-1", sketch.KindButton, 0, 0, 150, 53, nil),
	}

	if err := SaveFile(components, path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "button-1" {
		t.Errorf("LoadFile() = %+v", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadFile() error = nil for missing file")
	}
}
