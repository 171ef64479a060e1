package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/websketch/websketch/pkg/sketch"
)

// WriteJSON encodes a sketch as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(components []sketch.Component, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(components); err != nil {
		return fmt.Errorf("encode sketch: %w", err)
	}
	return nil
}

// SaveFile writes a sketch to the file at path, creating or truncating it.
func SaveFile(components []sketch.Component, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sketch file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(components, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
