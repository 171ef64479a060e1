package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/websketch/websketch/pkg/sketch"
)

// ReadJSON decodes a sketch from r.
//
// The input must be a JSON array of components. Each component must have a
// non-empty, unique "id" and a known "type"; x, y, width, and height default
// to 0 when omitted. Dimensions below the canonical floors are raised on
// load, so the returned sketch is always valid pipeline input.
//
// Errors are wrapped with context naming the component that caused the
// problem.
func ReadJSON(r io.Reader) ([]sketch.Component, error) {
	var components []sketch.Component
	if err := json.NewDecoder(r).Decode(&components); err != nil {
		return nil, fmt.Errorf("decode sketch: %w", err)
	}

	seen := make(map[string]bool, len(components))
	for i, c := range components {
		if c.ID == "" {
			return nil, fmt.Errorf("component %d: missing id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("component %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true

		if _, ok := sketch.ParseKind(string(c.Kind)); !ok {
			return nil, fmt.Errorf("component %q: unknown type %q", c.ID, c.Kind)
		}

		if c.Props == nil {
			components[i].Props = map[string]any{}
		}
		components[i] = components[i].Clamp()
	}
	return components, nil
}

// LoadFile reads a sketch from the file at path.
func LoadFile(path string) ([]sketch.Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sketch file: %w", err)
	}
	defer f.Close()

	components, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return components, nil
}
