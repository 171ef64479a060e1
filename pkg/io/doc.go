// Package io reads and writes sketch files.
//
// A sketch file is a JSON array of components, the same wire format the HTTP
// API accepts:
//
//	[
//	  {"id": "button-1", "type": "Button", "x": 544, "y": 36, "width": 150, "height": 53},
//	  {"id": "input-1", "type": "Input", "x": 100, "y": 200, "width": 428, "height": 47}
//	]
//
// Reading validates the structure beyond what plain JSON decoding enforces:
// every component must have a non-empty id, ids must be unique, and unknown
// component types are rejected with the offending value named in the error.
// Dimensions below the canonical floors are raised on load, matching what
// the editing pipeline does at execution time, so a sketch round-tripped
// through this package is always valid input for the agent.
package io
