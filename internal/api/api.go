// Package api exposes the editing pipeline over HTTP.
//
// Routes (all under /api/v1, authenticated with X-API-Key when a key is
// configured):
//
//	POST   /api/v1/session       create a session from an initial sketch
//	GET    /api/v1/session/{id}  fetch session state
//	DELETE /api/v1/session/{id}  delete a session
//	POST   /api/v1/chat          run one editing turn
//	POST   /api/v1/chat/stream   same, with step progress as SSE events
//	GET    /api/v1/health        liveness probe
//
// Runs against the same session are serialized with a per-session lock, so
// concurrent chat requests cannot interleave session updates.
package api

import (
	"github.com/websketch/websketch/pkg/ops"
	"github.com/websketch/websketch/pkg/session"
	"github.com/websketch/websketch/pkg/sketch"
)

// ChatRequest is the body of POST /chat and /chat/stream.
type ChatRequest struct {
	Message        string             `json:"message"`
	CurrentSketch  []sketch.Component `json:"currentSketch"`
	MessageHistory []session.Message  `json:"messageHistory,omitempty"`
	SessionID      string             `json:"sessionId,omitempty"`
	ImageData      []byte             `json:"imageData,omitempty"`
}

// ChatResponse is the body of a chat reply. Failed runs still return 200
// with success=false and the session's fallback sketch, so clients always
// hold a valid document.
type ChatResponse struct {
	Success        bool               `json:"success"`
	ModifiedSketch []sketch.Component `json:"modifiedSketch"`
	Operations     []ops.Operation    `json:"operations"`
	Reasoning      string             `json:"reasoning"`
	Description    string             `json:"description"`
	SessionID      string             `json:"sessionId"`
}

// SessionCreateResponse is the body of POST /session.
type SessionCreateResponse struct {
	SessionID string `json:"sessionId"`
	CreatedAt string `json:"createdAt"`
}

// SessionResponse is the body of GET /session/{id}.
type SessionResponse struct {
	SessionID        string                    `json:"sessionId"`
	CreatedAt        string                    `json:"createdAt"`
	UpdatedAt        string                    `json:"updatedAt"`
	CurrentSketch    []sketch.Component        `json:"currentSketch,omitempty"`
	OperationHistory []session.OperationRecord `json:"operationHistory,omitempty"`
}

// ErrorResponse is the body of a non-200 reply.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	SessionID string `json:"sessionId,omitempty"`
}
