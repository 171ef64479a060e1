// Package session provides durable conversation state for sketch editing.
//
// A session pins three sketch snapshots: the sketch the session was created
// with (initial), the last successfully executed sketch (latest), and the
// sketch as the client currently sees it (current). The latest snapshot is
// the rollback target when a pipeline run fails. Operation and message
// history accumulate per update for undo support and prompt context.
//
// Backends:
//   - memory: in-process map for development and tests
//   - redis: whole-document JSON under a TTL key, for production
//   - mongo: one document per session with a TTL index on updatedAt
//   - file: JSON files in a config directory, for the CLI
//
// All backends renew the TTL on read and write.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/ops"
	"github.com/websketch/websketch/pkg/sketch"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = time.Hour

// Message is one turn of the session's chat history.
type Message struct {
	Role      string    `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// OperationRecord is one executed batch, kept for undo and audit.
type OperationRecord struct {
	Timestamp  time.Time       `json:"timestamp" bson:"timestamp"`
	Operations []ops.Operation `json:"operations" bson:"operations"`
}

// Session is the full persisted state of one editing conversation.
type Session struct {
	ID               string             `json:"sessionId" bson:"_id"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	InitialSketch    []sketch.Component `json:"initialSketch" bson:"initialSketch"`
	LatestSketch     []sketch.Component `json:"latestSketch" bson:"latestSketch"`
	CurrentSketch    []sketch.Component `json:"currentSketch" bson:"currentSketch"`
	OperationHistory []OperationRecord  `json:"operationHistory" bson:"operationHistory"`
	MessageHistory   []Message          `json:"messageHistory" bson:"messageHistory"`
}

// UpdateRequest carries the optional pieces of a session update. Nil fields
// are left untouched; a non-nil CurrentSketch also advances LatestSketch.
type UpdateRequest struct {
	CurrentSketch []sketch.Component
	Operations    []ops.Operation
	Message       *Message
}

// Store is the interface for session persistence backends.
type Store interface {
	// Create stores a fresh session seeded with the initial sketch. If id is
	// empty a UUID is generated. Returns the session id.
	Create(ctx context.Context, initial []sketch.Component, id string) (string, error)

	// Get retrieves a session and renews its TTL.
	// Returns a SESSION_NOT_FOUND error for missing or expired ids.
	Get(ctx context.Context, id string) (*Session, error)

	// Update applies the request to an existing session, bumps UpdatedAt and
	// renews the TTL. Returns a SESSION_NOT_FOUND error for missing ids.
	Update(ctx context.Context, id string, req UpdateRequest) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// ExtendTTL renews the session's expiry without modifying it.
	ExtendTTL(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewSession builds the canonical fresh session document. All three sketch
// snapshots start as independent copies of the initial sketch.
func NewSession(id string, initial []sketch.Component) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &Session{
		ID:               id,
		CreatedAt:        now,
		UpdatedAt:        now,
		InitialSketch:    sketch.Clone(initial),
		LatestSketch:     sketch.Clone(initial),
		CurrentSketch:    sketch.Clone(initial),
		OperationHistory: []OperationRecord{},
		MessageHistory:   []Message{},
	}
}

// apply mutates sess per the update request. Shared by all backends so the
// update semantics cannot drift between them.
func (sess *Session) apply(req UpdateRequest) {
	sess.UpdatedAt = time.Now().UTC()

	if req.CurrentSketch != nil {
		sess.CurrentSketch = sketch.Clone(req.CurrentSketch)
		sess.LatestSketch = sketch.Clone(req.CurrentSketch)
	}
	if len(req.Operations) > 0 {
		sess.OperationHistory = append(sess.OperationHistory, OperationRecord{
			Timestamp:  sess.UpdatedAt,
			Operations: req.Operations,
		})
	}
	if req.Message != nil {
		msg := *req.Message
		if msg.Timestamp.IsZero() {
			msg.Timestamp = sess.UpdatedAt
		}
		sess.MessageHistory = append(sess.MessageHistory, msg)
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
}

// IsNotFound reports whether err is a missing-session error, so callers can
// distinguish a recreatable session from a backend outage.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeSessionNotFound)
}
