package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/websketch/websketch/internal/config"
	"github.com/websketch/websketch/pkg/agent"
	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/ops"
	"github.com/websketch/websketch/pkg/session"
	"github.com/websketch/websketch/pkg/sketch"
)

// Pipeline is the part of the agent the API needs. *agent.Runner satisfies it.
type Pipeline interface {
	Run(ctx context.Context, req agent.Request) (*agent.Result, error)
}

// Server wires the pipeline and session store into HTTP handlers.
type Server struct {
	pipeline Pipeline
	store    session.Store
	cfg      config.Server
	logger   *log.Logger
	locks    *sessionLocks
}

// NewServer creates the API server. logger nil means the default logger.
func NewServer(pipeline Pipeline, store session.Store, cfg config.Server, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		pipeline: pipeline,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		locks:    newSessionLocks(),
	}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.auth)
			r.Post("/session", s.handleCreateSession)
			r.Get("/session/{id}", s.handleGetSession)
			r.Delete("/session/{id}", s.handleDeleteSession)
			r.Post("/chat", s.handleChat)
			r.Post("/chat/stream", s.handleChatStream)
		})
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

// auth checks the X-API-Key header. With no key configured the API is open,
// which is the local-development mode.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" {
			key := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.APIKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing API key", "")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, o := range s.cfg.CORSOrigins {
				if o == "*" || o == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
					break
				}
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var initial []sketch.Component
	if err := json.NewDecoder(r.Body).Decode(&initial); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	id, err := s.store.Create(r.Context(), initial, "")
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session", "")
		return
	}

	writeJSON(w, http.StatusOK, SessionCreateResponse{
		SessionID: id,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err), "")
		return
	}

	sess, err := s.store.Get(r.Context(), id)
	if session.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "session not found", id)
		return
	}
	if err != nil {
		s.logger.Error("failed to get session", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get session", id)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		SessionID:        sess.ID,
		CreatedAt:        sess.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        sess.UpdatedAt.Format(time.RFC3339),
		CurrentSketch:    sess.CurrentSketch,
		OperationHistory: sess.OperationHistory,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err), "")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.logger.Error("failed to delete session", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete session", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Session deleted"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	result := s.runChat(r.Context(), req)
	writeJSON(w, http.StatusOK, result)
}

// handleChatStream runs the same pipeline but reports step progress as
// server-sent events before the final result event.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", req.SessionID)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendEvent := func(event string, payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	for _, step := range []string{"analysis", "modification", "validation", "execution"} {
		sendEvent(step, map[string]string{"step": step, "status": "in_progress"})
	}

	result := s.runChat(r.Context(), req)
	sendEvent("result", result)
}

// runChat serializes the run per session and converts the agent result into
// the wire response. A failed run is still a 200-level response: the client
// gets the fallback sketch and an error description.
func (s *Server) runChat(ctx context.Context, req ChatRequest) ChatResponse {
	if req.SessionID != "" {
		release := s.locks.acquire(req.SessionID)
		defer release()
	}

	result, err := s.pipeline.Run(ctx, agent.Request{
		SessionID:      req.SessionID,
		Message:        req.Message,
		CurrentSketch:  req.CurrentSketch,
		MessageHistory: req.MessageHistory,
		ImageData:      req.ImageData,
	})
	if err != nil {
		s.logger.Error("chat request failed",
			"session_id", result.SessionID, "error", err)
	}

	operations := result.Operations
	if operations == nil {
		operations = []ops.Operation{}
	}
	return ChatResponse{
		Success:        result.Success,
		ModifiedSketch: result.ModifiedSketch,
		Operations:     operations,
		Reasoning:      result.Reasoning,
		Description:    result.Description,
		SessionID:      result.SessionID,
	}
}

func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return req, false
	}
	if req.SessionID != "" {
		if err := errors.ValidateSessionID(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, errors.UserMessage(err), "")
			return req, false
		}
	}
	return req, true
}

// =============================================================================
// Response helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, sessionID string) {
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Error:     msg,
		SessionID: sessionID,
	})
}
