// Package chat exposes the query entrypoint: one POST that accepts the
// conversation history plus the latest student message and streams back the
// persona reply as plain-text deltas.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"pat/backend/internal/dialogue"
)

type Responder interface {
	Respond(ctx context.Context, history []dialogue.Turn, message string) (dialogue.Stream, error)
}

// StoreChecker tells the handler whether the corpus has been seeded, so a
// failed turn against an empty store can say "not ready" instead of
// producing an opaque error.
type StoreChecker interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	responder Responder
	store     StoreChecker
}

func NewHandler(responder Responder, store StoreChecker) *Handler {
	return &Handler{responder: responder, store: store}
}

type messageRequest struct {
	History []dialogue.Turn `json:"history"`
	Message string          `json:"message"`
}

type greetingResponse struct {
	Message string `json:"message"`
}

// Greeting returns the fixed conversation opener.
func (h *Handler) Greeting(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(greetingResponse{Message: dialogue.StartMessage}); err != nil {
		slog.ErrorContext(r.Context(), "failed to write greeting", "error", err)
	}
}

// Message runs one user turn and streams the reply. Once the first delta
// has been written the status is committed; a mid-stream failure can only
// be logged and the connection closed.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	stream, err := h.responder.Respond(ctx, req.History, req.Message)
	if err != nil {
		h.writeTurnError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, canFlush := w.(http.Flusher)

	for {
		delta, err := stream.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "response stream aborted", "error", err)
			return
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			// Client went away; stop consuming so the upstream call is released.
			slog.InfoContext(ctx, "client disconnected mid-stream", "error", err)
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}

func (h *Handler) writeTurnError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "turn failed", "error", err)

	if h.store != nil {
		count, countErr := h.store.Count(ctx)
		if countErr != nil || count == 0 {
			http.Error(w, "The tutor isn't ready yet. Please try again in a moment.", http.StatusServiceUnavailable)
			return
		}
	}

	if errors.Is(err, dialogue.ErrCompletion) {
		http.Error(w, "upstream completion failed", http.StatusBadGateway)
		return
	}
	http.Error(w, "failed to generate a response", http.StatusInternalServerError)
}
