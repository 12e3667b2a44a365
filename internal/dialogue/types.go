// Package dialogue runs the two-stage conversation flow: a monitor pass
// that checks concept coverage, then the persona pass that produces the
// streamed reply shown to the student.
package dialogue

import (
	"context"
	"errors"
)

// ErrCompletion marks an upstream chat-completion failure. The turn fails
// visibly; there is no partial-success state to clean up.
var ErrCompletion = errors.New("completion service failed")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation. History is owned by the caller
// and passed in by value on every request; the orchestrator keeps no
// session state.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Stream is a lazy, finite sequence of response text deltas. Next returns
// io.EOF when generation is complete. A stream is consumed exactly once;
// cancelling the context passed to the producing call stops generation.
type Stream interface {
	Next() (string, error)
}

// CompletionClient abstracts the hosted model. Complete is used for the
// monitor stage, Stream for the persona stage; both run against the same
// underlying model.
type CompletionClient interface {
	Complete(ctx context.Context, system string, history []Turn, message string) (string, error)
	Stream(ctx context.Context, system string, history []Turn, message string) (Stream, error)
}

// Retriever supplies the formatted excerpt block for the persona prompt.
// An empty string means nothing cleared the similarity threshold.
type Retriever interface {
	Excerpts(ctx context.Context, history []Turn, message string) (string, error)
}
