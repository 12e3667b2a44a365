package dialogue

import (
	"context"
	"log/slog"
	"time"
)

// DefaultMonitorTimeout bounds the monitor completion. The persona stream is
// bounded by the caller's request context instead.
const DefaultMonitorTimeout = 60 * time.Second

// Orchestrator runs the two stages of one user turn: the monitor completion
// that assesses concept coverage, then the streamed persona completion the
// student actually sees. Both stages hit the same model; the monitor output
// is never shown to the student, only folded into the persona system
// instruction.
type Orchestrator struct {
	completer      CompletionClient
	retriever      Retriever
	monitorTimeout time.Duration
}

func NewOrchestrator(completer CompletionClient, retriever Retriever, monitorTimeout time.Duration) *Orchestrator {
	if monitorTimeout <= 0 {
		monitorTimeout = DefaultMonitorTimeout
	}
	return &Orchestrator{completer: completer, retriever: retriever, monitorTimeout: monitorTimeout}
}

// Respond produces the streamed reply for one user message. The monitor
// stage degrades gracefully: if it fails, the turn proceeds with a neutral
// recommendation rather than failing the whole conversation. Retrieval and
// persona-stage errors propagate; a user turn has no partial-success state.
func (o *Orchestrator) Respond(ctx context.Context, history []Turn, message string) (Stream, error) {
	monitorCtx, cancel := context.WithTimeout(ctx, o.monitorTimeout)
	defer cancel()

	topics, err := o.completer.Complete(monitorCtx, MonitorPrompt(), history, message)
	if err != nil {
		slog.WarnContext(ctx, "monitor stage failed, continuing without recommendation", "error", err)
		topics = NeutralTopics
	}

	excerpts, err := o.retriever.Excerpts(ctx, history, message)
	if err != nil {
		return nil, err
	}
	if excerpts == "" {
		slog.DebugContext(ctx, "no excerpts cleared the similarity threshold")
	}

	system, err := Render(PersonaPromptTemplate, map[string]string{
		"topics":   topics,
		"excerpts": excerpts,
	})
	if err != nil {
		return nil, err
	}

	return o.completer.Stream(ctx, system, history, message)
}
