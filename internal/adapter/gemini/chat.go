package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"pat/backend/internal/dialogue"
)

const DefaultChatModel = "gemini-2.0-flash"

// Chat implements dialogue.CompletionClient against the Gemini API. The
// monitor stage uses Complete, the persona stage Stream; both hit the same
// model with different system instructions.
type Chat struct {
	client *genai.Client
	model  string
}

func NewChat(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Chat, error) {
	if model == "" {
		model = DefaultChatModel
	}
	opts = append(opts, option.WithAPIKey(apiKey))
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Chat{client: client, model: model}, nil
}

func (c *Chat) Complete(ctx context.Context, system string, history []dialogue.Turn, message string) (string, error) {
	session := c.session(system, history)
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("%w: %v", dialogue.ErrCompletion, err)
	}
	return responseText(resp), nil
}

func (c *Chat) Stream(ctx context.Context, system string, history []dialogue.Turn, message string) (dialogue.Stream, error) {
	session := c.session(system, history)
	iter := session.SendMessageStream(ctx, genai.Text(message))
	return &stream{iter: iter}, nil
}

func (c *Chat) Close() error {
	return c.client.Close()
}

func (c *Chat) session(system string, history []dialogue.Turn) *genai.ChatSession {
	model := c.client.GenerativeModel(c.model)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	for _, turn := range history {
		role := "user"
		if turn.Role == dialogue.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return session
}

// stream adapts the genai response iterator to dialogue.Stream. It is
// finite and not restartable; the caller drains it exactly once.
type stream struct {
	iter *genai.GenerateContentResponseIterator
}

func (s *stream) Next() (string, error) {
	for {
		resp, err := s.iter.Next()
		if err == iterator.Done {
			return "", io.EOF
		}
		if err != nil {
			slog.Error("completion stream failed", "error", err)
			return "", fmt.Errorf("%w: %v", dialogue.ErrCompletion, err)
		}
		if delta := responseText(resp); delta != "" {
			return delta, nil
		}
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	return out
}
