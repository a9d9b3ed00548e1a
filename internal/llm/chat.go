package llm

import (
	"context"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Chat sends single-turn chat completions.
type Chat struct {
	model  string
	client *openai.Client
}

func NewChat(cfg Config) *Chat {
	return &Chat{model: cfg.Model, client: newClient(cfg)}
}

// Complete asks for a deterministic answer to user under the given system
// prompt.
func (c *Chat) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		// a literal 0 is dropped by omitempty and the server default applies
		Temperature: math.SmallestNonzeroFloat32,
	}

	rsp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 {
		return "", errNoResponse
	}

	return strings.TrimSpace(rsp.Choices[0].Message.Content), nil
}
