package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Vision captions images with a multimodal chat model.
type Vision struct {
	model  string
	client *openai.Client
}

func NewVision(cfg Config) *Vision {
	return &Vision{model: cfg.Model, client: newClient(cfg)}
}

// Caption sends the image at path inline as a data URL together with prompt.
func (v *Vision) Caption(ctx context.Context, path, prompt string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("data:%s;base64,%s", MimeType(path), base64.StdEncoding.EncodeToString(data))

	req := openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: url}},
				},
			},
		},
	}

	rsp, err := v.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 {
		return "", errNoResponse
	}
	caption := strings.TrimSpace(rsp.Choices[0].Message.Content)
	if caption == "" {
		return "", errNoResponse
	}
	return caption, nil
}

// MimeType guesses the image type from the file extension, defaulting to PNG.
func MimeType(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" || !strings.HasPrefix(t, "image/") {
		return "image/png"
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}
