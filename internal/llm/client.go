package llm

import (
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultTimeout = 60 * time.Second

var errNoResponse = errors.New("no response from model server")

// Config describes one OpenAI-compatible endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func newClient(cfg Config) *openai.Client {
	key := cfg.APIKey
	if key == "" {
		// local servers accept any key but go-openai always sends one
		key = "EMPTY"
	}
	t := cfg.Timeout
	if t == 0 {
		t = defaultTimeout
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: t}
	return openai.NewClientWithConfig(oc)
}
