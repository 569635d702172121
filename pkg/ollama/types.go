package ollama

import (
	"fmt"
	"net/http"
)

// Config holds Ollama client configuration.
type Config struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Validate checks the config and fills defaults.
func (c *Config) Validate() error {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Request is a normalized text-generation request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response is a normalized text-generation response.
type Response struct {
	Text  string
	Usage Usage
}

// Usage tracks token consumption reported by the backend.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ollamaRequest is the wire format for POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the non-streaming wire response.
type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}

func (r *ollamaResponse) validate() error {
	if r.Error != "" {
		return fmt.Errorf("ollama: backend error: %s", r.Error)
	}
	return nil
}
