package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type ollamaImpl struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

func newOllamaImpl(cfg Config) *ollamaImpl {
	return &ollamaImpl{
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
}

// GenerateContent sends a non-streaming generation request to Ollama.
func (o *ollamaImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	wireReq := ollamaRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	wireResp, err := o.callAPI(ctx, wireReq)
	if err != nil {
		return nil, err
	}
	if err := wireResp.validate(); err != nil {
		return nil, err
	}

	return &Response{
		Text: wireResp.Response,
		Usage: Usage{
			InputTokens:  wireResp.PromptEvalCount,
			OutputTokens: wireResp.EvalCount,
			TotalTokens:  wireResp.PromptEvalCount + wireResp.EvalCount,
		},
	}, nil
}

// Model returns the model being used
func (o *ollamaImpl) Model() string {
	return o.model
}

func (o *ollamaImpl) callAPI(ctx context.Context, req ollamaRequest) (*ollamaResponse, error) {
	url := fmt.Sprintf("%s/api/generate", o.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama: API error %d: %s", resp.StatusCode, string(raw))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama: failed to decode response: %w", err)
	}

	return &result, nil
}
