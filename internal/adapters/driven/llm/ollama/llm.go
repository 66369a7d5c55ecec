// Package ollama provides a summarisation adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// Ensure Summariser implements the interfaces.
var (
	_ driven.Summariser       = (*Summariser)(nil)
	_ driven.PromptStoreAware = (*Summariser)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL  = "http://localhost:11434"
	DefaultModel    = "llama3.2"
	DefaultTimeout  = 120 * time.Second
	tokensPerWord   = 2
	summaryTemp     = 0.3
	minSummaryToken = 16
)

// Config holds configuration for the Ollama summariser.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Summariser produces summaries with an Ollama model.
type Summariser struct {
	client      *http.Client
	baseURL     string
	model       string
	promptStore driven.PromptStore
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewSummariser creates a new Ollama summariser.
func NewSummariser(cfg Config) *Summariser {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Summariser{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// DefaultSummarisePrompt is used when no PromptStore is configured.
// It takes the word limit and the content.
const DefaultSummarisePrompt = `Summarise the following content in %d words or fewer.
Be concise and capture the key points.

Content:
%s

Summary:`

// Summarise creates a summary of content of at most maxLength words.
func (s *Summariser) Summarise(ctx context.Context, content string, maxLength int) (string, error) {
	promptTemplate := s.loadPrompt(driven.PromptSummarise, DefaultSummarisePrompt)
	prompt := fmt.Sprintf(promptTemplate, maxLength, content)

	result, err := s.generate(ctx, prompt, &options{
		NumPredict:  max(maxLength*tokensPerWord, minSummaryToken),
		Temperature: summaryTemp,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to summarise", goerr.V("model", s.model))
	}

	return strings.TrimSpace(result), nil
}

func (s *Summariser) generate(ctx context.Context, prompt string, opts *options) (string, error) {
	jsonBody, err := json.Marshal(generateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Stream:  false,
		Options: opts,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", goerr.New("ollama returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", goerr.Wrap(err, "failed to decode response")
	}

	return genResp.Response, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *Summariser) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ModelName returns the name of the LLM model being used.
func (s *Summariser) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the summariser uses DefaultSummarisePrompt.
func (s *Summariser) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (s *Summariser) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return goerr.Wrap(err, "failed to create ping request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "ollama ping failed", goerr.V("base_url", s.baseURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return goerr.New("ollama ping returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}
	return nil
}
