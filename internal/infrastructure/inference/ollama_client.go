package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

const serviceName = "inference"

// OllamaClient generates text via the Ollama HTTP API.
// Stateless beyond the underlying http.Client; no internal retries —
// callers decide their own retry policy.
type OllamaClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// generateRequest matches the Ollama /api/generate payload
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// generateResponse matches the Ollama /api/generate response
type generateResponse struct {
	Response string `json:"response"`
}

// NewOllamaClient creates a text-generation client for a local Ollama server.
func NewOllamaClient(baseURL string, timeout time.Duration, logger *zap.Logger) *OllamaClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Ping probes the Ollama server's /api/tags endpoint. A 200 means the
// service is up and has its model list available.
func (c *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return domainErrors.NewInternalErrorWithCause("failed to create liveness request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domainErrors.NewServiceUnavailableError(serviceName, "not running", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domainErrors.NewServiceUnavailableError(serviceName, "liveness probe returned status "+resp.Status, nil)
	}
	return nil
}

// Generate sends a single prompt and returns the completion text.
// Callers must not pass an empty prompt; that is validated upstream.
func (c *OllamaClient) Generate(ctx context.Context, prompt, model string, opts service.GenerateOptions) (string, error) {
	reqBody := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", domainErrors.NewInternalErrorWithCause("failed to marshal generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", domainErrors.NewInternalErrorWithCause("failed to create generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", domainErrors.NewServiceUnavailableError(serviceName, "generate request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domainErrors.NewServiceUnavailableError(serviceName, "generate returned status "+resp.Status, nil)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", domainErrors.NewGenerationFailedError("failed to decode generate response: " + err.Error())
	}

	completion := strings.TrimSpace(genResp.Response)
	if completion == "" {
		return "", domainErrors.NewGenerationFailedError("model returned an empty completion")
	}

	c.logger.Debug("Generation completed",
		zap.String("model", model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("completion_chars", len(completion)),
		zap.Duration("duration", time.Since(start)),
	)

	return completion, nil
}
