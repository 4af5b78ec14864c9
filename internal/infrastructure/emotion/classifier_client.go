package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/valueobject"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

const serviceName = "emotion"

// ClassifierClient calls the local emotion-classification HTTP service.
// An empty prediction list is a valid response (no signal); callers treat
// it as neutral.
type ClassifierClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// predictRequest matches the classifier /api/predict payload
type predictRequest struct {
	Text string `json:"text"`
}

// predictResponse matches the classifier /api/predict response
type predictResponse struct {
	Predictions []prediction `json:"predictions"`
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClassifierClient creates an emotion classifier client.
func NewClassifierClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ClassifierClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &ClassifierClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict classifies the emotions of a text, highest score first.
func (c *ClassifierClient) Predict(ctx context.Context, text string) ([]valueobject.EmotionPrediction, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, domainErrors.NewInternalErrorWithCause("failed to marshal predict request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewReader(body))
	if err != nil {
		return nil, domainErrors.NewInternalErrorWithCause("failed to create predict request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domainErrors.NewServiceUnavailableError(serviceName, "predict request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainErrors.NewServiceUnavailableError(serviceName, "predict returned status "+resp.Status, nil)
	}

	var predResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predResp); err != nil {
		return nil, domainErrors.NewServiceUnavailableError(serviceName, "failed to decode predict response", err)
	}

	predictions := make([]valueobject.EmotionPrediction, 0, len(predResp.Predictions))
	for _, p := range predResp.Predictions {
		predictions = append(predictions, valueobject.NewEmotionPrediction(p.Label, p.Score))
	}

	return valueobject.SortByScore(predictions), nil
}
