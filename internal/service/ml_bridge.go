package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/propestimator/backend/internal/domain"
)

// MLBridge handles communication with a Python inference service hosting the model
type MLBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(serviceURL string) *MLBridge {
	return &MLBridge{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type predictRequest struct {
	Columns   []string               `json:"columns"`
	Instances []domain.FeatureRecord `json:"instances"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict sends one record to the inference service and returns the first prediction
func (b *MLBridge) Predict(ctx context.Context, record domain.FeatureRecord) (float64, error) {
	body, err := json.Marshal(predictRequest{
		Columns:   domain.FeatureColumns,
		Instances: []domain.FeatureRecord{record},
	})
	if err != nil {
		return 0, fmt.Errorf("ml_bridge: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("ml_bridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("ml_bridge: service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var prediction predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return 0, fmt.Errorf("ml_bridge: failed to decode response: %w", err)
	}
	if len(prediction.Predictions) == 0 {
		return 0, fmt.Errorf("ml_bridge: service returned no predictions")
	}

	return prediction.Predictions[0], nil
}

// Health checks ML service connectivity
func (b *MLBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ml_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ml_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}

// ConnectMLBridge creates a bridge and verifies the service answers.
// An unreachable service is reported as a missing model.
func ConnectMLBridge(ctx context.Context, serviceURL string) (*MLBridge, error) {
	b := NewMLBridge(serviceURL)
	if err := b.Health(ctx); err != nil {
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactModel,
			Path:     serviceURL,
			Remedy:   "start the inference service first",
			Err:      err,
		}
	}
	return b, nil
}
