package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kyeongry/fastmatch-admin-sub002/config"
	"github.com/kyeongry/fastmatch-admin-sub002/model"
)

// RendererService asks the external rendering service to turn a contract
// into its final PDF document.
type RendererService struct {
	config     *config.RendererConfig
	httpClient *http.Client
}

func NewRendererService(cfg *config.RendererConfig) *RendererService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RendererService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Render posts the contract to the renderer and returns the PDF bytes.
func (s *RendererService) Render(ctx context.Context, contract *model.Contract) ([]byte, error) {
	jsonData, err := json.Marshal(contract)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contract: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.URL+"/render", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
