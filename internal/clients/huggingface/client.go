package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/voyageprep/voyage-backend/internal/logger"
)

// Client calls the HuggingFace Inference API feature-extraction pipeline.
type Client interface {
	FeatureExtraction(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg := Config{
		APIKey:  strings.TrimSpace(os.Getenv("HF_API_KEY")),
		BaseURL: strings.TrimSpace(os.Getenv("HF_BASE_URL")),
		Model:   strings.TrimSpace(os.Getenv("HF_EMBED_MODEL")),
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing HF_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Model == "" {
		cfg.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "HuggingFaceClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *client) FeatureExtraction(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text required")
	}

	body, err := json.Marshal(map[string]any{
		"inputs":  []string{text},
		"options": map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return nil, err
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/pipeline/feature-extraction/" + c.cfg.Model
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("huggingface feature_extraction http %d: %s", resp.StatusCode, string(raw))
	}

	// One input yields one row of floats.
	var rows [][]float32
	if err := json.Unmarshal(raw, &rows); err != nil {
		// Some models answer a bare vector for a single input.
		var flat []float32
		if err2 := json.Unmarshal(raw, &flat); err2 == nil {
			return flat, nil
		}
		return nil, fmt.Errorf("huggingface feature_extraction decode: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("huggingface feature_extraction returned empty vector")
	}
	return rows[0], nil
}
