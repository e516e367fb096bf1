package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voyageprep/voyage-backend/internal/logger"
)

// Client talks to an Upstash Vector index over its REST data plane.
type Client interface {
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	Upsert(ctx context.Context, vectors []Vector) error
	Info(ctx context.Context) (*IndexInfo, error)
}

type Config struct {
	RestURL   string
	RestToken string
	Timeout   time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.RestURL) == "" {
		return nil, fmt.Errorf("missing Upstash Vector REST URL")
	}
	if strings.TrimSpace(cfg.RestToken) == "" {
		return nil, fmt.Errorf("missing Upstash Vector REST token")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "UpstashVectorClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type Vector struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type QueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type QueryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type QueryResponse struct {
	Result []QueryMatch `json:"result"`
}

type IndexInfo struct {
	Result struct {
		VectorCount int `json:"vectorCount"`
		Dimension   int `json:"dimension"`
	} `json:"result"`
}

func (c *client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if len(req.Vector) == 0 {
		return nil, fmt.Errorf("query vector required")
	}
	if req.TopK <= 0 {
		req.TopK = 10
	}
	return doJSON[QueryResponse](c, ctx, "/query", req)
}

func (c *client) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	_, err := doJSON[json.RawMessage](c, ctx, "/upsert", vectors)
	return err
}

func (c *client) Info(ctx context.Context) (*IndexInfo, error) {
	return doJSON[IndexInfo](c, ctx, "/info", nil)
}

func doJSON[T any](c *client, ctx context.Context, path string, body any) (*T, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	u := strings.TrimRight(c.cfg.RestURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, "POST", u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.RestToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstash vector http %d: %s", resp.StatusCode, string(raw))
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("upstash vector decode: %w; raw=%s", err, string(raw))
	}
	return &out, nil
}
