package upstash

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/voyageprep/voyage-backend/internal/logger"
)

// VectorStore is the narrow view of the index the search pipeline needs.
type VectorStore interface {
	Query(ctx context.Context, q []float32, topK int) ([]QueryMatch, error)
	Upsert(ctx context.Context, vectors []Vector) error
	// Dimension reports the width of the remote index.
	Dimension(ctx context.Context) (int, error)
}

type vectorStore struct {
	log *logger.Logger
	uc  Client
}

func NewVectorStore(log *logger.Logger) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	restURL := strings.TrimSpace(os.Getenv("UPSTASH_VECTOR_REST_URL"))
	if restURL == "" {
		return nil, fmt.Errorf("missing UPSTASH_VECTOR_REST_URL")
	}
	restToken := strings.TrimSpace(os.Getenv("UPSTASH_VECTOR_REST_TOKEN"))
	if restToken == "" {
		return nil, fmt.Errorf("missing UPSTASH_VECTOR_REST_TOKEN")
	}

	uc, err := New(log, Config{RestURL: restURL, RestToken: restToken})
	if err != nil {
		return nil, err
	}

	return &vectorStore{
		log: log.With("service", "UpstashVectorStore"),
		uc:  uc,
	}, nil
}

func (s *vectorStore) Query(ctx context.Context, q []float32, topK int) ([]QueryMatch, error) {
	if s == nil || s.uc == nil {
		return nil, fmt.Errorf("vector store unavailable")
	}
	resp, err := s.uc.Query(ctx, QueryRequest{
		Vector:          q,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (s *vectorStore) Upsert(ctx context.Context, vectors []Vector) error {
	if s == nil || s.uc == nil {
		return fmt.Errorf("vector store unavailable")
	}
	return s.uc.Upsert(ctx, vectors)
}

func (s *vectorStore) Dimension(ctx context.Context) (int, error) {
	if s == nil || s.uc == nil {
		return 0, fmt.Errorf("vector store unavailable")
	}
	info, err := s.uc.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.Result.Dimension, nil
}
