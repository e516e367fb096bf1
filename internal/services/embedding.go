package services

import (
	"context"
	"math"

	"github.com/voyageprep/voyage-backend/internal/clients/huggingface"
	"github.com/voyageprep/voyage-backend/internal/logger"
)

// fallbackNativeDim mirrors the native width of the sentence-transformer model
// so fallback vectors occupy the same prefix as real ones.
const fallbackNativeDim = 384

// EmbeddingService turns text into a vector of the index's configured width.
// It never fails: any upstream error degrades to a deterministic
// pseudo-embedding so the search pipeline stays available.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) []float32
	Dimension() int
}

type embeddingService struct {
	log       *logger.Logger
	hf        huggingface.Client
	dimension int
}

func NewEmbeddingService(baseLog *logger.Logger, hf huggingface.Client, dimension int) EmbeddingService {
	if dimension <= 0 {
		dimension = 1536
	}
	return &embeddingService{
		log:       baseLog.With("service", "EmbeddingService"),
		hf:        hf,
		dimension: dimension,
	}
}

func (s *embeddingService) Dimension() int {
	return s.dimension
}

func (s *embeddingService) Embed(ctx context.Context, text string) []float32 {
	if s.hf != nil {
		native, err := s.hf.FeatureExtraction(ctx, text)
		if err == nil && len(native) > 0 {
			return padOrTruncate(native, s.dimension)
		}
		if err != nil {
			s.log.Warn("Feature extraction failed, using deterministic fallback embedding", "error", err)
		}
	}
	return fallbackEmbedding(text, s.dimension)
}

func padOrTruncate(v []float32, dimension int) []float32 {
	if len(v) == dimension {
		return v
	}
	out := make([]float32, dimension)
	copy(out, v)
	return out
}

// fallbackEmbedding derives a stable pseudo-vector from the input so repeated
// calls for the same text agree. The values carry no semantic meaning.
func fallbackEmbedding(text string, dimension int) []float32 {
	var seed float64
	for _, r := range text {
		seed += float64(r)
	}
	n := fallbackNativeDim
	if n > dimension {
		n = dimension
	}
	out := make([]float32, dimension)
	for i := 0; i < n; i++ {
		out[i] = float32(math.Sin(seed+float64(i)) * 0.1)
	}
	return out
}
