package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/clients/upstash"
	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/types"
)

const reindexConcurrency = 4

// CatalogService exposes the university catalog and keeps the vector index in
// step with it.
type CatalogService interface {
	List(ctx context.Context, search string, limit int) ([]*types.University, error)
	Get(ctx context.Context, id uuid.UUID) (*types.University, error)
	Seed(ctx context.Context, universities []*types.University) ([]*types.University, error)

	// Reindex embeds every catalog entry and upserts it into the vector index.
	// Returns the number of documents indexed.
	Reindex(ctx context.Context) (int, error)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	universities repos.UniversityRepo
	embedding    EmbeddingService
	vectors      upstash.VectorStore
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, universityRepo repos.UniversityRepo, embedding EmbeddingService, vectors upstash.VectorStore) CatalogService {
	return &catalogService{
		db:           db,
		log:          baseLog.With("service", "CatalogService"),
		universities: universityRepo,
		embedding:    embedding,
		vectors:      vectors,
	}
}

func (s *catalogService) List(ctx context.Context, search string, limit int) ([]*types.University, error) {
	return s.universities.List(ctx, nil, search, limit)
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*types.University, error) {
	return s.universities.GetByID(ctx, nil, id)
}

func (s *catalogService) Seed(ctx context.Context, universities []*types.University) ([]*types.University, error) {
	return s.universities.Upsert(ctx, nil, universities)
}

func (s *catalogService) Reindex(ctx context.Context) (int, error) {
	if s.vectors == nil {
		return 0, fmt.Errorf("vector store not wired")
	}
	all, err := s.universities.List(ctx, nil, "", 0)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}

	vectors := make([]upstash.Vector, len(all))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reindexConcurrency)
	for i, u := range all {
		i, u := i, u
		g.Go(func() error {
			doc := buildUniversityDocument(u)
			vectors[i] = upstash.Vector{
				ID:       u.ID.String(),
				Vector:   s.embedding.Embed(gctx, doc),
				Metadata: buildUniversityMetadata(u),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := s.vectors.Upsert(ctx, vectors); err != nil {
		return 0, fmt.Errorf("vector upsert: %w", err)
	}
	s.log.Info("Catalog reindexed", "count", len(vectors))
	return len(vectors), nil
}

func buildUniversityDocument(u *types.University) string {
	var b strings.Builder
	b.WriteString(u.Name)
	b.WriteString(". ")
	b.WriteString(u.Country)
	if u.Location != "" {
		b.WriteString(", ")
		b.WriteString(u.Location)
	}
	b.WriteString(". ")
	if programs := decodeJSONStrings(u.Programs); len(programs) > 0 {
		b.WriteString("Programs: ")
		b.WriteString(strings.Join(programs, metadataProgramSeparator))
		b.WriteString(". ")
	}
	if tags := decodeJSONStrings(u.Tags); len(tags) > 0 {
		b.WriteString(strings.Join(tags, metadataProgramSeparator))
		b.WriteString(". ")
	}
	b.WriteString(u.Description)
	return b.String()
}

// buildUniversityMetadata flattens list fields into delimiter-joined strings;
// the search side splits them back.
func buildUniversityMetadata(u *types.University) map[string]any {
	md := map[string]any{
		"name":      u.Name,
		"country":   u.Country,
		"programs":  strings.Join(decodeJSONStrings(u.Programs), metadataProgramSeparator),
		"strengths": strings.Join(mergeLists(decodeJSONStrings(u.Strengths), DeriveStrengths(u)), metadataListSeparator),
		"risks":     strings.Join(mergeLists(decodeJSONStrings(u.Risks), DeriveRisks(u)), metadataListSeparator),
	}
	if u.Rank != nil {
		md["rank"] = float64(*u.Rank)
	}
	if u.TuitionUSD != nil {
		md["tuition_usd"] = float64(*u.TuitionUSD)
	}
	if u.AcceptanceRate != nil {
		md["acceptance_rate"] = *u.AcceptanceRate
	}
	return md
}

func mergeLists(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	out := make([]string, 0, len(base)+len(extra))
	for _, v := range base {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range extra {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func decodeJSONStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
