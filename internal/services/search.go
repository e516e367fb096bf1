package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/clients/upstash"
	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/types"
)

const (
	// Metadata list fields are flattened to strings on write and split back on
	// read. Strengths/risks use " | ", program lists use ", ".
	metadataListSeparator    = " | "
	metadataProgramSeparator = ", "

	interactiveTopK    = 10
	recommendationTopK = 20
)

// UniversityMatch is one semantic search hit, decoded from index metadata and
// annotated with the per-profile category.
type UniversityMatch struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Country          string              `json:"country"`
	Rank             *int                `json:"rank"`
	TuitionUSD       *int                `json:"tuition_usd"`
	AcceptanceRate   *float64            `json:"acceptance_rate"`
	Programs         []string            `json:"programs"`
	Strengths        []string            `json:"strengths"`
	Risks            []string            `json:"risks"`
	Category         types.MatchCategory `json:"category"`
	AcceptanceBucket string              `json:"acceptance_bucket"`
	Score            float64             `json:"score"`
}

type SearchService interface {
	// Search runs an interactive semantic query scoped by the profile.
	Search(ctx context.Context, profile *types.UserProfile, query string) ([]UniversityMatch, error)

	// Recommend generates the full recommendation list for a profile.
	Recommend(ctx context.Context, profile *types.UserProfile) ([]UniversityMatch, error)
}

type searchService struct {
	db        *gorm.DB
	log       *logger.Logger
	embedding EmbeddingService
	vectors   upstash.VectorStore
}

func NewSearchService(db *gorm.DB, baseLog *logger.Logger, embedding EmbeddingService, vectors upstash.VectorStore) SearchService {
	return &searchService{
		db:        db,
		log:       baseLog.With("service", "SearchService"),
		embedding: embedding,
		vectors:   vectors,
	}
}

func (s *searchService) Search(ctx context.Context, profile *types.UserProfile, query string) ([]UniversityMatch, error) {
	return s.query(ctx, profile, query, interactiveTopK)
}

func (s *searchService) Recommend(ctx context.Context, profile *types.UserProfile) ([]UniversityMatch, error) {
	return s.query(ctx, profile, "", recommendationTopK)
}

func (s *searchService) query(ctx context.Context, profile *types.UserProfile, query string, topK int) ([]UniversityMatch, error) {
	if s.vectors == nil {
		return nil, fmt.Errorf("vector store not wired")
	}
	queryText := BuildProfileQuery(profile, query)
	vector := s.embedding.Embed(ctx, queryText)

	matches, err := s.vectors.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	out := make([]UniversityMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, decodeMatch(m))
	}
	return out, nil
}

// BuildProfileQuery concatenates the structured profile fields with the free
// text so the embedding reflects both.
func BuildProfileQuery(profile *types.UserProfile, query string) string {
	var parts []string
	if profile != nil {
		if profile.GPA != nil {
			parts = append(parts, fmt.Sprintf("GPA %.2f", *profile.GPA))
		}
		if profile.BudgetMin != nil && profile.BudgetMax != nil {
			parts = append(parts, fmt.Sprintf("budget %d-%d USD per year", *profile.BudgetMin, *profile.BudgetMax))
		}
		if profile.TargetField != "" {
			parts = append(parts, "field of study "+profile.TargetField)
		}
		if countries := decodeJSONStrings(profile.PreferredCountries); len(countries) > 0 {
			parts = append(parts, "preferred countries "+strings.Join(countries, metadataProgramSeparator))
		}
		if profile.StudyGoal != "" {
			parts = append(parts, "study goal "+profile.StudyGoal)
		}
	}
	if q := strings.TrimSpace(query); q != "" {
		parts = append(parts, q)
	}
	return strings.Join(parts, ". ")
}

func decodeMatch(m upstash.QueryMatch) UniversityMatch {
	out := UniversityMatch{
		ID:    m.ID,
		Score: m.Score,
	}
	out.Name = metaString(m.Metadata, "name")
	out.Country = metaString(m.Metadata, "country")
	out.Rank = metaInt(m.Metadata, "rank")
	out.TuitionUSD = metaInt(m.Metadata, "tuition_usd")
	out.AcceptanceRate = metaFloat(m.Metadata, "acceptance_rate")
	out.Programs = splitMetaList(metaString(m.Metadata, "programs"), metadataProgramSeparator)
	out.Strengths = splitMetaList(metaString(m.Metadata, "strengths"), metadataListSeparator)
	out.Risks = splitMetaList(metaString(m.Metadata, "risks"), metadataListSeparator)
	out.Category = CategoryForRank(out.Rank)
	out.AcceptanceBucket = AcceptanceRateBucket(out.Category)
	return out
}

func splitMetaList(joined, sep string) []string {
	joined = strings.TrimSpace(joined)
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func metaString(md map[string]any, key string) string {
	if md == nil {
		return ""
	}
	if v, ok := md[key].(string); ok {
		return v
	}
	return ""
}

func metaInt(md map[string]any, key string) *int {
	if md == nil {
		return nil
	}
	if v, ok := md[key].(float64); ok {
		i := int(v)
		return &i
	}
	return nil
}

func metaFloat(md map[string]any, key string) *float64 {
	if md == nil {
		return nil
	}
	if v, ok := md[key].(float64); ok {
		return &v
	}
	return nil
}
