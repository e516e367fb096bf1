package services

import (
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/voyageprep/voyage-backend/internal/clients/upstash"
	"github.com/voyageprep/voyage-backend/internal/types"
)

func TestBuildProfileQuery(t *testing.T) {
	gpa := 3.65
	profile := &types.UserProfile{
		GPA:                &gpa,
		BudgetMin:          intPtr(10000),
		BudgetMax:          intPtr(40000),
		TargetField:        "computer science",
		StudyGoal:          "masters",
		PreferredCountries: datatypes.JSON([]byte(`["Germany","Canada"]`)),
	}

	got := BuildProfileQuery(profile, "strong AI research")
	for _, want := range []string{
		"GPA 3.65",
		"budget 10000-40000 USD per year",
		"field of study computer science",
		"preferred countries Germany, Canada",
		"study goal masters",
		"strong AI research",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("query missing %q: %q", want, got)
		}
	}
}

func TestBuildProfileQuerySkipsEmptyFields(t *testing.T) {
	got := BuildProfileQuery(&types.UserProfile{}, "  just this  ")
	if got != "just this" {
		t.Fatalf("want=%q got=%q", "just this", got)
	}
	if got := BuildProfileQuery(nil, ""); got != "" {
		t.Fatalf("nil profile, empty query: want empty got=%q", got)
	}
}

func TestDecodeMatch(t *testing.T) {
	m := upstash.QueryMatch{
		ID:    "abc",
		Score: 0.91,
		Metadata: map[string]any{
			"name":            "TU Munich",
			"country":         "Germany",
			"rank":            float64(45),
			"tuition_usd":     float64(3000),
			"acceptance_rate": 0.3,
			"programs":        "Computer Science, Robotics",
			"strengths":       "No tuition fees | Globally ranked institution",
			"risks":           "",
		},
	}

	got := decodeMatch(m)
	if got.ID != "abc" || got.Name != "TU Munich" || got.Country != "Germany" {
		t.Fatalf("identity fields: %+v", got)
	}
	if got.Rank == nil || *got.Rank != 45 {
		t.Fatalf("rank: got=%v", got.Rank)
	}
	if len(got.Programs) != 2 || got.Programs[1] != "Robotics" {
		t.Fatalf("programs: got=%v", got.Programs)
	}
	if len(got.Strengths) != 2 || got.Strengths[0] != "No tuition fees" {
		t.Fatalf("strengths: got=%v", got.Strengths)
	}
	if got.Risks != nil {
		t.Fatalf("empty risk string must decode to nil, got=%v", got.Risks)
	}
	if got.Category != types.CategoryTarget {
		t.Fatalf("category for rank 45: want=Target got=%q", got.Category)
	}
	if got.AcceptanceBucket != "10-40%" {
		t.Fatalf("bucket: got=%q", got.AcceptanceBucket)
	}
}

func TestDecodeMatchWithoutMetadata(t *testing.T) {
	got := decodeMatch(upstash.QueryMatch{ID: "x", Score: 0.1})
	if got.Rank != nil || got.Name != "" {
		t.Fatalf("missing metadata must decode to zero values: %+v", got)
	}
	if got.Category != types.CategoryTarget {
		t.Fatalf("unranked must be Target, got=%q", got.Category)
	}
}

func TestSplitMetaList(t *testing.T) {
	got := splitMetaList(" a | b |  | c ", metadataListSeparator)
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("got=%v", got)
	}
	if got := splitMetaList("   ", metadataListSeparator); got != nil {
		t.Fatalf("blank input: want nil got=%v", got)
	}
}

func TestMergeLists(t *testing.T) {
	got := mergeLists([]string{"a", "b"}, []string{"b", "c", ""})
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("got=%v", got)
	}
}
