package services

import (
	"testing"

	"github.com/voyageprep/voyage-backend/internal/types"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestProfileStrength(t *testing.T) {
	gpa := 3.6
	full := &types.UserProfile{
		Email:          "a@b.com",
		Name:           "Asha",
		EducationLevel: "bachelors",
		Degree:         "BSc Computer Science",
		GPA:            &gpa,
		StudyGoal:      "masters",
		TargetField:    "computer science",
		TargetIntake:   "Fall 2027",
		BudgetMin:      intPtr(10000),
		BudgetMax:      intPtr(40000),
		FundingPlan:    "self-funded",
		ExamStatus:     "IELTS booked",
		SOPStatus:      "drafting",
	}

	if got := ProfileStrength(full); got != 100 {
		t.Fatalf("full profile: want=100 got=%d", got)
	}
	if got := ProfileStrength(&types.UserProfile{}); got != 0 {
		t.Fatalf("empty profile: want=0 got=%d", got)
	}
	if got := ProfileStrength(nil); got != 0 {
		t.Fatalf("nil profile: want=0 got=%d", got)
	}

	// Removing one section drops exactly one weight.
	partial := *full
	partial.FundingPlan = ""
	if got := ProfileStrength(&partial); got != 80 {
		t.Fatalf("missing budget section: want=80 got=%d", got)
	}
}

func TestCategoryForRank(t *testing.T) {
	tests := []struct {
		name string
		rank *int
		want types.MatchCategory
	}{
		{name: "top ten", rank: intPtr(5), want: types.CategoryDream},
		{name: "boundary ten", rank: intPtr(10), want: types.CategoryDream},
		{name: "eleven", rank: intPtr(11), want: types.CategoryTarget},
		{name: "boundary fifty", rank: intPtr(50), want: types.CategoryTarget},
		{name: "unranked", rank: nil, want: types.CategoryTarget},
		{name: "past fifty", rank: intPtr(80), want: types.CategorySafe},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategoryForRank(tc.rank); got != tc.want {
				t.Fatalf("want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestAcceptanceRateBucket(t *testing.T) {
	if got := AcceptanceRateBucket(types.CategoryDream); got != "below 10%" {
		t.Fatalf("dream: got=%q", got)
	}
	if got := AcceptanceRateBucket(types.CategoryTarget); got != "10-40%" {
		t.Fatalf("target: got=%q", got)
	}
	if got := AcceptanceRateBucket(types.CategorySafe); got != "above 40%" {
		t.Fatalf("safe: got=%q", got)
	}
}

func TestDeriveRisks(t *testing.T) {
	u := &types.University{
		TuitionUSD:     intPtr(60000),
		Rank:           intPtr(3),
		AcceptanceRate: floatPtr(0.05),
	}
	risks := DeriveRisks(u)
	want := []string{"High tuition fees", "Highly competitive admissions", "Very low acceptance rate"}
	if len(risks) != len(want) {
		t.Fatalf("risk count: want=%d got=%d (%v)", len(want), len(risks), risks)
	}
	for i := range want {
		if risks[i] != want[i] {
			t.Fatalf("risk %d: want=%q got=%q", i, want[i], risks[i])
		}
	}

	if got := DeriveRisks(&types.University{TuitionUSD: intPtr(50000)}); len(got) != 0 {
		t.Fatalf("tuition at threshold should carry no risk, got=%v", got)
	}
}

func TestDeriveStrengths(t *testing.T) {
	u := &types.University{
		Country:        "Germany",
		Rank:           intPtr(40),
		AcceptanceRate: floatPtr(0.6),
	}
	strengths := DeriveStrengths(u)
	want := []string{"No tuition fees", "Globally ranked institution", "Accessible admissions"}
	if len(strengths) != len(want) {
		t.Fatalf("strength count: want=%d got=%d (%v)", len(want), len(strengths), strengths)
	}
	for i := range want {
		if strengths[i] != want[i] {
			t.Fatalf("strength %d: want=%q got=%q", i, want[i], strengths[i])
		}
	}

	if got := DeriveStrengths(&types.University{Country: "France"}); len(got) != 0 {
		t.Fatalf("plain entry should carry no strengths, got=%v", got)
	}
}
