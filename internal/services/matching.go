package services

import (
	"github.com/voyageprep/voyage-backend/internal/types"
)

// Profile strength is a completeness score: five equally weighted sections of
// the profile, 20 points each. It is not an academic-fit prediction.
const profileSectionWeight = 20

func ProfileStrength(p *types.UserProfile) int {
	if p == nil {
		return 0
	}
	score := 0
	if p.Email != "" && p.Name != "" {
		score += profileSectionWeight
	}
	if p.EducationLevel != "" && p.Degree != "" && p.GPA != nil {
		score += profileSectionWeight
	}
	if p.StudyGoal != "" && p.TargetField != "" && p.TargetIntake != "" {
		score += profileSectionWeight
	}
	if p.BudgetMin != nil && p.BudgetMax != nil && p.FundingPlan != "" {
		score += profileSectionWeight
	}
	if p.ExamStatus != "" && p.SOPStatus != "" {
		score += profileSectionWeight
	}
	return score
}

// CategoryForRank buckets an institution by rank: Dream for the top 10,
// Target through 50 (and when rank is unknown), Safe past that.
func CategoryForRank(rank *int) types.MatchCategory {
	if rank == nil {
		return types.CategoryTarget
	}
	switch {
	case *rank <= 10:
		return types.CategoryDream
	case *rank <= 50:
		return types.CategoryTarget
	default:
		return types.CategorySafe
	}
}

// AcceptanceRateBucket is the displayed acceptance band for a category. It is
// presentation only and never overrides catalog data.
func AcceptanceRateBucket(category types.MatchCategory) string {
	switch category {
	case types.CategoryDream:
		return "below 10%"
	case types.CategoryTarget:
		return "10-40%"
	default:
		return "above 40%"
	}
}

const highTuitionThresholdUSD = 50000

// DeriveRisks produces rule-based risk lines for a university.
func DeriveRisks(u *types.University) []string {
	if u == nil {
		return nil
	}
	var risks []string
	if u.TuitionUSD != nil && *u.TuitionUSD > highTuitionThresholdUSD {
		risks = append(risks, "High tuition fees")
	}
	if u.Rank != nil && *u.Rank <= 10 {
		risks = append(risks, "Highly competitive admissions")
	}
	if u.AcceptanceRate != nil && *u.AcceptanceRate < 0.1 {
		risks = append(risks, "Very low acceptance rate")
	}
	return risks
}

// DeriveStrengths produces rule-based strength lines for a university.
func DeriveStrengths(u *types.University) []string {
	if u == nil {
		return nil
	}
	var strengths []string
	if u.Country == "Germany" {
		strengths = append(strengths, "No tuition fees")
	}
	if u.Rank != nil && *u.Rank <= 50 {
		strengths = append(strengths, "Globally ranked institution")
	}
	if u.AcceptanceRate != nil && *u.AcceptanceRate > 0.4 {
		strengths = append(strengths, "Accessible admissions")
	}
	return strengths
}
