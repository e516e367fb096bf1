package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`

	EducationLevel string   `gorm:"column:education_level" json:"education_level"`
	Degree         string   `gorm:"column:degree" json:"degree"`
	GPA            *float64 `gorm:"column:gpa" json:"gpa"`

	StudyGoal          string         `gorm:"column:study_goal" json:"study_goal"`
	TargetField        string         `gorm:"column:target_field" json:"target_field"`
	TargetIntake       string         `gorm:"column:target_intake" json:"target_intake"`
	PreferredCountries datatypes.JSON `gorm:"column:preferred_countries" json:"preferred_countries"`

	BudgetMin   *int   `gorm:"column:budget_min" json:"budget_min"`
	BudgetMax   *int   `gorm:"column:budget_max" json:"budget_max"`
	FundingPlan string `gorm:"column:funding_plan" json:"funding_plan"`

	ExamStatus string         `gorm:"column:exam_status" json:"exam_status"`
	ExamScores datatypes.JSON `gorm:"column:exam_scores" json:"exam_scores"`
	SOPStatus  string         `gorm:"column:sop_status" json:"sop_status"`

	OnboardingCompleted bool       `gorm:"not null;default:false;column:onboarding_completed" json:"onboarding_completed"`
	CurrentStage        Stage      `gorm:"not null;default:1;column:current_stage" json:"current_stage"`
	LockedUniversityID  *uuid.UUID `gorm:"type:uuid;column:locked_university_id" json:"locked_university_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}
