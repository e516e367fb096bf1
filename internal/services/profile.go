package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*types.UserProfile, error)

	// Patch applies a partial update. Stage and lock fields are routed through
	// the stage machine so its invariants hold; onboarding completion advances
	// the journey.
	Patch(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*types.UserProfile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profiles    repos.ProfileRepo
	stage       StageService
	taskService TaskService
}

func NewProfileService(db *gorm.DB, baseLog *logger.Logger, profileRepo repos.ProfileRepo, stageService StageService, taskService TaskService) ProfileService {
	return &profileService{
		db:          db,
		log:         baseLog.With("service", "ProfileService"),
		profiles:    profileRepo,
		stage:       stageService,
		taskService: taskService,
	}
}

// profileUpdatableColumns maps incoming JSON fields to columns a PATCH may
// touch directly. Stage and lock fields are deliberately absent.
var profileUpdatableColumns = map[string]bool{
	"name":                true,
	"education_level":     true,
	"degree":              true,
	"gpa":                 true,
	"study_goal":          true,
	"target_field":        true,
	"target_intake":       true,
	"preferred_countries": true,
	"budget_min":          true,
	"budget_max":          true,
	"funding_plan":        true,
	"exam_status":         true,
	"exam_scores":         true,
	"sop_status":          true,
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return s.profiles.GetByID(ctx, nil, userID)
}

func (s *profileService) GetByEmail(ctx context.Context, email string) (*types.UserProfile, error) {
	return s.profiles.GetByEmail(ctx, nil, email)
}

func (s *profileService) Patch(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*types.UserProfile, error) {
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if profileUpdatableColumns[k] {
			filtered[k] = v
		}
	}

	profile, err := s.profiles.Patch(ctx, nil, userID, filtered)
	if err != nil {
		return nil, err
	}

	// Stage-affecting fields go through the stage machine, not the column map.
	if v, ok := updates["onboarding_completed"]; ok {
		if done, _ := v.(bool); done && !profile.OnboardingCompleted {
			if profile, err = s.stage.CompleteOnboarding(ctx, userID); err != nil {
				return nil, err
			}
		}
	}
	if v, ok := updates["locked_university_id"]; ok {
		switch lv := v.(type) {
		case nil:
			if profile, err = s.stage.Unlock(ctx, userID); err != nil {
				return nil, err
			}
		case string:
			universityID, parseErr := uuid.Parse(lv)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid locked_university_id: %w", parseErr)
			}
			if profile, err = s.stage.Lock(ctx, userID, universityID); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("invalid locked_university_id")
		}
	} else if v, ok := updates["current_stage"]; ok {
		stage, stageErr := stageFromAny(v)
		if stageErr != nil {
			return nil, stageErr
		}
		if profile.LockedUniversityID != nil && stage != types.StageApplicationPrep {
			return nil, fmt.Errorf("cannot leave application prep while a university is locked")
		}
		if profile, err = s.profiles.Patch(ctx, nil, userID, map[string]interface{}{"current_stage": stage}); err != nil {
			return nil, err
		}
		if _, err := s.taskService.SyncStageTasks(ctx, userID, stage); err != nil {
			s.log.Warn("Stage task sync failed after profile patch", "user_id", userID, "error", err)
		}
	}

	return profile, nil
}

func stageFromAny(v interface{}) (types.Stage, error) {
	var stage types.Stage
	switch n := v.(type) {
	case float64:
		stage = types.Stage(int(n))
	case int:
		stage = types.Stage(n)
	default:
		return 0, fmt.Errorf("invalid current_stage")
	}
	if !stage.Valid() {
		return 0, fmt.Errorf("invalid current_stage %v", v)
	}
	return stage, nil
}
