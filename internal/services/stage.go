package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

// StageService is the journey state machine. Stages only move through its
// operations so the lock invariant (locked university implies stage 4) holds
// on every write path.
type StageService interface {
	// CompleteOnboarding marks onboarding done and advances 1 -> 2.
	CompleteOnboarding(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)

	// Lock commits to one university: sets the lock and forces stage 4.
	Lock(ctx context.Context, userID uuid.UUID, universityID uuid.UUID) (*types.UserProfile, error)

	// Unlock clears the lock and returns the user to stage 3.
	Unlock(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)

	// NoteShortlisted records the discovery -> finalizing advance that the
	// first shortlist entry triggers. Returns the new stage when it moved.
	NoteShortlisted(ctx context.Context, userID uuid.UUID) (*types.Stage, error)
}

type stageService struct {
	db           *gorm.DB
	log          *logger.Logger
	profiles     repos.ProfileRepo
	universities repos.UniversityRepo
	taskService  TaskService
	notify       JourneyNotifier
}

func NewStageService(db *gorm.DB, baseLog *logger.Logger, profileRepo repos.ProfileRepo, universityRepo repos.UniversityRepo, taskService TaskService, notify JourneyNotifier) StageService {
	return &stageService{
		db:           db,
		log:          baseLog.With("service", "StageService"),
		profiles:     profileRepo,
		universities: universityRepo,
		taskService:  taskService,
		notify:       notify,
	}
}

func (s *stageService) CompleteOnboarding(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	profile, err := s.profiles.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"onboarding_completed": true}
	if profile.CurrentStage == types.StageProfileBuilding {
		updates["current_stage"] = types.StageDiscovery
	}
	updated, err := s.profiles.Patch(ctx, nil, userID, updates)
	if err != nil {
		return nil, err
	}

	if updated.CurrentStage != profile.CurrentStage {
		if _, err := s.taskService.SyncStageTasks(ctx, userID, updated.CurrentStage); err != nil {
			s.log.Warn("Stage task sync failed after onboarding", "user_id", userID, "error", err)
		}
		s.notifyStage(ctx, userID, updated.CurrentStage)
	}
	return updated, nil
}

func (s *stageService) Lock(ctx context.Context, userID uuid.UUID, universityID uuid.UUID) (*types.UserProfile, error) {
	university, err := s.universities.GetByID(ctx, nil, universityID)
	if err != nil {
		return nil, fmt.Errorf("university not found: %w", err)
	}

	updated, err := s.profiles.Patch(ctx, nil, userID, map[string]interface{}{
		"locked_university_id": universityID,
		"current_stage":        types.StageApplicationPrep,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.taskService.SeedLockTasks(ctx, userID, university); err != nil {
		s.log.Warn("Lock task seeding failed", "user_id", userID, "university_id", universityID, "error", err)
	}
	if _, err := s.taskService.SyncStageTasks(ctx, userID, types.StageApplicationPrep); err != nil {
		s.log.Warn("Stage task sync failed after lock", "user_id", userID, "error", err)
	}

	if s.notify != nil {
		s.notify.Notify(ctx, userID, sse.EventUniversityLocked, map[string]any{
			"university_id": universityID,
			"stage":         updated.CurrentStage,
		})
	}
	return updated, nil
}

func (s *stageService) Unlock(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	profile, err := s.profiles.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile.LockedUniversityID == nil {
		return profile, nil
	}

	updated, err := s.profiles.Patch(ctx, nil, userID, map[string]interface{}{
		"locked_university_id": nil,
		"current_stage":        types.StageFinalizing,
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, userID, sse.EventUniversityUnlocked, map[string]any{
			"stage": updated.CurrentStage,
		})
	}
	return updated, nil
}

func (s *stageService) NoteShortlisted(ctx context.Context, userID uuid.UUID) (*types.Stage, error) {
	profile, err := s.profiles.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile.CurrentStage != types.StageDiscovery {
		return nil, nil
	}

	updated, err := s.profiles.Patch(ctx, nil, userID, map[string]interface{}{
		"current_stage": types.StageFinalizing,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.taskService.SyncStageTasks(ctx, userID, updated.CurrentStage); err != nil {
		s.log.Warn("Stage task sync failed after shortlist advance", "user_id", userID, "error", err)
	}
	s.notifyStage(ctx, userID, updated.CurrentStage)
	stage := updated.CurrentStage
	return &stage, nil
}

func (s *stageService) notifyStage(ctx context.Context, userID uuid.UUID, stage types.Stage) {
	if s.notify == nil {
		return
	}
	s.notify.Notify(ctx, userID, sse.EventStageChanged, map[string]any{"stage": stage})
}
