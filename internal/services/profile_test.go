package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/voyageprep/voyage-backend/internal/types"
)

type profileFixture struct {
	profile    ProfileService
	profiles   *fakeProfileRepo
	userID     uuid.UUID
	university *types.University
}

func newProfileFixture(t *testing.T, startStage types.Stage) *profileFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	university := &types.University{ID: uuid.New(), Name: "TU Munich", Country: "Germany"}
	universities := newFakeUniversityRepo(university)
	tasks := newFakeTaskRepo()

	taskService := newTestTaskService(t, profiles, tasks, nil)
	stageService := NewStageService(nil, testLogger(t), profiles, universities, taskService, nil)
	profileService := NewProfileService(nil, testLogger(t), profiles, stageService, taskService)

	return &profileFixture{
		profile:    profileService,
		profiles:   profiles,
		userID:     seedTestProfile(t, profiles, startStage),
		university: university,
	}
}

func TestPatchIgnoresProtectedColumns(t *testing.T) {
	f := newProfileFixture(t, types.StageProfileBuilding)

	updated, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"name":  "New Name",
		"email": "hax@example.com",
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Email != "test@example.com" {
		t.Fatalf("email must be immutable via patch, got=%q", updated.Email)
	}
}

func TestPatchOnboardingCompletionAdvancesStage(t *testing.T) {
	f := newProfileFixture(t, types.StageProfileBuilding)

	updated, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"onboarding_completed": true,
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !updated.OnboardingCompleted || updated.CurrentStage != types.StageDiscovery {
		t.Fatalf("onboarding patch must advance to stage 2: %+v", updated)
	}
}

func TestPatchLockAndUnlockRouteThroughStageMachine(t *testing.T) {
	f := newProfileFixture(t, types.StageDiscovery)

	locked, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"locked_university_id": f.university.ID.String(),
	})
	if err != nil {
		t.Fatalf("Patch lock: %v", err)
	}
	if locked.CurrentStage != types.StageApplicationPrep || locked.LockedUniversityID == nil {
		t.Fatalf("lock patch must force stage 4: %+v", locked)
	}

	unlocked, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"locked_university_id": nil,
	})
	if err != nil {
		t.Fatalf("Patch unlock: %v", err)
	}
	if unlocked.CurrentStage != types.StageFinalizing || unlocked.LockedUniversityID != nil {
		t.Fatalf("unlock patch must return to stage 3: %+v", unlocked)
	}
}

func TestPatchStageBlockedWhileLocked(t *testing.T) {
	f := newProfileFixture(t, types.StageDiscovery)

	if _, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"locked_university_id": f.university.ID.String(),
	}); err != nil {
		t.Fatalf("Patch lock: %v", err)
	}

	if _, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"current_stage": float64(2),
	}); err == nil {
		t.Fatalf("leaving stage 4 while locked must fail")
	}
}

func TestPatchStageValidation(t *testing.T) {
	f := newProfileFixture(t, types.StageDiscovery)

	if _, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"current_stage": float64(7),
	}); err == nil {
		t.Fatalf("out-of-range stage must fail")
	}
	updated, err := f.profile.Patch(context.Background(), f.userID, map[string]interface{}{
		"current_stage": float64(3),
	})
	if err != nil {
		t.Fatalf("Patch stage: %v", err)
	}
	if updated.CurrentStage != types.StageFinalizing {
		t.Fatalf("stage patch: want=3 got=%d", updated.CurrentStage)
	}
}
