package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type stageFixture struct {
	profiles     *fakeProfileRepo
	universities *fakeUniversityRepo
	tasks        *fakeTaskRepo
	notify       *recordingNotifier
	stage        StageService
	userID       uuid.UUID
	university   *types.University
}

func newStageFixture(t *testing.T, startStage types.Stage) *stageFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	university := &types.University{ID: uuid.New(), Name: "TU Munich", Country: "Germany"}
	universities := newFakeUniversityRepo(university)
	tasks := newFakeTaskRepo()
	notify := &recordingNotifier{}

	taskService := newTestTaskService(t, profiles, tasks, notify)
	stage := NewStageService(nil, testLogger(t), profiles, universities, taskService, notify)

	return &stageFixture{
		profiles:     profiles,
		universities: universities,
		tasks:        tasks,
		notify:       notify,
		stage:        stage,
		userID:       seedTestProfile(t, profiles, startStage),
		university:   university,
	}
}

func TestCompleteOnboardingAdvancesToDiscovery(t *testing.T) {
	f := newStageFixture(t, types.StageProfileBuilding)

	updated, err := f.stage.CompleteOnboarding(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !updated.OnboardingCompleted {
		t.Fatalf("onboarding flag not set")
	}
	if updated.CurrentStage != types.StageDiscovery {
		t.Fatalf("stage: want=2 got=%d", updated.CurrentStage)
	}
	if !f.notify.has(sse.EventStageChanged) {
		t.Fatalf("stage advance must emit StageChanged")
	}
}

func TestCompleteOnboardingPastStageOneKeepsStage(t *testing.T) {
	f := newStageFixture(t, types.StageFinalizing)

	updated, err := f.stage.CompleteOnboarding(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if updated.CurrentStage != types.StageFinalizing {
		t.Fatalf("stage must not move backwards: got=%d", updated.CurrentStage)
	}
}

func TestLockForcesApplicationPrep(t *testing.T) {
	f := newStageFixture(t, types.StageDiscovery)

	updated, err := f.stage.Lock(context.Background(), f.userID, f.university.ID)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if updated.CurrentStage != types.StageApplicationPrep {
		t.Fatalf("stage: want=4 got=%d", updated.CurrentStage)
	}
	if updated.LockedUniversityID == nil || *updated.LockedUniversityID != f.university.ID {
		t.Fatalf("lock id not recorded")
	}
	if !f.notify.has(sse.EventUniversityLocked) {
		t.Fatalf("lock must emit UniversityLocked")
	}

	// Lock seeding uses the {university} templates plus the stage backfill.
	titles, _ := f.tasks.TitlesByUser(context.Background(), nil, f.userID)
	if !titles["Tailor your SOP to TU Munich"] {
		t.Fatalf("lock tasks not seeded, titles=%v", titles)
	}
	if !titles["Submit your application"] {
		t.Fatalf("stage 4 backfill missing, titles=%v", titles)
	}
}

func TestLockUnknownUniversityFails(t *testing.T) {
	f := newStageFixture(t, types.StageDiscovery)

	if _, err := f.stage.Lock(context.Background(), f.userID, uuid.New()); err == nil {
		t.Fatalf("locking an unknown university must fail")
	}
	profile, _ := f.profiles.GetByID(context.Background(), nil, f.userID)
	if profile.LockedUniversityID != nil || profile.CurrentStage != types.StageDiscovery {
		t.Fatalf("failed lock must not change the profile")
	}
}

func TestUnlockReturnsToFinalizing(t *testing.T) {
	f := newStageFixture(t, types.StageDiscovery)

	if _, err := f.stage.Lock(context.Background(), f.userID, f.university.ID); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	updated, err := f.stage.Unlock(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if updated.LockedUniversityID != nil {
		t.Fatalf("lock id must clear")
	}
	if updated.CurrentStage != types.StageFinalizing {
		t.Fatalf("stage: want=3 got=%d", updated.CurrentStage)
	}
	if !f.notify.has(sse.EventUniversityUnlocked) {
		t.Fatalf("unlock must emit UniversityUnlocked")
	}
}

func TestUnlockWithoutLockIsNoop(t *testing.T) {
	f := newStageFixture(t, types.StageDiscovery)

	updated, err := f.stage.Unlock(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if updated.CurrentStage != types.StageDiscovery {
		t.Fatalf("noop unlock must keep the stage, got=%d", updated.CurrentStage)
	}
	if f.notify.has(sse.EventUniversityUnlocked) {
		t.Fatalf("noop unlock must not emit events")
	}
}

func TestNoteShortlistedAdvancesOnlyFromDiscovery(t *testing.T) {
	f := newStageFixture(t, types.StageDiscovery)

	newStage, err := f.stage.NoteShortlisted(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("NoteShortlisted: %v", err)
	}
	if newStage == nil || *newStage != types.StageFinalizing {
		t.Fatalf("first shortlist in discovery must advance to 3, got=%v", newStage)
	}

	// Already in finalizing: no further movement.
	again, err := f.stage.NoteShortlisted(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("NoteShortlisted again: %v", err)
	}
	if again != nil {
		t.Fatalf("repeat shortlist must not move the stage, got=%v", *again)
	}
}
