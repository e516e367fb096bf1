package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

func newTestTaskService(t *testing.T, profiles *fakeProfileRepo, tasks *fakeTaskRepo, notify JourneyNotifier) TaskService {
	t.Helper()
	svc, err := NewTaskService(nil, testLogger(t), tasks, profiles, notify)
	if err != nil {
		t.Fatalf("NewTaskService: %v", err)
	}
	return svc
}

func seedTestProfile(t *testing.T, profiles *fakeProfileRepo, stage types.Stage) uuid.UUID {
	t.Helper()
	p, err := profiles.Create(context.Background(), nil, &types.UserProfile{
		Email:        "test@example.com",
		Name:         "Test",
		CurrentStage: stage,
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p.ID
}

func TestCreateTaskValidation(t *testing.T) {
	profiles := newFakeProfileRepo()
	tasks := newFakeTaskRepo()
	svc := newTestTaskService(t, profiles, tasks, nil)
	userID := seedTestProfile(t, profiles, types.StageDiscovery)

	if _, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "   "}); err == nil {
		t.Fatalf("blank title must fail")
	}

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "Email professors", Priority: "bogus"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Priority != types.PriorityMedium {
		t.Fatalf("invalid priority must default to medium, got=%q", task.Priority)
	}
	if task.Stage != types.StageDiscovery {
		t.Fatalf("omitted stage must default to the user's stage, got=%d", task.Stage)
	}
}

func TestToggleAndDeleteEnforceOwnership(t *testing.T) {
	profiles := newFakeProfileRepo()
	tasks := newFakeTaskRepo()
	svc := newTestTaskService(t, profiles, tasks, nil)
	owner := seedTestProfile(t, profiles, types.StageDiscovery)
	stranger := uuid.New()

	task, err := svc.Create(context.Background(), owner, CreateTaskInput{Title: "Book IELTS exam"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Toggle(context.Background(), stranger, task.ID); err == nil {
		t.Fatalf("toggle by non-owner must fail")
	}
	if err := svc.Delete(context.Background(), stranger, task.ID); err == nil {
		t.Fatalf("delete by non-owner must fail")
	}

	toggled, err := svc.Toggle(context.Background(), owner, task.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatalf("toggle must flip completion")
	}
}

func TestSeedBaselineTasksIsIdempotent(t *testing.T) {
	profiles := newFakeProfileRepo()
	tasks := newFakeTaskRepo()
	notify := &recordingNotifier{}
	svc := newTestTaskService(t, profiles, tasks, notify)
	userID := seedTestProfile(t, profiles, types.StageProfileBuilding)

	n, err := svc.SeedBaselineTasks(context.Background(), userID)
	if err != nil {
		t.Fatalf("SeedBaselineTasks: %v", err)
	}
	if n != 2 {
		t.Fatalf("baseline count: want=2 got=%d", n)
	}
	if !notify.has(sse.EventTasksSeeded) {
		t.Fatalf("seeding must emit TasksSeeded")
	}

	again, err := svc.SeedBaselineTasks(context.Background(), userID)
	if err != nil {
		t.Fatalf("SeedBaselineTasks again: %v", err)
	}
	if again != 0 {
		t.Fatalf("re-seed must add nothing, got=%d", again)
	}
}

func TestSyncStageTasksAddsWithoutRemoving(t *testing.T) {
	profiles := newFakeProfileRepo()
	tasks := newFakeTaskRepo()
	svc := newTestTaskService(t, profiles, tasks, nil)
	userID := seedTestProfile(t, profiles, types.StageProfileBuilding)

	if _, err := svc.SeedBaselineTasks(context.Background(), userID); err != nil {
		t.Fatalf("SeedBaselineTasks: %v", err)
	}
	manual, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "My own reminder"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Jumping to stage 3 backfills stages 2 and 3.
	added, err := svc.SyncStageTasks(context.Background(), userID, types.StageFinalizing)
	if err != nil {
		t.Fatalf("SyncStageTasks: %v", err)
	}
	if added != 6 {
		t.Fatalf("backfill count: want=6 got=%d", added)
	}

	list, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 9 {
		t.Fatalf("total tasks: want=9 got=%d", len(list))
	}
	found := false
	for _, task := range list {
		if task.ID == manual.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("sync must never remove existing tasks")
	}

	if _, err := svc.SyncStageTasks(context.Background(), userID, types.Stage(9)); err == nil {
		t.Fatalf("invalid stage must fail")
	}
}

func TestSeedShortlistTasksRendersUniversityName(t *testing.T) {
	profiles := newFakeProfileRepo()
	tasks := newFakeTaskRepo()
	svc := newTestTaskService(t, profiles, tasks, nil)
	userID := seedTestProfile(t, profiles, types.StageDiscovery)

	uni := &types.University{ID: uuid.New(), Name: "TU Munich", Country: "Germany"}
	n, err := svc.SeedShortlistTasks(context.Background(), userID, uni)
	if err != nil {
		t.Fatalf("SeedShortlistTasks: %v", err)
	}
	if n != 3 {
		t.Fatalf("shortlist template count: want=3 got=%d", n)
	}

	titles, err := tasks.TitlesByUser(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("TitlesByUser: %v", err)
	}
	if !titles["Research TU Munich programs"] {
		t.Fatalf("placeholder not rendered, titles=%v", titles)
	}

	list, _ := svc.List(context.Background(), userID)
	for _, task := range list {
		if task.Stage != types.StageFinalizing {
			t.Fatalf("shortlist tasks belong to stage 3, got=%d", task.Stage)
		}
		if task.UniversityID == nil || *task.UniversityID != uni.ID {
			t.Fatalf("shortlist tasks must reference the university")
		}
	}

	if _, err := svc.SeedShortlistTasks(context.Background(), userID, nil); err == nil {
		t.Fatalf("nil university must fail")
	}
}
