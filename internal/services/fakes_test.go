package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*types.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*types.UserProfile)}
}

func (r *fakeProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	cp := *profile
	r.profiles[profile.ID] = &cp
	return profile, nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func (r *fakeProfileRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, tx, email)
	return err == nil, nil
}

func (r *fakeProfileRepo) Patch(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*types.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	for k, v := range updates {
		switch k {
		case "onboarding_completed":
			p.OnboardingCompleted, _ = v.(bool)
		case "current_stage":
			if st, ok := v.(types.Stage); ok {
				p.CurrentStage = st
			}
		case "locked_university_id":
			if v == nil {
				p.LockedUniversityID = nil
			} else if uid, ok := v.(uuid.UUID); ok {
				cp := uid
				p.LockedUniversityID = &cp
			}
		case "name":
			if s, ok := v.(string); ok {
				p.Name = s
			}
		}
	}
	cp := *p
	return &cp, nil
}

type fakeUniversityRepo struct {
	mu           sync.Mutex
	universities map[uuid.UUID]*types.University
}

func newFakeUniversityRepo(universities ...*types.University) *fakeUniversityRepo {
	r := &fakeUniversityRepo{universities: make(map[uuid.UUID]*types.University)}
	for _, u := range universities {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.universities[u.ID] = u
	}
	return r
}

func (r *fakeUniversityRepo) Upsert(ctx context.Context, tx *gorm.DB, universities []*types.University) ([]*types.University, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range universities {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.universities[u.ID] = u
	}
	return universities, nil
}

func (r *fakeUniversityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.University, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.universities[id]
	if !ok {
		return nil, fmt.Errorf("university not found")
	}
	return u, nil
}

func (r *fakeUniversityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.University, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.University, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.universities[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUniversityRepo) List(ctx context.Context, tx *gorm.DB, search string, limit int) ([]*types.University, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.University, 0, len(r.universities))
	for _, u := range r.universities {
		out = append(out, u)
	}
	return out, nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*types.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*types.Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		r.tasks[task.ID] = task
	}
	return tasks, nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task not found")
	}
	cp := *task
	return &cp, nil
}

func (r *fakeTaskRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) TitlesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, task := range r.tasks {
		if task.UserID == userID {
			out[task.Title] = true
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) SetCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task not found")
	}
	task.Completed = completed
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

type fakeShortlistRepo struct {
	mu      sync.Mutex
	entries map[string]types.ShortlistEntry
}

func newFakeShortlistRepo() *fakeShortlistRepo {
	return &fakeShortlistRepo{entries: make(map[string]types.ShortlistEntry)}
}

func shortlistKey(userID, universityID uuid.UUID) string {
	return userID.String() + "/" + universityID.String()
}

func (r *fakeShortlistRepo) Create(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := shortlistKey(userID, universityID)
	if _, ok := r.entries[key]; ok {
		return false, nil
	}
	r.entries[key] = types.ShortlistEntry{ID: uuid.New(), UserID: userID, UniversityID: universityID}
	return true, nil
}

func (r *fakeShortlistRepo) Delete(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, shortlistKey(userID, universityID))
	return nil
}

func (r *fakeShortlistRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ShortlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.ShortlistEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			cp := e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// recordingNotifier captures journey events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []sse.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) has(event sse.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e == event {
			return true
		}
	}
	return false
}
