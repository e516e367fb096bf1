package services

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/sse"
	"github.com/voyageprep/voyage-backend/internal/types"
)

//go:embed tasks.yaml
var taskTemplateYAML []byte

type taskTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	DueInDays   int    `yaml:"due_in_days"`
}

type taskCatalog struct {
	Stages    map[int][]taskTemplate `yaml:"stages"`
	Shortlist []taskTemplate         `yaml:"shortlist"`
	Lock      []taskTemplate         `yaml:"lock"`
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    types.TaskPriority
	Stage       types.Stage
	Due         *time.Time
}

// TaskService owns the to-do list: manual CRUD plus the seeding and
// stage-reconciliation routines driven by the journey.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*types.Task, error)
	Toggle(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (*types.Task, error)
	Delete(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*types.Task, error)

	SeedBaselineTasks(ctx context.Context, userID uuid.UUID) (int, error)
	SeedShortlistTasks(ctx context.Context, userID uuid.UUID, university *types.University) (int, error)
	SeedLockTasks(ctx context.Context, userID uuid.UUID, university *types.University) (int, error)

	// SyncStageTasks reconciles the list against a stage change by adding the
	// missing template tasks for every stage up to and including stage. It
	// never removes tasks.
	SyncStageTasks(ctx context.Context, userID uuid.UUID, stage types.Stage) (int, error)
}

type taskService struct {
	db       *gorm.DB
	log      *logger.Logger
	tasks    repos.TaskRepo
	profiles repos.ProfileRepo
	notify   JourneyNotifier
	catalog  taskCatalog
}

func NewTaskService(db *gorm.DB, baseLog *logger.Logger, taskRepo repos.TaskRepo, profileRepo repos.ProfileRepo, notify JourneyNotifier) (TaskService, error) {
	var catalog taskCatalog
	if err := yaml.Unmarshal(taskTemplateYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse task template catalog: %w", err)
	}
	return &taskService{
		db:       db,
		log:      baseLog.With("service", "TaskService"),
		tasks:    taskRepo,
		profiles: profileRepo,
		notify:   notify,
		catalog:  catalog,
	}, nil
}

func (s *taskService) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*types.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("task title required")
	}
	priority := input.Priority
	if !priority.Valid() {
		priority = types.PriorityMedium
	}
	stage := input.Stage
	if !stage.Valid() {
		profile, err := s.profiles.GetByID(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		stage = profile.CurrentStage
	}

	task := &types.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Stage:       stage,
		Due:         input.Due,
	}
	created, err := s.tasks.Create(ctx, nil, []*types.Task{task})
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.Notify(ctx, userID, sse.EventTaskCreated, created[0])
	}
	return created[0], nil
}

func (s *taskService) Toggle(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (*types.Task, error) {
	task, err := s.tasks.GetByID(ctx, nil, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, fmt.Errorf("task not found")
	}
	if err := s.tasks.SetCompleted(ctx, nil, taskID, !task.Completed); err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, nil, taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return fmt.Errorf("task not found")
	}
	return s.tasks.Delete(ctx, nil, taskID)
}

func (s *taskService) List(ctx context.Context, userID uuid.UUID) ([]*types.Task, error) {
	return s.tasks.ListByUser(ctx, nil, userID)
}

func (s *taskService) SeedBaselineTasks(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.seedTemplates(ctx, userID, s.catalog.Stages[int(types.StageProfileBuilding)], types.StageProfileBuilding, nil)
}

func (s *taskService) SeedShortlistTasks(ctx context.Context, userID uuid.UUID, university *types.University) (int, error) {
	if university == nil {
		return 0, fmt.Errorf("university required")
	}
	return s.seedTemplates(ctx, userID, s.catalog.Shortlist, types.StageFinalizing, university)
}

func (s *taskService) SeedLockTasks(ctx context.Context, userID uuid.UUID, university *types.University) (int, error) {
	if university == nil {
		return 0, fmt.Errorf("university required")
	}
	return s.seedTemplates(ctx, userID, s.catalog.Lock, types.StageApplicationPrep, university)
}

func (s *taskService) SyncStageTasks(ctx context.Context, userID uuid.UUID, stage types.Stage) (int, error) {
	if !stage.Valid() {
		return 0, fmt.Errorf("invalid stage %d", stage)
	}
	total := 0
	for st := types.StageProfileBuilding; st <= stage; st++ {
		n, err := s.seedTemplates(ctx, userID, s.catalog.Stages[int(st)], st, nil)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// seedTemplates inserts every template task the user does not already have,
// deduplicating by title.
func (s *taskService) seedTemplates(ctx context.Context, userID uuid.UUID, templates []taskTemplate, stage types.Stage, university *types.University) (int, error) {
	if len(templates) == 0 {
		return 0, nil
	}
	existing, err := s.tasks.TitlesByUser(ctx, nil, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var batch []*types.Task
	for _, tpl := range templates {
		title := renderTemplate(tpl.Title, university)
		if title == "" || existing[title] {
			continue
		}
		existing[title] = true

		priority := types.TaskPriority(tpl.Priority)
		if !priority.Valid() {
			priority = types.PriorityMedium
		}
		task := &types.Task{
			UserID:      userID,
			Title:       title,
			Description: renderTemplate(tpl.Description, university),
			Priority:    priority,
			Stage:       stage,
		}
		if university != nil {
			id := university.ID
			task.UniversityID = &id
		}
		if tpl.DueInDays > 0 {
			due := now.AddDate(0, 0, tpl.DueInDays)
			task.Due = &due
		}
		batch = append(batch, task)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if _, err := s.tasks.Create(ctx, nil, batch); err != nil {
		return 0, err
	}
	if s.notify != nil {
		s.notify.Notify(ctx, userID, sse.EventTasksSeeded, map[string]any{"count": len(batch), "stage": stage})
	}
	return len(batch), nil
}

func renderTemplate(text string, university *types.University) string {
	if university == nil {
		return text
	}
	return strings.ReplaceAll(text, "{university}", university.Name)
}
