package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/types"
)

// ShortlistResult reports what a shortlist-add did beyond the entry itself.
type ShortlistResult struct {
	Added        bool         `json:"added"`
	TasksCreated int          `json:"tasks_created"`
	NewStage     *types.Stage `json:"new_stage,omitempty"`
}

type ShortlistService interface {
	Add(ctx context.Context, userID uuid.UUID, universityID uuid.UUID) (*ShortlistResult, error)
	Remove(ctx context.Context, userID uuid.UUID, universityID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*types.University, error)
}

type shortlistService struct {
	db           *gorm.DB
	log          *logger.Logger
	shortlists   repos.ShortlistRepo
	universities repos.UniversityRepo
	taskService  TaskService
	stageService StageService
}

func NewShortlistService(db *gorm.DB, baseLog *logger.Logger, shortlistRepo repos.ShortlistRepo, universityRepo repos.UniversityRepo, taskService TaskService, stageService StageService) ShortlistService {
	return &shortlistService{
		db:           db,
		log:          baseLog.With("service", "ShortlistService"),
		shortlists:   shortlistRepo,
		universities: universityRepo,
		taskService:  taskService,
		stageService: stageService,
	}
}

// Add is idempotent: re-shortlisting an existing pair creates nothing and
// triggers no stage movement.
func (s *shortlistService) Add(ctx context.Context, userID uuid.UUID, universityID uuid.UUID) (*ShortlistResult, error) {
	university, err := s.universities.GetByID(ctx, nil, universityID)
	if err != nil {
		return nil, err
	}

	added, err := s.shortlists.Create(ctx, nil, userID, universityID)
	if err != nil {
		return nil, err
	}
	result := &ShortlistResult{Added: added}
	if !added {
		return result, nil
	}

	created, err := s.taskService.SeedShortlistTasks(ctx, userID, university)
	if err != nil {
		s.log.Warn("Shortlist task seeding failed", "user_id", userID, "university_id", universityID, "error", err)
	}
	result.TasksCreated = created

	newStage, err := s.stageService.NoteShortlisted(ctx, userID)
	if err != nil {
		s.log.Warn("Shortlist stage advance failed", "user_id", userID, "error", err)
	}
	result.NewStage = newStage

	return result, nil
}

func (s *shortlistService) Remove(ctx context.Context, userID uuid.UUID, universityID uuid.UUID) error {
	return s.shortlists.Delete(ctx, nil, userID, universityID)
}

func (s *shortlistService) List(ctx context.Context, userID uuid.UUID) ([]*types.University, error) {
	entries, err := s.shortlists.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UniversityID)
	}
	return s.universities.GetByIDs(ctx, nil, ids)
}
