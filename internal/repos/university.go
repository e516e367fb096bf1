package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type UniversityRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, universities []*types.University) ([]*types.University, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.University, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.University, error)
	List(ctx context.Context, tx *gorm.DB, search string, limit int) ([]*types.University, error)
}

type universityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUniversityRepo(db *gorm.DB, baseLog *logger.Logger) UniversityRepo {
	return &universityRepo{db: db, log: baseLog.With("repo", "UniversityRepo")}
}

func (ur *universityRepo) Upsert(ctx context.Context, tx *gorm.DB, universities []*types.University) ([]*types.University, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(universities) == 0 {
		return []*types.University{}, nil
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(&universities).Error; err != nil {
		return nil, err
	}
	return universities, nil
}

func (ur *universityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.University, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var result types.University
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *universityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.University, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.University
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *universityRepo) List(ctx context.Context, tx *gorm.DB, search string, limit int) ([]*types.University, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	q := transaction.WithContext(ctx).Model(&types.University{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR country ILIKE ? OR location ILIKE ?", like, like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.University
	if err := q.Order("rank NULLS LAST").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
