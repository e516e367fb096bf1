package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type ShortlistRepo interface {
	// Create inserts the entry if absent. Returns false when the pair already existed.
	Create(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ShortlistEntry, error)
}

type shortlistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShortlistRepo(db *gorm.DB, baseLog *logger.Logger) ShortlistRepo {
	return &shortlistRepo{db: db, log: baseLog.With("repo", "ShortlistRepo")}
}

func (sr *shortlistRepo) Create(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	entry := &types.ShortlistEntry{UserID: userID, UniversityID: universityID}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *shortlistRepo) Delete(ctx context.Context, tx *gorm.DB, userID, universityID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND university_id = ?", userID, universityID).
		Delete(&types.ShortlistEntry{}).Error
}

func (sr *shortlistRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ShortlistEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.ShortlistEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
