package types

import (
	"time"

	"github.com/google/uuid"
)

type ShortlistEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_user_university;column:user_id" json:"user_id"`
	UniversityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_user_university;column:university_id" json:"university_id"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ShortlistEntry) TableName() string {
	return "shortlist_entry"
}
