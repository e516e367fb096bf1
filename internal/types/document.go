package types

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentSOP    DocumentType = "SOP"
	DocumentResume DocumentType = "RESUME"
	DocumentLOR    DocumentType = "LOR"
	DocumentOther  DocumentType = "OTHER"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentSOP, DocumentResume, DocumentLOR, DocumentOther:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocumentDraft DocumentStatus = "draft"
	DocumentFinal DocumentStatus = "final"
)

type Document struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Type      DocumentType   `gorm:"not null;default:OTHER;column:type" json:"type"`
	Content   string         `gorm:"type:text;column:content" json:"content"`
	Status    DocumentStatus `gorm:"not null;default:draft;column:status" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Document) TableName() string {
	return "document"
}
