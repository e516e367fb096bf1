package types

import (
	"time"

	"github.com/google/uuid"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title        string       `gorm:"not null;column:title" json:"title"`
	Description  string       `gorm:"type:text;column:description" json:"description"`
	Completed    bool         `gorm:"not null;default:false;column:completed" json:"completed"`
	Priority     TaskPriority `gorm:"not null;default:medium;column:priority" json:"priority"`
	Stage        Stage        `gorm:"not null;default:1;column:stage" json:"stage"`
	UniversityID *uuid.UUID   `gorm:"type:uuid;column:university_id" json:"university_id"`
	Due          *time.Time   `gorm:"column:due" json:"due"`
	CreatedAt    time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Task) TableName() string {
	return "task"
}
