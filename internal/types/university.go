package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MatchCategory is the coarse admission-difficulty bucket derived from rank.
type MatchCategory string

const (
	CategoryDream  MatchCategory = "Dream"
	CategoryTarget MatchCategory = "Target"
	CategorySafe   MatchCategory = "Safe"
)

type University struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string         `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Country        string         `gorm:"not null;column:country" json:"country"`
	Location       string         `gorm:"column:location" json:"location"`
	Rank           *int           `gorm:"column:rank" json:"rank"`
	TuitionUSD     *int           `gorm:"column:tuition_usd" json:"tuition_usd"`
	AcceptanceRate *float64       `gorm:"column:acceptance_rate" json:"acceptance_rate"`
	Programs       datatypes.JSON `gorm:"column:programs" json:"programs"`
	Description    string         `gorm:"type:text;column:description" json:"description"`
	Strengths      datatypes.JSON `gorm:"column:strengths" json:"strengths"`
	Risks          datatypes.JSON `gorm:"column:risks" json:"risks"`
	Tags           datatypes.JSON `gorm:"column:tags" json:"tags"`
	Website        string         `gorm:"column:website" json:"website"`
	Domain         string         `gorm:"column:domain" json:"domain"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (University) TableName() string {
	return "university"
}
