package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Asset is a votable entity. Rows are never physically deleted; the
// synchronizer flips Active instead so rating history survives seed churn.
type Asset struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string         `gorm:"uniqueIndex;not null;column:key" json:"key"`
	Label     string         `gorm:"not null" json:"label"`
	Tier      string         `gorm:"not null;index" json:"tier"`
	Active    bool           `gorm:"not null;default:true;index" json:"active"`
	Managed   bool           `gorm:"not null;default:true" json:"managed"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

// AssetMetadata is the shape stored in Asset.Metadata.
type AssetMetadata struct {
	SeedRange string  `json:"seed_range"`
	MinValue  float64 `json:"min_value"`
	MaxValue  float64 `json:"max_value"`
	Midpoint  float64 `json:"midpoint"`
	TierIndex int     `json:"tier_index"`
}
