package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestionCursor records the last seed version a source was reconciled at.
// Updated only after a successful reconciliation pass.
type IngestionCursor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Source    string    `gorm:"uniqueIndex;not null" json:"source"`
	Version   string    `gorm:"not null" json:"version"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (IngestionCursor) TableName() string { return "ingestion_cursors" }
