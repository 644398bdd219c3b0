package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Vote sides.
const (
	SideLeft  = "LEFT"
	SideRight = "RIGHT"
	SideSkip  = "SKIP"
)

// VoteEvent is the append-only audit record of one decision. Rows are never
// mutated after creation; ratings, exclusion windows and analytics are all
// derived from this log.
type VoteEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PairID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"pair_id"`
	PairKey      string         `gorm:"not null;index" json:"pair_key"`
	VoterID      string         `gorm:"not null;index" json:"voter_id"`
	Side         string         `gorm:"not null" json:"side"`
	LeftKeys     datatypes.JSON `gorm:"not null" json:"left_keys"`
	RightKeys    datatypes.JSON `gorm:"not null" json:"right_keys"`
	SelectedKeys datatypes.JSON `json:"selected_keys,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (VoteEvent) TableName() string { return "vote_events" }
