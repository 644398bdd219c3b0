package domain

import (
	"time"

	"github.com/google/uuid"
)

// Voter tracks one visitor's progression. Counters are only mutated through
// additive increments inside the vote transaction so concurrent votes by the
// same visitor never lose an update.
type Voter struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VisitorID   string     `gorm:"uniqueIndex;not null" json:"visitor_id"`
	XP          int        `gorm:"not null;default:0;column:xp" json:"xp"`
	StreakDays  int        `gorm:"not null;default:0" json:"streak_days"`
	TotalVotes  int        `gorm:"not null;default:0" json:"total_votes"`
	LastVotedAt *time.Time `json:"last_voted_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Voter) TableName() string { return "voters" }
