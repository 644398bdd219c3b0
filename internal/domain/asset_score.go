package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssetScore holds the running Elo rating and tally counters for one asset.
// Created on the first decisive vote involving the asset, never deleted.
// Elo is only written by the rating engine inside the vote transaction.
type AssetScore struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"asset_id"`
	Elo          float64    `gorm:"not null;default:1500" json:"elo"`
	Wins         int        `gorm:"not null;default:0" json:"wins"`
	Losses       int        `gorm:"not null;default:0" json:"losses"`
	Ties         int        `gorm:"not null;default:0" json:"ties"`
	PollsCount   int        `gorm:"not null;default:0" json:"polls_count"`
	VotesFor     int        `gorm:"not null;default:0" json:"votes_for"`
	VotesAgainst int        `gorm:"not null;default:0" json:"votes_against"`
	LastPollAt   *time.Time `json:"last_poll_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (AssetScore) TableName() string { return "asset_scores" }
