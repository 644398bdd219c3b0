package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VotingPair is a matchup between a left and a right bundle of asset keys.
// PairKey is derived from the sorted union of both sides, so regenerating the
// same seed always lands on the same row. Pairs referenced by votes are never
// deleted; Active gates selection.
type VotingPair struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PairKey   string         `gorm:"uniqueIndex;not null" json:"pair_key"`
	LeftKeys  datatypes.JSON `gorm:"not null" json:"left_keys"`
	RightKeys datatypes.JSON `gorm:"not null" json:"right_keys"`
	Mode      string         `gorm:"not null;index" json:"mode"`
	Prompt    string         `gorm:"not null" json:"prompt"`
	Closeness float64        `gorm:"not null;default:0" json:"closeness"`
	Featured  bool           `gorm:"not null;default:false;index" json:"featured"`
	Active    bool           `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (VotingPair) TableName() string { return "voting_pairs" }

// Sides decodes the stored bundles.
func (p *VotingPair) Sides() (left, right []string, err error) {
	if err := json.Unmarshal(p.LeftKeys, &left); err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(p.RightKeys, &right); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// EncodeKeys marshals bundle key slices for storage.
func EncodeKeys(keys []string) datatypes.JSON {
	b, _ := json.Marshal(keys)
	return datatypes.JSON(b)
}
