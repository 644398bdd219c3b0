package votes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

// VoterProgress is the per-vote progression delta. XPGained is additive;
// StreakDays and LastVotedAt are written absolutely since the streak rules
// already resolved them against the previous row.
type VoterProgress struct {
	VisitorID   string
	XPGained    int
	StreakDays  int
	LastVotedAt time.Time
}

type VoterRepo interface {
	GetByVisitorID(ctx context.Context, tx *gorm.DB, visitorID string) (*types.Voter, error)
	ApplyProgress(ctx context.Context, tx *gorm.DB, progress VoterProgress) error
}

type voterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoterRepo(db *gorm.DB, baseLog *logger.Logger) VoterRepo {
	return &voterRepo{db: db, log: baseLog.With("repo", "VoterRepo")}
}

func (r *voterRepo) GetByVisitorID(ctx context.Context, tx *gorm.DB, visitorID string) (*types.Voter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Voter
	if err := transaction.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ApplyProgress upserts the voter row. XP and total_votes are incremented in
// SQL so two concurrent votes by the same visitor both land.
func (r *voterRepo) ApplyProgress(ctx context.Context, tx *gorm.DB, progress VoterProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	row := &types.Voter{
		ID:          uuid.New(),
		VisitorID:   progress.VisitorID,
		XP:          progress.XPGained,
		StreakDays:  progress.StreakDays,
		TotalVotes:  1,
		LastVotedAt: &progress.LastVotedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "visitor_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"xp":            gorm.Expr("voters.xp + ?", progress.XPGained),
				"total_votes":   gorm.Expr("voters.total_votes + 1"),
				"streak_days":   progress.StreakDays,
				"last_voted_at": progress.LastVotedAt,
				"updated_at":    now,
			}),
		}).
		Create(row).Error
}
