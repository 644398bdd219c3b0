package votes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

type VoteEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.VoteEvent) error
	RecentPairIDsByVoter(ctx context.Context, tx *gorm.DB, voterID string, limit int) ([]uuid.UUID, error)
	CountByVoter(ctx context.Context, tx *gorm.DB, voterID string) (int64, error)
}

type voteEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteEventRepo(db *gorm.DB, baseLog *logger.Logger) VoteEventRepo {
	return &voteEventRepo{db: db, log: baseLog.With("repo", "VoteEventRepo")}
}

func (r *voteEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.VoteEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(event).Error
}

// RecentPairIDsByVoter is the fallback exclusion source when the cache has no
// recent-pairs window for the visitor.
func (r *voteEventRepo) RecentPairIDsByVoter(ctx context.Context, tx *gorm.DB, voterID string, limit int) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.VoteEvent{}).
		Where("voter_id = ?", voterID).
		Group("pair_id").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Pluck("pair_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *voteEventRepo) CountByVoter(ctx context.Context, tx *gorm.DB, voterID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.VoteEvent{}).
		Where("voter_id = ?", voterID).
		Count(&count).Error
	return count, err
}
