package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

// PairFilter narrows the eligible pool for selection.
type PairFilter struct {
	Mode string
}

type VotingPairRepo interface {
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, pairs []*types.VotingPair) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VotingPair, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]*types.VotingPair, error)
	SetActiveByPairKeys(ctx context.Context, tx *gorm.DB, pairKeys []string, active bool) (int64, error)
	DeactivateNotIn(ctx context.Context, tx *gorm.DB, pairKeys []string) (int64, error)
	DeactivateByPairKeys(ctx context.Context, tx *gorm.DB, pairKeys []string) (int64, error)
	SetFeaturedByPairKeys(ctx context.Context, tx *gorm.DB, pairKeys []string, featured bool) (int64, error)
	ClearFeaturedNotIn(ctx context.Context, tx *gorm.DB, pairKeys []string) (int64, error)
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
	CountEligible(ctx context.Context, tx *gorm.DB, filter PairFilter, featured bool, excludeIDs []uuid.UUID) (int64, error)
	GetEligibleAtOffset(ctx context.Context, tx *gorm.DB, filter PairFilter, featured bool, excludeIDs []uuid.UUID, offset int) (*types.VotingPair, error)
}

type votingPairRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVotingPairRepo(db *gorm.DB, baseLog *logger.Logger) VotingPairRepo {
	return &votingPairRepo{db: db, log: baseLog.With("repo", "VotingPairRepo")}
}

func (r *votingPairRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, pairs []*types.VotingPair) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(pairs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pair_key"}}, DoNothing: true}).
		Create(&pairs).Error
}

func (r *votingPairRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VotingPair, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.VotingPair
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *votingPairRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]*types.VotingPair, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.VotingPair
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *votingPairRepo) SetActiveByPairKeys(ctx context.Context, tx *gorm.DB, pairKeys []string, active bool) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(pairKeys) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.VotingPair{}).
		Where("pair_key IN ? AND active = ?", pairKeys, !active).
		Update("active", active)
	return res.RowsAffected, res.Error
}

func (r *votingPairRepo) DeactivateNotIn(ctx context.Context, tx *gorm.DB, pairKeys []string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.VotingPair{}).
		Where("active = ?", true)
	if len(pairKeys) > 0 {
		q = q.Where("pair_key NOT IN ?", pairKeys)
	}
	res := q.Update("active", false)
	return res.RowsAffected, res.Error
}

func (r *votingPairRepo) DeactivateByPairKeys(ctx context.Context, tx *gorm.DB, pairKeys []string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(pairKeys) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.VotingPair{}).
		Where("pair_key IN ? AND active = ?", pairKeys, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (r *votingPairRepo) SetFeaturedByPairKeys(ctx context.Context, tx *gorm.DB, pairKeys []string, featured bool) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(pairKeys) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.VotingPair{}).
		Where("pair_key IN ? AND featured = ?", pairKeys, !featured).
		Update("featured", featured)
	return res.RowsAffected, res.Error
}

func (r *votingPairRepo) ClearFeaturedNotIn(ctx context.Context, tx *gorm.DB, pairKeys []string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.VotingPair{}).
		Where("featured = ?", true)
	if len(pairKeys) > 0 {
		q = q.Where("pair_key NOT IN ?", pairKeys)
	}
	res := q.Update("featured", false)
	return res.RowsAffected, res.Error
}

func (r *votingPairRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.VotingPair{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *votingPairRepo) CountEligible(ctx context.Context, tx *gorm.DB, filter PairFilter, featured bool, excludeIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := eligibleQuery(transaction.WithContext(ctx), filter, featured, excludeIDs).
		Count(&count).Error
	return count, err
}

// GetEligibleAtOffset fetches a single eligible row at a computed ordinal
// offset so the selector never loads a whole bucket into memory.
func (r *votingPairRepo) GetEligibleAtOffset(ctx context.Context, tx *gorm.DB, filter PairFilter, featured bool, excludeIDs []uuid.UUID, offset int) (*types.VotingPair, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.VotingPair
	if err := eligibleQuery(transaction.WithContext(ctx), filter, featured, excludeIDs).
		Order("id").
		Offset(offset).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func eligibleQuery(db *gorm.DB, filter PairFilter, featured bool, excludeIDs []uuid.UUID) *gorm.DB {
	q := db.Model(&types.VotingPair{}).
		Where("active = ? AND featured = ?", true, featured)
	if filter.Mode != "" {
		q = q.Where("mode = ?", filter.Mode)
	}
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	return q
}
