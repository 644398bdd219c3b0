package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

type AssetRepo interface {
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, assets []*types.Asset) error
	GetByKeys(ctx context.Context, tx *gorm.DB, keys []string) ([]*types.Asset, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error)
	ActiveManagedKeys(ctx context.Context, tx *gorm.DB) ([]string, error)
	SetActiveByKeys(ctx context.Context, tx *gorm.DB, keys []string, active bool) (int64, error)
	DeactivateManagedNotIn(ctx context.Context, tx *gorm.DB, keys []string) (int64, error)
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

// CreateIgnoreDuplicates inserts new assets, skipping rows whose key already
// exists. Existing rows are never overwritten here; activation is flipped
// separately so rating history survives.
func (r *assetRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, assets []*types.Asset) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(assets) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&assets).Error
}

func (r *assetRepo) GetByKeys(ctx context.Context, tx *gorm.DB, keys []string) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Asset
	if len(keys) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("key IN ?", keys).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assetRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Asset
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assetRepo) ActiveManagedKeys(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var keys []string
	if err := transaction.WithContext(ctx).
		Model(&types.Asset{}).
		Where("active = ? AND managed = ?", true, true).
		Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *assetRepo) SetActiveByKeys(ctx context.Context, tx *gorm.DB, keys []string, active bool) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(keys) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.Asset{}).
		Where("key IN ? AND active = ?", keys, !active).
		Update("active", active)
	return res.RowsAffected, res.Error
}

// DeactivateManagedNotIn hides seed-sourced assets that dropped out of the
// current seed. Unmanaged rows are never touched.
func (r *assetRepo) DeactivateManagedNotIn(ctx context.Context, tx *gorm.DB, keys []string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.Asset{}).
		Where("managed = ? AND active = ?", true, true)
	if len(keys) > 0 {
		q = q.Where("key NOT IN ?", keys)
	}
	res := q.Update("active", false)
	return res.RowsAffected, res.Error
}
