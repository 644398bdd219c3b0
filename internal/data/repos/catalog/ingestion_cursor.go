package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

type IngestionCursorRepo interface {
	Get(ctx context.Context, tx *gorm.DB, source string) (*types.IngestionCursor, error)
	Upsert(ctx context.Context, tx *gorm.DB, source, version string) error
}

type ingestionCursorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestionCursorRepo(db *gorm.DB, baseLog *logger.Logger) IngestionCursorRepo {
	return &ingestionCursorRepo{db: db, log: baseLog.With("repo", "IngestionCursorRepo")}
}

func (r *ingestionCursorRepo) Get(ctx context.Context, tx *gorm.DB, source string) (*types.IngestionCursor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.IngestionCursor
	if err := transaction.WithContext(ctx).
		Where("source = ?", source).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Upsert converges concurrent synchronizer runs: last writer wins on the
// version string, which is safe because reconciliation is idempotent.
func (r *ingestionCursorRepo) Upsert(ctx context.Context, tx *gorm.DB, source, version string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	cursor := &types.IngestionCursor{
		ID:        uuid.New(),
		Source:    source,
		Version:   version,
		UpdatedAt: now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"version":    version,
				"updated_at": now,
			}),
		}).
		Create(cursor).Error
}
