package votes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/rating"
)

// ScoreOutcome is one asset's share of a decisive vote. Counters are applied
// as additive SQL increments; Elo is the absolute value the rating engine
// computed from the row read inside the same transaction.
type ScoreOutcome struct {
	AssetID      uuid.UUID
	Elo          float64
	Won          bool
	Lost         bool
	Tied         bool
	VotesFor     int
	VotesAgainst int
}

type AssetScoreRepo interface {
	EnsureRows(ctx context.Context, tx *gorm.DB, assetIDs []uuid.UUID) error
	GetByAssetIDs(ctx context.Context, tx *gorm.DB, assetIDs []uuid.UUID) ([]*types.AssetScore, error)
	ApplyVoteOutcome(ctx context.Context, tx *gorm.DB, outcome ScoreOutcome, at time.Time) error
	TopByElo(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AssetScore, error)
}

type assetScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetScoreRepo(db *gorm.DB, baseLog *logger.Logger) AssetScoreRepo {
	return &assetScoreRepo{db: db, log: baseLog.With("repo", "AssetScoreRepo")}
}

// EnsureRows inserts default-rating rows for any asset that has none yet.
// Existing rows are left untouched.
func (r *assetScoreRepo) EnsureRows(ctx context.Context, tx *gorm.DB, assetIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(assetIDs) == 0 {
		return nil
	}
	rows := make([]*types.AssetScore, 0, len(assetIDs))
	for _, assetID := range assetIDs {
		rows = append(rows, &types.AssetScore{
			ID:      uuid.New(),
			AssetID: assetID,
			Elo:     rating.DefaultRating,
		})
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "asset_id"}}, DoNothing: true}).
		Create(&rows).Error
}

func (r *assetScoreRepo) GetByAssetIDs(ctx context.Context, tx *gorm.DB, assetIDs []uuid.UUID) ([]*types.AssetScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.AssetScore
	if len(assetIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("asset_id IN ?", assetIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assetScoreRepo) ApplyVoteOutcome(ctx context.Context, tx *gorm.DB, outcome ScoreOutcome, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{
		"elo":           outcome.Elo,
		"polls_count":   gorm.Expr("asset_scores.polls_count + 1"),
		"votes_for":     gorm.Expr("asset_scores.votes_for + ?", outcome.VotesFor),
		"votes_against": gorm.Expr("asset_scores.votes_against + ?", outcome.VotesAgainst),
		"last_poll_at":  at,
		"updated_at":    at,
	}
	switch {
	case outcome.Won:
		updates["wins"] = gorm.Expr("asset_scores.wins + 1")
	case outcome.Lost:
		updates["losses"] = gorm.Expr("asset_scores.losses + 1")
	case outcome.Tied:
		updates["ties"] = gorm.Expr("asset_scores.ties + 1")
	}
	return transaction.WithContext(ctx).
		Model(&types.AssetScore{}).
		Where("asset_id = ?", outcome.AssetID).
		Updates(updates).Error
}

func (r *assetScoreRepo) TopByElo(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AssetScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.AssetScore
	if err := transaction.WithContext(ctx).
		Order("elo DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
