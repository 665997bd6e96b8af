package aihelp

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type WordHelpLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WordHelpLog) ([]*types.WordHelpLog, error)
	GetLatestByWord(ctx context.Context, tx *gorm.DB, word string) ([]*types.WordHelpLog, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.WordHelpLog, error)
}

type wordHelpLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWordHelpLogRepo(db *gorm.DB, baseLog *logger.Logger) WordHelpLogRepo {
	repoLog := baseLog.With("repo", "WordHelpLogRepo")
	return &wordHelpLogRepo{db: db, log: repoLog}
}

func (r *wordHelpLogRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WordHelpLog) ([]*types.WordHelpLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.WordHelpLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *wordHelpLogRepo) GetLatestByWord(ctx context.Context, tx *gorm.DB, word string) ([]*types.WordHelpLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WordHelpLog
	if err := transaction.WithContext(ctx).
		Where("word = ?", word).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *wordHelpLogRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.WordHelpLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WordHelpLog
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
