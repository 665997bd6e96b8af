package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type AccessTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tokens []*types.AccessToken) ([]*types.AccessToken, error)
	GetByTokens(ctx context.Context, tx *gorm.DB, tokens []string) ([]*types.AccessToken, error)
	GetLiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]*types.AccessToken, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, tokenIDs []uuid.UUID) error
	SoftDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type accessTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccessTokenRepo(db *gorm.DB, baseLog *logger.Logger) AccessTokenRepo {
	repoLog := baseLog.With("repo", "AccessTokenRepo")
	return &accessTokenRepo{db: db, log: repoLog}
}

func (r *accessTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.AccessToken) ([]*types.AccessToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tokens) == 0 {
		return []*types.AccessToken{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *accessTokenRepo) GetByTokens(ctx context.Context, tx *gorm.DB, tokens []string) ([]*types.AccessToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AccessToken
	if len(tokens) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("token IN ?", tokens).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetLiveByUserID returns the user's unexpired tokens, newest first, so
// login can hand back an existing one instead of minting another.
func (r *accessTokenRepo) GetLiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]*types.AccessToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AccessToken
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *accessTokenRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, tokenIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tokenIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", tokenIDs).
		Delete(&types.AccessToken{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *accessTokenRepo) SoftDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(userIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.AccessToken{}).Error; err != nil {
		return err
	}
	return nil
}
