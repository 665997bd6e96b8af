package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type VerificationTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tokens []*types.VerificationToken) ([]*types.VerificationToken, error)
	GetByTokens(ctx context.Context, tx *gorm.DB, tokens []string) ([]*types.VerificationToken, error)
	Consume(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) (bool, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, tokenIDs []uuid.UUID) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type verificationTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerificationTokenRepo(db *gorm.DB, baseLog *logger.Logger) VerificationTokenRepo {
	repoLog := baseLog.With("repo", "VerificationTokenRepo")
	return &verificationTokenRepo{db: db, log: repoLog}
}

func (r *verificationTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.VerificationToken) ([]*types.VerificationToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tokens) == 0 {
		return []*types.VerificationToken{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *verificationTokenRepo) GetByTokens(ctx context.Context, tx *gorm.DB, tokens []string) ([]*types.VerificationToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VerificationToken
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

// Consume deletes the token and reports whether this caller removed the
// row. The DELETE is the redemption gate: under concurrent attempts only
// one transaction sees RowsAffected == 1, everyone else gets false.
func (r *verificationTokenRepo) Consume(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", tokenID).
		Delete(&types.VerificationToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Verification tokens are single-use; deletion is always physical.
func (r *verificationTokenRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, tokenIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tokenIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", tokenIDs).
		Delete(&types.VerificationToken{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *verificationTokenRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(userIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.VerificationToken{}).Error; err != nil {
		return err
	}
	return nil
}
