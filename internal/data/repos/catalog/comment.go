package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) ([]*types.Comment, error)
	ListByChallengeID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) ([]*types.Comment, error)
	UpdateText(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, text string) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	repoLog := baseLog.With("repo", "CommentRepo")
	return &commentRepo{db: db, log: repoLog}
}

func (r *commentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(comments) == 0 {
		return []*types.Comment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Comment
	if len(commentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", commentIDs).
		Preload("User").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *commentRepo) ListByChallengeID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Comment
	if err := transaction.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("created_at DESC").
		Preload("User").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *commentRepo) UpdateText(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, text string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", commentID).
		Update("text", text).Error; err != nil {
		return err
	}
	return nil
}

func (r *commentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, commentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(commentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", commentIDs).
		Delete(&types.Comment{}).Error; err != nil {
		return err
	}
	return nil
}
