package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type ProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressRecord) (*types.ProgressRecord, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ProgressRecord, error)
	GetByUserIDAndRef(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref types.ChallengeRef) ([]*types.ProgressRecord, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

// Upsert writes the ledger row in a single INSERT ... ON CONFLICT DO
// UPDATE over the (user_id, challenge_kind, challenge_id) key, so two
// concurrent reports for the same challenge converge on one row with the
// last writer's fields.
func (r *progressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressRecord) (*types.ProgressRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}
	row.UpdatedAt = time.Now().UTC()

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "challenge_kind"},
				{Name: "challenge_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "score", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	// ON CONFLICT keeps the existing primary key; re-read so the caller
	// sees the row as stored.
	stored, err := r.GetByUserIDAndRef(ctx, transaction, row.UserID, row.Ref())
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return stored[0], nil
	}
	return row, nil
}

func (r *progressRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ProgressRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressRecord
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) GetByUserIDAndRef(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref types.ChallengeRef) ([]*types.ProgressRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND challenge_kind = ? AND challenge_id = ?", userID, ref.Kind, ref.ID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(userIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.ProgressRecord{}).Error; err != nil {
		return err
	}
	return nil
}
