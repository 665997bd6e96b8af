package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type CatalogRepo interface {
	ListLetters(ctx context.Context, tx *gorm.DB) ([]*types.Letter, error)
	GetLettersByIDs(ctx context.Context, tx *gorm.DB, letterIDs []uuid.UUID) ([]*types.Letter, error)
	ListWordsByLetterID(ctx context.Context, tx *gorm.DB, letterID uuid.UUID) ([]*types.Word, error)
	GetWordsByIDs(ctx context.Context, tx *gorm.DB, wordIDs []uuid.UUID) ([]*types.Word, error)
	UpdateWordAudioURL(ctx context.Context, tx *gorm.DB, wordID uuid.UUID, audioURL string) error
	ListChallengesByLetterID(ctx context.Context, tx *gorm.DB, letterID uuid.UUID, difficulty types.Difficulty) ([]*types.Challenge, error)
	GetChallengesByIDs(ctx context.Context, tx *gorm.DB, challengeIDs []uuid.UUID) ([]*types.Challenge, error)
	ChallengeExists(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (bool, error)
	ListYesNoQuestions(ctx context.Context, tx *gorm.DB) ([]*types.YesNoQuestion, error)
	YesNoQuestionExists(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (bool, error)
	ListFunctionalPhrases(ctx context.Context, tx *gorm.DB) ([]*types.FunctionalPhrase, error)
	FunctionalPhraseExists(ctx context.Context, tx *gorm.DB, phraseID uuid.UUID) (bool, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	repoLog := baseLog.With("repo", "CatalogRepo")
	return &catalogRepo{db: db, log: repoLog}
}

func (r *catalogRepo) ListLetters(ctx context.Context, tx *gorm.DB) ([]*types.Letter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Letter
	if err := transaction.WithContext(ctx).
		Order("letter ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetLettersByIDs(ctx context.Context, tx *gorm.DB, letterIDs []uuid.UUID) ([]*types.Letter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Letter
	if len(letterIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", letterIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) ListWordsByLetterID(ctx context.Context, tx *gorm.DB, letterID uuid.UUID) ([]*types.Word, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Word
	if err := transaction.WithContext(ctx).
		Where("letter_id = ?", letterID).
		Order("word ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetWordsByIDs(ctx context.Context, tx *gorm.DB, wordIDs []uuid.UUID) ([]*types.Word, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Word
	if len(wordIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", wordIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) UpdateWordAudioURL(ctx context.Context, tx *gorm.DB, wordID uuid.UUID, audioURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Word{}).
		Where("id = ?", wordID).
		Update("audio_url", audioURL).Error; err != nil {
		return err
	}
	return nil
}

// ListChallengesByLetterID joins through word so callers filter by the
// letter the challenge's word belongs to. An empty difficulty means all.
func (r *catalogRepo) ListChallengesByLetterID(ctx context.Context, tx *gorm.DB, letterID uuid.UUID, difficulty types.Difficulty) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Joins("JOIN word ON word.id = challenge.word_id").
		Where("word.letter_id = ?", letterID).
		Preload("Word")
	if difficulty != "" {
		query = query.Where("challenge.difficulty = ?", difficulty)
	}

	var results []*types.Challenge
	if err := query.
		Order("challenge.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetChallengesByIDs(ctx context.Context, tx *gorm.DB, challengeIDs []uuid.UUID) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if len(challengeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", challengeIDs).
		Preload("Word").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) ChallengeExists(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tx, &types.Challenge{}, challengeID)
}

func (r *catalogRepo) ListYesNoQuestions(ctx context.Context, tx *gorm.DB) ([]*types.YesNoQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.YesNoQuestion
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) YesNoQuestionExists(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (bool, error) {
	return r.exists(ctx, tx, &types.YesNoQuestion{}, questionID)
}

func (r *catalogRepo) ListFunctionalPhrases(ctx context.Context, tx *gorm.DB) ([]*types.FunctionalPhrase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FunctionalPhrase
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) FunctionalPhraseExists(ctx context.Context, tx *gorm.DB, phraseID uuid.UUID) (bool, error) {
	return r.exists(ctx, tx, &types.FunctionalPhrase{}, phraseID)
}

func (r *catalogRepo) exists(ctx context.Context, tx *gorm.DB, model interface{}, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
