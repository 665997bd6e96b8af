package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/speechfun/speechfun-backend/internal/data/repos/catalog"
	progressrepo "github.com/speechfun/speechfun-backend/internal/data/repos/progress"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/domain/progress"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type ReportProgressInput struct {
	ChallengeID   string `json:"challenge" binding:"required"`
	ChallengeKind string `json:"challenge_type"`
	Completed     bool   `json:"completed"`
	Score         int    `json:"score"`
}

// ProgressService keeps the per-user ledger: one row per
// (user, challenge kind, challenge), updated in place on every report.
type ProgressService interface {
	ReportProgress(ctx context.Context, userID uuid.UUID, input ReportProgressInput) (*types.ProgressState, error)
	GetProgress(ctx context.Context, userID uuid.UUID) ([]types.ProgressState, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo progressrepo.ProgressRepo
	catalogRepo  catalogrepo.CatalogRepo
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo progressrepo.ProgressRepo,
	catalogRepo catalogrepo.CatalogRepo,
) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		progressRepo: progressRepo,
		catalogRepo:  catalogRepo,
	}
}

func (s *progressService) ReportProgress(ctx context.Context, userID uuid.UUID, input ReportProgressInput) (*types.ProgressState, error) {
	challengeID, err := uuid.Parse(input.ChallengeID)
	if err != nil {
		return nil, apierr.InvalidRequest(fmt.Errorf("invalid challenge id"))
	}
	kind, err := progress.ParseKind(input.ChallengeKind)
	if err != nil {
		return nil, apierr.InvalidRequest(err)
	}

	var state *types.ProgressState
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.challengeExists(ctx, tx, kind, challengeID)
		if err != nil {
			return err
		}
		if !exists {
			return apierr.NotFound(fmt.Errorf("%s challenge %s does not exist", kind, challengeID))
		}

		row := &types.ProgressRecord{
			UserID:        userID,
			ChallengeKind: kind,
			ChallengeID:   challengeID,
			Completed:     input.Completed,
			Score:         input.Score,
		}
		stored, err := s.progressRepo.Upsert(ctx, tx, row)
		if err != nil {
			return err
		}
		st := stored.State()
		state = &st
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}
	return state, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID uuid.UUID) ([]types.ProgressState, error) {
	rows, err := s.progressRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.From(err)
	}
	out := make([]types.ProgressState, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.State())
	}
	return out, nil
}

func (s *progressService) challengeExists(ctx context.Context, tx *gorm.DB, kind types.ChallengeKind, id uuid.UUID) (bool, error) {
	switch kind {
	case types.KindLetter:
		return s.catalogRepo.ChallengeExists(ctx, tx, id)
	case types.KindYesNo:
		return s.catalogRepo.YesNoQuestionExists(ctx, tx, id)
	case types.KindFunctional:
		return s.catalogRepo.FunctionalPhraseExists(ctx, tx, id)
	default:
		return false, fmt.Errorf("unknown challenge kind %q", kind)
	}
}
