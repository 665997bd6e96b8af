package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/speechfun/speechfun-backend/internal/data/repos/catalog"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

// CommentService handles the comment thread under each challenge.
// Anyone can read; only the author can edit or delete their comment.
type CommentService interface {
	ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*types.Comment, error)
	Create(ctx context.Context, userID, challengeID uuid.UUID, text string) (*types.Comment, error)
	Update(ctx context.Context, userID, commentID uuid.UUID, text string) (*types.Comment, error)
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	db          *gorm.DB
	log         *logger.Logger
	commentRepo catalogrepo.CommentRepo
	catalogRepo catalogrepo.CatalogRepo
}

func NewCommentService(
	db *gorm.DB,
	log *logger.Logger,
	commentRepo catalogrepo.CommentRepo,
	catalogRepo catalogrepo.CatalogRepo,
) CommentService {
	return &commentService{
		db:          db,
		log:         log.With("service", "CommentService"),
		commentRepo: commentRepo,
		catalogRepo: catalogRepo,
	}
}

func (s *commentService) ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*types.Comment, error) {
	ok, err := s.catalogRepo.ChallengeExists(ctx, nil, challengeID)
	if err != nil {
		return nil, apierr.From(err)
	}
	if !ok {
		return nil, apierr.NotFound(fmt.Errorf("challenge %s does not exist", challengeID))
	}

	rows, err := s.commentRepo.ListByChallengeID(ctx, nil, challengeID)
	if err != nil {
		return nil, apierr.From(err)
	}
	return rows, nil
}

func (s *commentService) Create(ctx context.Context, userID, challengeID uuid.UUID, text string) (*types.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.InvalidRequest(fmt.Errorf("comment text is required"))
	}

	var created *types.Comment
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.catalogRepo.ChallengeExists(ctx, tx, challengeID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound(fmt.Errorf("challenge %s does not exist", challengeID))
		}

		row := &types.Comment{
			UserID:      userID,
			ChallengeID: challengeID,
			Text:        text,
		}
		if _, err := s.commentRepo.Create(ctx, tx, []*types.Comment{row}); err != nil {
			return err
		}

		// Re-read with the author preloaded for the response body.
		rows, err := s.commentRepo.GetByIDs(ctx, tx, []uuid.UUID{row.ID})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			created = rows[0]
		} else {
			created = row
		}
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}
	return created, nil
}

func (s *commentService) Update(ctx context.Context, userID, commentID uuid.UUID, text string) (*types.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.InvalidRequest(fmt.Errorf("comment text is required"))
	}

	var updated *types.Comment
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.getOwned(ctx, tx, userID, commentID)
		if err != nil {
			return err
		}
		if err := s.commentRepo.UpdateText(ctx, tx, row.ID, text); err != nil {
			return err
		}
		row.Text = text
		updated = row
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}
	return updated, nil
}

func (s *commentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.getOwned(ctx, tx, userID, commentID)
		if err != nil {
			return err
		}
		return s.commentRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{row.ID})
	})
	if txErr != nil {
		return apierr.From(txErr)
	}
	return nil
}

func (s *commentService) getOwned(ctx context.Context, tx *gorm.DB, userID, commentID uuid.UUID) (*types.Comment, error) {
	rows, err := s.commentRepo.GetByIDs(ctx, tx, []uuid.UUID{commentID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("comment %s does not exist", commentID))
	}
	if rows[0].UserID != userID {
		return nil, apierr.Forbidden(fmt.Errorf("you can only modify your own comments"))
	}
	return rows[0], nil
}
