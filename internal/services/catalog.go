package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/speechfun/speechfun-backend/internal/data/repos/catalog"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/gcp"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

// CatalogService serves the read-only practice catalogue and handles
// word-audio uploads into the media bucket.
type CatalogService interface {
	ListLetters(ctx context.Context) ([]*types.Letter, error)
	ListWordsByLetter(ctx context.Context, letterID uuid.UUID) ([]*types.Word, error)
	ListChallengesByLetter(ctx context.Context, letterID uuid.UUID, difficulty string) ([]*types.Challenge, error)
	GetChallenge(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error)
	ListYesNoQuestions(ctx context.Context) ([]*types.YesNoQuestion, error)
	ListFunctionalPhrases(ctx context.Context) ([]*types.FunctionalPhrase, error)
	UploadWordAudio(ctx context.Context, wordID uuid.UUID, audio []byte, filename string) (*types.Word, error)
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	catalogRepo   catalogrepo.CatalogRepo
	bucketService gcp.BucketService
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	catalogRepo catalogrepo.CatalogRepo,
	bucketService gcp.BucketService,
) CatalogService {
	return &catalogService{
		db:            db,
		log:           log.With("service", "CatalogService"),
		catalogRepo:   catalogRepo,
		bucketService: bucketService,
	}
}

func (s *catalogService) ListLetters(ctx context.Context) ([]*types.Letter, error) {
	rows, err := s.catalogRepo.ListLetters(ctx, nil)
	if err != nil {
		return nil, apierr.From(err)
	}
	return rows, nil
}

func (s *catalogService) ListWordsByLetter(ctx context.Context, letterID uuid.UUID) ([]*types.Word, error) {
	letters, err := s.catalogRepo.GetLettersByIDs(ctx, nil, []uuid.UUID{letterID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(letters) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("letter %s does not exist", letterID))
	}

	rows, err := s.catalogRepo.ListWordsByLetterID(ctx, nil, letterID)
	if err != nil {
		return nil, apierr.From(err)
	}
	return rows, nil
}

func (s *catalogService) ListChallengesByLetter(ctx context.Context, letterID uuid.UUID, difficulty string) ([]*types.Challenge, error) {
	var filter types.Difficulty
	if d := strings.ToLower(strings.TrimSpace(difficulty)); d != "" {
		filter = types.Difficulty(d)
		if !filter.Known() {
			return nil, apierr.InvalidRequest(fmt.Errorf("unknown difficulty %q", difficulty))
		}
	}

	letters, err := s.catalogRepo.GetLettersByIDs(ctx, nil, []uuid.UUID{letterID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(letters) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("letter %s does not exist", letterID))
	}

	rows, err := s.catalogRepo.ListChallengesByLetterID(ctx, nil, letterID, filter)
	if err != nil {
		return nil, apierr.From(err)
	}
	return rows, nil
}

func (s *catalogService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error) {
	rows, err := s.catalogRepo.GetChallengesByIDs(ctx, nil, []uuid.UUID{challengeID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("challenge %s does not exist", challengeID))
	}
	return rows[0], nil
}

func (s *catalogService) ListYesNoQuestions(ctx context.Context) ([]*types.YesNoQuestion, error) {
	rows, err := s.catalogRepo.ListYesNoQuestions(ctx, nil)
	if err != nil {
		return nil, apierr.From(err)
	}
	return rows, nil
}

func (s *catalogService) ListFunctionalPhrases(ctx context.Context) ([]*types.FunctionalPhrase, error) {
	rows, err := s.catalogRepo.ListFunctionalPhrases(ctx, nil)
	if err != nil {
		return nil, apierr.From(err)
	}
	return rows, nil
}

func (s *catalogService) UploadWordAudio(ctx context.Context, wordID uuid.UUID, audio []byte, filename string) (*types.Word, error) {
	if len(audio) == 0 {
		return nil, apierr.InvalidRequest(fmt.Errorf("audio file is empty"))
	}
	if s.bucketService == nil {
		return nil, apierr.ServiceUnavailable(fmt.Errorf("media storage is not configured"))
	}

	words, err := s.catalogRepo.GetWordsByIDs(ctx, nil, []uuid.UUID{wordID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(words) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("word %s does not exist", wordID))
	}
	word := words[0]

	ext := strings.ToLower(strings.TrimSpace(filename))
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i:]
	} else {
		ext = ".mp3"
	}
	key := fmt.Sprintf("word_audio/%s/%d%s", word.ID.String(), time.Now().UnixNano(), ext)

	if err := s.bucketService.UploadFile(ctx, gcp.BucketCategoryMedia, key, bytes.NewReader(audio)); err != nil {
		return nil, apierr.From(fmt.Errorf("upload word audio: %w", err))
	}

	publicURL := s.bucketService.GetPublicURL(gcp.BucketCategoryMedia, key)
	if err := s.catalogRepo.UpdateWordAudioURL(ctx, nil, word.ID, publicURL); err != nil {
		return nil, apierr.From(err)
	}
	word.AudioURL = publicURL
	return word, nil
}
