package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	aihelprepo "github.com/speechfun/speechfun-backend/internal/data/repos/aihelp"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/config"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
	"github.com/speechfun/speechfun-backend/internal/platform/openai"
	"github.com/speechfun/speechfun-backend/internal/platform/rediscache"
)

const wordHelpSystemPrompt = `You are a friendly helper in a speech-practice app for young children.
Given a single English word, answer ONLY with a JSON object with these keys:
"definition": one short, simple sentence a 5-year-old understands,
"example_uses": two short example sentences using the word, separated by " / ",
"fun_fact": one playful fact about the word or the thing it names.
No markdown, no extra keys, no text outside the JSON.`

// WordHelpService proxies the hosted LLM for kid-friendly word
// explanations, with a Redis cache in front so repeated lookups of the
// same word cost nothing.
type WordHelpService interface {
	GetWordHelp(ctx context.Context, userID uuid.UUID, word string) (*types.WordHelp, error)
}

type wordHelpService struct {
	db      *gorm.DB
	log     *logger.Logger
	cfg     config.Config
	llm     openai.Client
	cache   rediscache.Cache
	logRepo aihelprepo.WordHelpLogRepo
}

func NewWordHelpService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.Config,
	llm openai.Client,
	cache rediscache.Cache,
	logRepo aihelprepo.WordHelpLogRepo,
) WordHelpService {
	return &wordHelpService{
		db:      db,
		log:     log.With("service", "WordHelpService"),
		cfg:     cfg,
		llm:     llm,
		cache:   cache,
		logRepo: logRepo,
	}
}

func (s *wordHelpService) GetWordHelp(ctx context.Context, userID uuid.UUID, word string) (*types.WordHelp, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, apierr.InvalidRequest(fmt.Errorf("word is required"))
	}
	if len(word) > 64 || strings.ContainsAny(word, "\n\r\t") {
		return nil, apierr.InvalidRequest(fmt.Errorf("invalid word"))
	}
	if s.llm == nil {
		return nil, apierr.ServiceUnavailable(fmt.Errorf("word help is not available right now"))
	}

	cacheKey := "wordhelp:" + word

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.log.Warn("Word help cache read failed (ignored)", "word", word, "error", err)
		} else if found {
			var help types.WordHelp
			if err := json.Unmarshal([]byte(cached), &help); err == nil {
				return &help, nil
			}
			s.log.Warn("Word help cache entry corrupt (ignored)", "word", word)
		}
	}

	raw, err := s.llm.GenerateText(ctx, wordHelpSystemPrompt, word)
	if err != nil {
		s.log.Error("Word help generation failed", "word", word, "error", err)
		return nil, apierr.ServiceUnavailable(fmt.Errorf("word help is not available right now"))
	}

	help, err := parseWordHelp(word, raw)
	if err != nil {
		s.log.Error("Word help response unparseable", "word", word, "error", err)
		return nil, apierr.ServiceUnavailable(fmt.Errorf("word help is not available right now"))
	}

	// Audit every real model call; cache hits skip this on purpose.
	payload, _ := json.Marshal(help)
	logRow := &types.WordHelpLog{
		UserID:   userID,
		Word:     word,
		Model:    s.llm.Model(),
		Response: datatypes.JSON(payload),
	}
	if _, err := s.logRepo.Create(ctx, nil, []*types.WordHelpLog{logRow}); err != nil {
		s.log.Warn("Failed to write word help log (ignored)", "word", word, "error", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), s.cfg.WordHelpCacheTTL()); err != nil {
			s.log.Warn("Word help cache write failed (ignored)", "word", word, "error", err)
		}
	}

	return help, nil
}

// parseWordHelp tolerates the model wrapping its JSON in a code fence.
func parseWordHelp(word, raw string) (*types.WordHelp, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var help types.WordHelp
	if err := json.Unmarshal([]byte(raw), &help); err != nil {
		return nil, fmt.Errorf("decode word help: %w", err)
	}
	if strings.TrimSpace(help.Definition) == "" {
		return nil, fmt.Errorf("word help missing definition")
	}
	help.Word = word
	return &help, nil
}
