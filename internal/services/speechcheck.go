package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/gcp"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type SpeechCheckResult struct {
	TargetWord string  `json:"target_word"`
	Heard      string  `json:"heard"`
	Match      bool    `json:"match"`
	Confidence float32 `json:"confidence"`
}

// SpeechCheckService transcribes a recorded clip and tells the app
// whether the child said the target word.
type SpeechCheckService interface {
	CheckPronunciation(ctx context.Context, targetWord string, audio []byte, mimeType string) (*SpeechCheckResult, error)
}

type speechCheckService struct {
	db     *gorm.DB
	log    *logger.Logger
	speech gcp.Speech
}

func NewSpeechCheckService(db *gorm.DB, log *logger.Logger, speech gcp.Speech) SpeechCheckService {
	return &speechCheckService{
		db:     db,
		log:    log.With("service", "SpeechCheckService"),
		speech: speech,
	}
}

func (s *speechCheckService) CheckPronunciation(ctx context.Context, targetWord string, audio []byte, mimeType string) (*SpeechCheckResult, error) {
	targetWord = strings.TrimSpace(targetWord)
	if targetWord == "" {
		return nil, apierr.InvalidRequest(fmt.Errorf("target word is required"))
	}
	if len(audio) == 0 {
		return nil, apierr.InvalidRequest(fmt.Errorf("audio clip is required"))
	}
	if s.speech == nil {
		return nil, apierr.ServiceUnavailable(fmt.Errorf("speech checking is not available right now"))
	}

	res, err := s.speech.TranscribeClip(ctx, audio, mimeType)
	if err != nil {
		s.log.Error("Transcription failed", "error", err)
		return nil, apierr.ServiceUnavailable(fmt.Errorf("speech checking is not available right now"))
	}

	out := &SpeechCheckResult{
		TargetWord: targetWord,
		Heard:      res.PrimaryText,
		Confidence: res.Confidence,
	}

	target := normalizeSpoken(targetWord)
	for _, heard := range strings.Fields(normalizeSpoken(res.PrimaryText)) {
		if heard == target {
			out.Match = true
			break
		}
	}
	return out, nil
}

// normalizeSpoken lowercases and strips punctuation so "Ball!" matches
// "ball".
func normalizeSpoken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '\'' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
