package services

import (
	"context"
	"testing"

	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
	"github.com/speechfun/speechfun-backend/internal/platform/gcp"
)

type fakeSpeech struct {
	result *gcp.SpeechResult
	err    error
}

func (f *fakeSpeech) TranscribeClip(ctx context.Context, audio []byte, mimeType string) (*gcp.SpeechResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSpeech) Close() error { return nil }

func TestCheckPronunciation(t *testing.T) {
	log := testutil.Logger(t)
	ctx := context.Background()
	clip := []byte{0x01, 0x02}

	cases := []struct {
		name   string
		target string
		heard  string
		match  bool
	}{
		{"exact", "ball", "ball", true},
		{"punctuated", "ball", "Ball!", true},
		{"within phrase", "ball", "the big ball", true},
		{"different word", "ball", "doll", false},
		{"substring only", "all", "ball", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSpeechCheckService(nil, log, &fakeSpeech{
				result: &gcp.SpeechResult{PrimaryText: tc.heard, Confidence: 0.9},
			})
			res, err := svc.CheckPronunciation(ctx, tc.target, clip, "audio/wav")
			if err != nil {
				t.Fatalf("CheckPronunciation: %v", err)
			}
			if res.Match != tc.match {
				t.Fatalf("target %q heard %q: match=%v, want %v", tc.target, tc.heard, res.Match, tc.match)
			}
		})
	}
}

func TestCheckPronunciationValidation(t *testing.T) {
	log := testutil.Logger(t)
	ctx := context.Background()

	svc := NewSpeechCheckService(nil, log, &fakeSpeech{result: &gcp.SpeechResult{}})

	if _, err := svc.CheckPronunciation(ctx, "", []byte{1}, "audio/wav"); err == nil {
		t.Fatalf("empty target accepted")
	}
	if _, err := svc.CheckPronunciation(ctx, "ball", nil, "audio/wav"); err == nil {
		t.Fatalf("empty clip accepted")
	}

	// No transcriber configured means the endpoint degrades, not crashes.
	degraded := NewSpeechCheckService(nil, log, nil)
	_, err := degraded.CheckPronunciation(ctx, "ball", []byte{1}, "audio/wav")
	if got := apiStatus(t, err); got != 503 {
		t.Fatalf("degraded: want 503, got %d", got)
	}
}
