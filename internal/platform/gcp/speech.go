package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

// Speech transcribes short recorded clips (a child saying one word or a
// short phrase) through Google Speech-to-Text.
type Speech interface {
	TranscribeClip(ctx context.Context, audio []byte, mimeType string) (*SpeechResult, error)
	Close() error
}

type SpeechResult struct {
	PrimaryText string  `json:"primary_text"`
	Confidence  float32 `json:"confidence"`
}

type speechService struct {
	log          *logger.Logger
	client       *speech.Client
	languageCode string
}

func NewSpeech(log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	serviceLog := log.With("service", "gcp.Speech")

	ctx := context.Background()
	c, err := speech.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	lang := strings.TrimSpace(os.Getenv("SPEECH_LANGUAGE_CODE"))
	if lang == "" {
		lang = "en-US"
	}

	return &speechService{
		log:          serviceLog,
		client:       c,
		languageCode: lang,
	}, nil
}

func (s *speechService) TranscribeClip(ctx context.Context, audio []byte, mimeType string) (*SpeechResult, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: empty audio")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	encoding, sampleRate := encodingForMime(mimeType)
	config := &speechpb.RecognitionConfig{
		Encoding:     encoding,
		LanguageCode: s.languageCode,
		// Short single-word clips; the default model handles them.
		EnableAutomaticPunctuation: false,
	}
	if sampleRate > 0 {
		config.SampleRateHertz = sampleRate
	}

	req := &speechpb.RecognizeRequest{
		Config: config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := s.client.Recognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}

	out := &SpeechResult{}
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if out.PrimaryText != "" {
			out.PrimaryText += " "
		}
		out.PrimaryText += strings.TrimSpace(alts[0].GetTranscript())
		if alts[0].GetConfidence() > out.Confidence {
			out.Confidence = alts[0].GetConfidence()
		}
	}
	out.PrimaryText = strings.TrimSpace(out.PrimaryText)
	return out, nil
}

func (s *speechService) Close() error {
	return s.client.Close()
}

// encodingForMime maps the uploaded clip's MIME type onto the recognizer
// config. Opus encodings also need an explicit sample rate: the API
// rejects OGG_OPUS and WEBM_OPUS requests without one, and browser
// recorders emit 48 kHz. Container formats that carry their own rate
// return 0.
func encodingForMime(mimeType string) (speechpb.RecognitionConfig_AudioEncoding, int32) {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		// WAV headers carry the sample rate; leave encoding unspecified so
		// the API reads it from the container.
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0
	case "audio/flac":
		return speechpb.RecognitionConfig_FLAC, 0
	case "audio/ogg", "audio/opus":
		return speechpb.RecognitionConfig_OGG_OPUS, 48000
	case "audio/webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, 48000
	case "audio/mpeg", "audio/mp3":
		return speechpb.RecognitionConfig_MP3, 0
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0
	}
}
