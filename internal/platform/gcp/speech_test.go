package gcp

import (
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

func TestEncodingForMime(t *testing.T) {
	cases := []struct {
		mime       string
		encoding   speechpb.RecognitionConfig_AudioEncoding
		sampleRate int32
	}{
		{"audio/wav", speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0},
		{"audio/x-wav", speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0},
		{"audio/flac", speechpb.RecognitionConfig_FLAC, 0},
		{"audio/ogg", speechpb.RecognitionConfig_OGG_OPUS, 48000},
		{"audio/opus", speechpb.RecognitionConfig_OGG_OPUS, 48000},
		{"audio/webm", speechpb.RecognitionConfig_WEBM_OPUS, 48000},
		{"AUDIO/WEBM", speechpb.RecognitionConfig_WEBM_OPUS, 48000},
		{"audio/mpeg", speechpb.RecognitionConfig_MP3, 0},
		{"application/octet-stream", speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0},
	}

	for _, tc := range cases {
		encoding, sampleRate := encodingForMime(tc.mime)
		if encoding != tc.encoding {
			t.Fatalf("%s: encoding = %v, want %v", tc.mime, encoding, tc.encoding)
		}
		if sampleRate != tc.sampleRate {
			t.Fatalf("%s: sample rate = %d, want %d", tc.mime, sampleRate, tc.sampleRate)
		}
	}
}
