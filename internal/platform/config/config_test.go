package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if got := cfg.VerificationTTL(); got != 24*time.Hour {
		t.Fatalf("verification ttl = %v, want 24h", got)
	}
	if got := cfg.AccessTokenTTL(); got != 30*24*time.Hour {
		t.Fatalf("access token ttl = %v, want 720h", got)
	}
	if got := cfg.OutboundTimeout(); got != 10*time.Second {
		t.Fatalf("outbound timeout = %v, want 10s", got)
	}
	if got := cfg.WordHelpCacheTTL(); got != 24*time.Hour {
		t.Fatalf("word help cache ttl = %v, want 24h", got)
	}
}
