package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	aihelprepo "github.com/speechfun/speechfun-backend/internal/data/repos/aihelp"
	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
	"github.com/speechfun/speechfun-backend/internal/platform/config"
)

type fakeLLM struct {
	calls    int
	response string
	err      error
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Model() string { return "fake-model" }

type memCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Close() error { return nil }

func TestWordHelpCachesModelAnswers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	llm := &fakeLLM{response: `{"definition":"A ball is a round toy you can throw.","example_uses":"I kick the ball. / The ball is red.","fun_fact":"The oldest balls were made of grass!"}`}
	cache := &memCache{m: map[string]string{}}
	logRepo := aihelprepo.NewWordHelpLogRepo(tx, log)

	svc := NewWordHelpService(tx, log, config.Config{WordHelpCacheTTLHours: 24}, llm, cache, logRepo)

	ctx := context.Background()
	u := testutil.SeedUser(t, tx, "wordhelp", "wordhelp@example.com")

	help, err := svc.GetWordHelp(ctx, u.ID, "  Ball ")
	if err != nil {
		t.Fatalf("GetWordHelp: %v", err)
	}
	if help.Word != "ball" || help.Definition == "" {
		t.Fatalf("unexpected help: %+v", help)
	}
	if llm.calls != 1 {
		t.Fatalf("want 1 model call, got %d", llm.calls)
	}

	// Every real model call leaves an audit row.
	rows, err := logRepo.GetLatestByWord(ctx, nil, "ball")
	if err != nil || len(rows) != 1 {
		t.Fatalf("audit rows: err=%v len=%d", err, len(rows))
	}
	if rows[0].Model != "fake-model" {
		t.Fatalf("audit row model: %s", rows[0].Model)
	}

	// Second lookup is a cache hit: no new model call, no new audit row.
	if _, err := svc.GetWordHelp(ctx, u.ID, "ball"); err != nil {
		t.Fatalf("GetWordHelp cached: %v", err)
	}
	if llm.calls != 1 {
		t.Fatalf("cache miss on repeat lookup: %d calls", llm.calls)
	}
}

func TestWordHelpModelFailureIs503(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	llm := &fakeLLM{err: errors.New("model overloaded")}
	logRepo := aihelprepo.NewWordHelpLogRepo(tx, log)

	svc := NewWordHelpService(tx, log, config.Config{WordHelpCacheTTLHours: 24}, llm, nil, logRepo)

	ctx := context.Background()
	u := testutil.SeedUser(t, tx, "wordhelpfail", "wordhelpfail@example.com")

	_, err := svc.GetWordHelp(ctx, u.ID, "ball")
	if got := apiStatus(t, err); got != 503 {
		t.Fatalf("model failure: want 503, got %d", got)
	}

	if _, err := svc.GetWordHelp(ctx, u.ID, ""); err == nil {
		t.Fatalf("empty word accepted")
	}
}

func TestParseWordHelpToleratesCodeFences(t *testing.T) {
	raw := "```json\n{\"definition\":\"A dog is a friendly pet.\",\"example_uses\":\"The dog barks.\",\"fun_fact\":\"Dogs can smell feelings!\"}\n```"
	help, err := parseWordHelp("dog", raw)
	if err != nil {
		t.Fatalf("parseWordHelp: %v", err)
	}
	if help.Word != "dog" || help.Definition == "" {
		t.Fatalf("unexpected parse: %+v", help)
	}

	if _, err := parseWordHelp("dog", "sorry, I can't help with that"); err == nil {
		t.Fatalf("prose accepted as JSON")
	}
	if _, err := parseWordHelp("dog", `{"example_uses":"x"}`); err == nil {
		t.Fatalf("missing definition accepted")
	}
}
