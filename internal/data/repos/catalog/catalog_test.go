package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
	types "github.com/speechfun/speechfun-backend/internal/domain"
)

func TestCatalogRepoChallengeListing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCatalogRepo(db, testutil.Logger(t))

	l := &types.Letter{Letter: "S"}
	if err := tx.Create(l).Error; err != nil {
		t.Fatalf("seed letter: %v", err)
	}
	w := &types.Word{LetterID: l.ID, Word: "sun", Difficulty: types.DifficultyEasy}
	if err := tx.Create(w).Error; err != nil {
		t.Fatalf("seed word: %v", err)
	}
	easy := &types.Challenge{WordID: w.ID, Title: "Say sun", Difficulty: types.DifficultyEasy}
	hard := &types.Challenge{WordID: w.ID, Title: "Use sun in a sentence", Difficulty: types.DifficultyHard}
	if err := tx.Create(easy).Error; err != nil {
		t.Fatalf("seed easy: %v", err)
	}
	if err := tx.Create(hard).Error; err != nil {
		t.Fatalf("seed hard: %v", err)
	}

	all, err := repo.ListChallengesByLetterID(ctx, tx, l.ID, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("list all: err=%v len=%d", err, len(all))
	}

	onlyHard, err := repo.ListChallengesByLetterID(ctx, tx, l.ID, types.DifficultyHard)
	if err != nil || len(onlyHard) != 1 {
		t.Fatalf("list hard: err=%v len=%d", err, len(onlyHard))
	}
	if onlyHard[0].ID != hard.ID {
		t.Fatalf("difficulty filter returned wrong challenge")
	}
	if onlyHard[0].Word == nil || onlyHard[0].Word.Word != "sun" {
		t.Fatalf("word not preloaded: %+v", onlyHard[0].Word)
	}

	ok, err := repo.ChallengeExists(ctx, tx, easy.ID)
	if err != nil || !ok {
		t.Fatalf("ChallengeExists: err=%v ok=%v", err, ok)
	}
	ok, err = repo.ChallengeExists(ctx, tx, uuid.New())
	if err != nil || ok {
		t.Fatalf("ChallengeExists on random id: err=%v ok=%v", err, ok)
	}
}

func TestCatalogRepoWordsAndAudio(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCatalogRepo(db, testutil.Logger(t))

	l := &types.Letter{Letter: "T"}
	if err := tx.Create(l).Error; err != nil {
		t.Fatalf("seed letter: %v", err)
	}
	w := &types.Word{LetterID: l.ID, Word: "tree", Difficulty: types.DifficultyMedium}
	if err := tx.Create(w).Error; err != nil {
		t.Fatalf("seed word: %v", err)
	}

	words, err := repo.ListWordsByLetterID(ctx, tx, l.ID)
	if err != nil || len(words) != 1 {
		t.Fatalf("ListWordsByLetterID: err=%v len=%d", err, len(words))
	}

	if err := repo.UpdateWordAudioURL(ctx, tx, w.ID, "https://cdn.example.com/words/tree.mp3"); err != nil {
		t.Fatalf("UpdateWordAudioURL: %v", err)
	}
	words, err = repo.GetWordsByIDs(ctx, tx, []uuid.UUID{w.ID})
	if err != nil || len(words) != 1 {
		t.Fatalf("GetWordsByIDs: err=%v len=%d", err, len(words))
	}
	if words[0].AudioURL == "" {
		t.Fatalf("audio url not stored")
	}
}
