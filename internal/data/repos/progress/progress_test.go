package progress

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
	types "github.com/speechfun/speechfun-backend/internal/domain"
)

func TestProgressRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "progressrepo", "progressrepo@example.com")
	c := testutil.SeedChallenge(t, tx, "B", "ball")

	first := &types.ProgressRecord{
		UserID:        u.ID,
		ChallengeKind: types.KindLetter,
		ChallengeID:   c.ID,
		Completed:     false,
		Score:         40,
	}
	stored, err := repo.Upsert(ctx, tx, first)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if stored.Score != 40 || stored.Completed {
		t.Fatalf("unexpected stored row: %+v", stored)
	}

	// Reporting the same challenge again must update in place, not add a
	// second row.
	second := &types.ProgressRecord{
		UserID:        u.ID,
		ChallengeKind: types.KindLetter,
		ChallengeID:   c.ID,
		Completed:     true,
		Score:         95,
	}
	stored, err = repo.Upsert(ctx, tx, second)
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if stored.Score != 95 || !stored.Completed {
		t.Fatalf("update not applied: %+v", stored)
	}

	rows, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 ledger row, got %d", len(rows))
	}
	if rows[0].Score != 95 || !rows[0].Completed {
		t.Fatalf("ledger row mismatch: %+v", rows[0])
	}
}

func TestProgressRepoKindsAreDistinct(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "progresskinds", "progresskinds@example.com")
	id := uuid.New()

	for _, kind := range []types.ChallengeKind{types.KindLetter, types.KindYesNo, types.KindFunctional} {
		if _, err := repo.Upsert(ctx, tx, &types.ProgressRecord{
			UserID:        u.ID,
			ChallengeKind: kind,
			ChallengeID:   id,
			Score:         10,
		}); err != nil {
			t.Fatalf("Upsert kind %s: %v", kind, err)
		}
	}

	rows, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	// Same challenge id under three kinds is three separate ledger keys.
	if len(rows) != 3 {
		t.Fatalf("want 3 ledger rows, got %d", len(rows))
	}

	if err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	rows, err = repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil || len(rows) != 0 {
		t.Fatalf("rows after delete: err=%v len=%d", err, len(rows))
	}
}
