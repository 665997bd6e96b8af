package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	domauth "github.com/speechfun/speechfun-backend/internal/domain/auth"
)

func TestAccessTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAccessTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "accesstokenrepo", "accesstokenrepo@example.com")
	now := time.Now().UTC()

	tok := &types.AccessToken{
		UserID:    u.ID,
		Token:     domauth.NewOpaqueToken(),
		ExpiresAt: now.Add(30 * 24 * time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.AccessToken{tok}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByTokens(ctx, tx, []string{tok.Token})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByTokens: err=%v len=%d", err, len(rows))
	}
	if rows[0].UserID != u.ID {
		t.Fatalf("token bound to wrong user: %s", rows[0].UserID)
	}

	live, err := repo.GetLiveByUserID(ctx, tx, u.ID, now)
	if err != nil || len(live) != 1 {
		t.Fatalf("GetLiveByUserID: err=%v len=%d", err, len(live))
	}

	// Expired rows never come back as live.
	expired := &types.AccessToken{
		UserID:    u.ID,
		Token:     domauth.NewOpaqueToken(),
		ExpiresAt: now.Add(-time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.AccessToken{expired}); err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	live, err = repo.GetLiveByUserID(ctx, tx, u.ID, now)
	if err != nil || len(live) != 1 {
		t.Fatalf("live after expired seed: err=%v len=%d", err, len(live))
	}

	if err := repo.SoftDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("SoftDeleteByUserIDs: %v", err)
	}
	rows, err = repo.GetByTokens(ctx, tx, []string{tok.Token})
	if err != nil || len(rows) != 0 {
		t.Fatalf("tokens visible after soft delete: err=%v len=%d", err, len(rows))
	}
}

func TestVerificationTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewVerificationTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "verifytokenrepo", "verifytokenrepo@example.com")
	now := time.Now().UTC()

	tok := &types.VerificationToken{
		UserID:    u.ID,
		Token:     domauth.NewOpaqueToken(),
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.VerificationToken{tok}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByTokens(ctx, tx, []string{tok.Token})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByTokens: err=%v len=%d", err, len(rows))
	}
	if !rows[0].Valid(now) {
		t.Fatalf("fresh token reported invalid")
	}
	if rows[0].Valid(now.Add(25 * time.Hour)) {
		t.Fatalf("token valid past expiry")
	}

	// Consumption removes the row for good.
	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{rows[0].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	rows, err = repo.GetByTokens(ctx, tx, []string{tok.Token})
	if err != nil || len(rows) != 0 {
		t.Fatalf("token visible after delete: err=%v len=%d", err, len(rows))
	}

	// Consume redeems exactly once: the first caller gets true, anyone
	// arriving after the row is gone gets false.
	single := &types.VerificationToken{
		UserID:    u.ID,
		Token:     domauth.NewOpaqueToken(),
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.VerificationToken{single}); err != nil {
		t.Fatalf("seed consumable token: %v", err)
	}
	consumed, err := repo.Consume(ctx, tx, single.ID)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !consumed {
		t.Fatalf("first Consume reported no row")
	}
	consumed, err = repo.Consume(ctx, tx, single.ID)
	if err != nil {
		t.Fatalf("Consume again: %v", err)
	}
	if consumed {
		t.Fatalf("token consumed twice")
	}

	// Re-registration path wipes any previous tokens for the user.
	for i := 0; i < 2; i++ {
		row := &types.VerificationToken{
			UserID:    u.ID,
			Token:     domauth.NewOpaqueToken(),
			ExpiresAt: now.Add(24 * time.Hour),
		}
		if _, err := repo.Create(ctx, tx, []*types.VerificationToken{row}); err != nil {
			t.Fatalf("seed token %d: %v", i, err)
		}
	}
	if err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
}
