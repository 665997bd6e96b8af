package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	catalogrepo "github.com/speechfun/speechfun-backend/internal/data/repos/catalog"
	progressrepo "github.com/speechfun/speechfun-backend/internal/data/repos/progress"
	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
)

func TestReportProgressRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	svc := NewProgressService(
		tx,
		log,
		progressrepo.NewProgressRepo(tx, log),
		catalogrepo.NewCatalogRepo(tx, log),
	)

	ctx := context.Background()
	u := testutil.SeedUser(t, tx, "progresssvc", "progresssvc@example.com")
	c := testutil.SeedChallenge(t, tx, "D", "dog")

	state, err := svc.ReportProgress(ctx, u.ID, ReportProgressInput{
		ChallengeID: c.ID.String(),
		Completed:   false,
		Score:       55,
	})
	if err != nil {
		t.Fatalf("ReportProgress: %v", err)
	}
	if state.Score != 55 || state.Completed {
		t.Fatalf("unexpected state: %+v", state)
	}

	// A later, better attempt replaces the row.
	state, err = svc.ReportProgress(ctx, u.ID, ReportProgressInput{
		ChallengeID: c.ID.String(),
		Completed:   true,
		Score:       88,
	})
	if err != nil {
		t.Fatalf("ReportProgress again: %v", err)
	}
	if state.Score != 88 || !state.Completed {
		t.Fatalf("update not reflected: %+v", state)
	}

	states, err := svc.GetProgress(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("want 1 state, got %d", len(states))
	}
	if states[0].Challenge != c.ID || states[0].Score != 88 {
		t.Fatalf("round trip mismatch: %+v", states[0])
	}
}

func TestReportProgressValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	svc := NewProgressService(
		tx,
		log,
		progressrepo.NewProgressRepo(tx, log),
		catalogrepo.NewCatalogRepo(tx, log),
	)

	ctx := context.Background()
	u := testutil.SeedUser(t, tx, "progressval", "progressval@example.com")

	// A challenge id that exists in no catalogue must never create a row.
	_, err := svc.ReportProgress(ctx, u.ID, ReportProgressInput{
		ChallengeID: uuid.New().String(),
		Score:       10,
	})
	if got := apiStatus(t, err); got != 404 {
		t.Fatalf("unknown challenge: want 404, got %d", got)
	}

	states, err := svc.GetProgress(ctx, u.ID)
	if err != nil || len(states) != 0 {
		t.Fatalf("ledger not empty after rejected report: err=%v len=%d", err, len(states))
	}

	_, err = svc.ReportProgress(ctx, u.ID, ReportProgressInput{
		ChallengeID:   uuid.New().String(),
		ChallengeKind: "bogus",
	})
	if got := apiStatus(t, err); got != 400 {
		t.Fatalf("bogus kind: want 400, got %d", got)
	}

	_, err = svc.ReportProgress(ctx, u.ID, ReportProgressInput{
		ChallengeID: "not-a-uuid",
	})
	if got := apiStatus(t, err); got != 400 {
		t.Fatalf("bad id: want 400, got %d", got)
	}
}
