package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	catalogrepo "github.com/speechfun/speechfun-backend/internal/data/repos/catalog"
	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
)

func TestCommentOwnership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	svc := NewCommentService(
		tx,
		log,
		catalogrepo.NewCommentRepo(tx, log),
		catalogrepo.NewCatalogRepo(tx, log),
	)

	ctx := context.Background()
	author := testutil.SeedUser(t, tx, "commentauthor", "commentauthor@example.com")
	other := testutil.SeedUser(t, tx, "commentother", "commentother@example.com")
	c := testutil.SeedChallenge(t, tx, "C", "cat")

	created, err := svc.Create(ctx, author.ID, c.ID, "My kid loved this one!")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.User == nil || created.User.ID != author.ID {
		t.Fatalf("author not attached: %+v", created.User)
	}

	// Commenting on a challenge that does not exist is a 404.
	_, err = svc.Create(ctx, author.ID, uuid.New(), "hello?")
	if got := apiStatus(t, err); got != 404 {
		t.Fatalf("comment on missing challenge: want 404, got %d", got)
	}

	// Only the author can edit or delete.
	_, err = svc.Update(ctx, other.ID, created.ID, "hijacked")
	if got := apiStatus(t, err); got != 403 {
		t.Fatalf("foreign update: want 403, got %d", got)
	}
	if err := svc.Delete(ctx, other.ID, created.ID); err == nil {
		t.Fatalf("foreign delete succeeded")
	}

	updated, err := svc.Update(ctx, author.ID, created.ID, "My kid loved this one! (edited)")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Text == created.Text {
		t.Fatalf("text not updated")
	}

	list, err := svc.ListByChallenge(ctx, c.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByChallenge: err=%v len=%d", err, len(list))
	}

	if err := svc.Delete(ctx, author.ID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err = svc.ListByChallenge(ctx, c.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("comment survived delete: err=%v len=%d", err, len(list))
	}
}
