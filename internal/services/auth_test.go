package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	authrepo "github.com/speechfun/speechfun-backend/internal/data/repos/auth"
	"github.com/speechfun/speechfun-backend/internal/data/repos/testutil"
	userrepo "github.com/speechfun/speechfun-backend/internal/data/repos/user"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	domauth "github.com/speechfun/speechfun-backend/internal/domain/auth"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/config"
)

type fakeMailer struct {
	fail       bool
	sentTokens []string
	sentTo     []string
}

func (f *fakeMailer) SendVerificationEmail(ctx context.Context, user *types.User, token string) error {
	if f.fail {
		return errors.New("smtp relay unreachable")
	}
	f.sentTokens = append(f.sentTokens, token)
	f.sentTo = append(f.sentTo, user.Email)
	return nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeMailer, authrepo.VerificationTokenRepo, *gorm.DB) {
	t.Helper()

	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	cfg := config.Config{
		SiteURL:              "http://localhost:8080",
		AccessTokenTTLHours:  24 * 30,
		VerificationTTLHours: 24,
	}

	userRepo := userrepo.NewUserRepo(tx, log)
	tokenRepo := authrepo.NewAccessTokenRepo(tx, log)
	vtRepo := authrepo.NewVerificationTokenRepo(tx, log)
	mailer := &fakeMailer{}

	svc := NewAuthService(tx, log, cfg, userRepo, tokenRepo, vtRepo, mailer, nil)
	return svc, mailer, vtRepo, tx
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	return ae.Status
}

func TestRegistrationLifecycle(t *testing.T) {
	svc, mailer, vtRepo, _ := newTestAuthService(t)
	ctx := context.Background()

	pub, err := svc.Register(ctx, RegisterInput{
		Username:  "mia",
		Email:     "mia@example.com",
		Password:  "supersecret",
		FirstName: "Mia",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pub.Username != "mia" {
		t.Fatalf("unexpected user: %+v", pub)
	}
	if len(mailer.sentTokens) != 1 {
		t.Fatalf("want 1 verification email, got %d", len(mailer.sentTokens))
	}

	// The token window is exactly the configured 24 hours.
	issued, err := vtRepo.GetByTokens(ctx, nil, mailer.sentTokens)
	if err != nil || len(issued) != 1 {
		t.Fatalf("fetch issued token: err=%v len=%d", err, len(issued))
	}
	if got := issued[0].ExpiresAt.Sub(issued[0].CreatedAt); got != 24*time.Hour {
		t.Fatalf("token window = %v, want 24h", got)
	}

	// Login before verification is forbidden, not unauthorized.
	_, err = svc.Login(ctx, LoginInput{Username: "mia", Password: "supersecret"})
	if got := apiStatus(t, err); got != 403 {
		t.Fatalf("login before verify: want 403, got %d", got)
	}

	verified, err := svc.VerifyEmail(ctx, mailer.sentTokens[0])
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if verified.AlreadyVerified {
		t.Fatalf("first verification reported already verified")
	}

	// The token is single-use.
	_, err = svc.VerifyEmail(ctx, mailer.sentTokens[0])
	if got := apiStatus(t, err); got != 404 {
		t.Fatalf("second verify: want 404, got %d", got)
	}

	res, err := svc.Login(ctx, LoginInput{Username: "mia", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("login returned empty token")
	}

	// A second login reuses the live token.
	res2, err := svc.Login(ctx, LoginInput{Username: "mia", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login again: %v", err)
	}
	if res2.Token != res.Token {
		t.Fatalf("expected the live token to be reused")
	}

	// Bad password never leaks which part was wrong.
	_, err = svc.Login(ctx, LoginInput{Username: "mia", Password: "wrongpassword"})
	if got := apiStatus(t, err); got != 400 {
		t.Fatalf("wrong password: want 400, got %d", got)
	}
	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "supersecret"})
	if got := apiStatus(t, err); got != 400 {
		t.Fatalf("unknown user: want 400, got %d", got)
	}

	// The bearer token resolves back to the account.
	account, err := svc.ResolveToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if account.Username != "mia" {
		t.Fatalf("token resolved to wrong user: %s", account.Username)
	}
	if _, err := svc.ResolveToken(ctx, "deadbeefdeadbeefdeadbeefdeadbeef"); err == nil {
		t.Fatalf("random token resolved")
	}
}

func TestRegisterEmailFailureKeepsAccountDestroysToken(t *testing.T) {
	svc, mailer, vtRepo, _ := newTestAuthService(t)
	ctx := context.Background()

	mailer.fail = true
	_, err := svc.Register(ctx, RegisterInput{
		Username: "leo",
		Email:    "leo@example.com",
		Password: "supersecret",
	})
	if got := apiStatus(t, err); got != 503 {
		t.Fatalf("register with dead mail: want 503, got %d", got)
	}

	// The inactive account survives so a retry can reissue...
	mailer.fail = false
	if _, err := svc.Register(ctx, RegisterInput{
		Username: "leo",
		Email:    "leo@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("re-register after mail failure: %v", err)
	}
	if len(mailer.sentTokens) != 1 {
		t.Fatalf("want 1 sent token after retry, got %d", len(mailer.sentTokens))
	}

	// ...and only the freshly issued token exists.
	rows, err := vtRepo.GetByTokens(ctx, nil, mailer.sentTokens)
	if err != nil || len(rows) != 1 {
		t.Fatalf("verification tokens: err=%v len=%d", err, len(rows))
	}
}

func TestVerifyEmailExpiredTokenIsGoneAfterOneAttempt(t *testing.T) {
	svc, mailer, vtRepo, tx := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "zoe",
		Email:    "zoe@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token := mailer.sentTokens[0]

	// Age the token past its window.
	rows, err := vtRepo.GetByTokens(ctx, nil, []string{token})
	if err != nil || len(rows) != 1 {
		t.Fatalf("fetch token: err=%v len=%d", err, len(rows))
	}
	if err := tx.Model(&types.VerificationToken{}).
		Where("id = ?", rows[0].ID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("age token: %v", err)
	}

	_, err = svc.VerifyEmail(ctx, token)
	if got := apiStatus(t, err); got != 410 {
		t.Fatalf("expired verify: want 410, got %d", got)
	}

	// The expired row was consumed; a retry is a plain 404.
	_, err = svc.VerifyEmail(ctx, token)
	if got := apiStatus(t, err); got != 404 {
		t.Fatalf("verify after expiry consumption: want 404, got %d", got)
	}
}

func TestReRegisterBeforeVerificationUsesLatestPassword(t *testing.T) {
	svc, mailer, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Username:  "finn",
		Email:     "finn@example.com",
		Password:  "firsttypo123",
		FirstName: "Fin",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Registering again while still unverified replaces the credentials,
	// so the account verifies against the password the user just typed.
	if _, err := svc.Register(ctx, RegisterInput{
		Username:  "finn",
		Email:     "finn@example.com",
		Password:  "secondtry456",
		FirstName: "Finn",
	}); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if len(mailer.sentTokens) != 2 {
		t.Fatalf("want 2 verification emails, got %d", len(mailer.sentTokens))
	}

	if _, err := svc.VerifyEmail(ctx, mailer.sentTokens[1]); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	res, err := svc.Login(ctx, LoginInput{Username: "finn", Password: "secondtry456"})
	if err != nil {
		t.Fatalf("login with latest password: %v", err)
	}
	if res.User.FirstName != "Finn" {
		t.Fatalf("first name not updated: %q", res.User.FirstName)
	}

	_, err = svc.Login(ctx, LoginInput{Username: "finn", Password: "firsttypo123"})
	if got := apiStatus(t, err); got != 400 {
		t.Fatalf("login with superseded password: want 400, got %d", got)
	}
}

func TestVerifyEmailOnActiveAccountIsNoOp(t *testing.T) {
	svc, mailer, vtRepo, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "nora",
		Email:    "nora@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	first, err := svc.VerifyEmail(ctx, mailer.sentTokens[0])
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	// A leftover token against the now-active account is consumed without
	// touching the account, and the caller can tell nothing changed.
	stray := &types.VerificationToken{
		UserID:    first.User.ID,
		Token:     domauth.NewOpaqueToken(),
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	if _, err := vtRepo.Create(ctx, nil, []*types.VerificationToken{stray}); err != nil {
		t.Fatalf("seed stray token: %v", err)
	}

	second, err := svc.VerifyEmail(ctx, stray.Token)
	if err != nil {
		t.Fatalf("verify stray token: %v", err)
	}
	if !second.AlreadyVerified {
		t.Fatalf("expected already-verified outcome")
	}

	_, err = svc.VerifyEmail(ctx, stray.Token)
	if got := apiStatus(t, err); got != 404 {
		t.Fatalf("stray token reuse: want 404, got %d", got)
	}
}
