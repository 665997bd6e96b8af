package services

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authrepo "github.com/speechfun/speechfun-backend/internal/data/repos/auth"
	userrepo "github.com/speechfun/speechfun-backend/internal/data/repos/user"
	types "github.com/speechfun/speechfun-backend/internal/domain"
	domauth "github.com/speechfun/speechfun-backend/internal/domain/auth"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/config"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type RegisterInput struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      types.PublicUser `json:"user"`
}

// VerifyEmailResult reports the verification outcome. AlreadyVerified is
// set when the token pointed at an account that was active before this
// call, so the handler can tell the user nothing changed.
type VerifyEmailResult struct {
	User            types.PublicUser
	AlreadyVerified bool
}

// AuthService owns the registration lifecycle (inactive account, emailed
// verification token, activation) and opaque-token login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.PublicUser, error)
	VerifyEmail(ctx context.Context, token string) (*VerifyEmailResult, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	ResolveToken(ctx context.Context, token string) (*types.User, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       config.Config
	userRepo  userrepo.UserRepo
	tokenRepo authrepo.AccessTokenRepo
	vtRepo    authrepo.VerificationTokenRepo
	mailer    VerificationMailer
	avatars   AvatarService
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	cfg config.Config,
	userRepo userrepo.UserRepo,
	tokenRepo authrepo.AccessTokenRepo,
	vtRepo authrepo.VerificationTokenRepo,
	mailer VerificationMailer,
	avatars AvatarService,
) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		vtRepo:    vtRepo,
		mailer:    mailer,
		avatars:   avatars,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*types.PublicUser, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Username == "" || input.Email == "" {
		return nil, apierr.InvalidRequest(fmt.Errorf("username and email are required"))
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, apierr.InvalidRequest(fmt.Errorf("invalid email address"))
	}
	if len(input.Password) < 8 {
		return nil, apierr.InvalidRequest(fmt.Errorf("password must be at least 8 characters"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("hash password: %w", err))
	}

	var (
		account    *types.User
		verifToken *types.VerificationToken
		newAccount bool
	)

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.userRepo.GetByEmails(ctx, tx, []string{input.Email})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			if existing[0].IsActive {
				return apierr.InvalidRequest(fmt.Errorf("email already registered"))
			}
			// The account never finished verification. Reissue instead of
			// rejecting, so a lost email does not strand the signup.
			account = existing[0]
			if account.Username != input.Username {
				return apierr.InvalidRequest(fmt.Errorf("email already registered"))
			}
			// The latest submission wins: whoever verifies must be able to
			// log in with the password they just typed.
			account.Password = string(hash)
			account.FirstName = strings.TrimSpace(input.FirstName)
			account.LastName = strings.TrimSpace(input.LastName)
			if err := s.userRepo.UpdateRegistrationFields(ctx, tx, account.ID, account.Password, account.FirstName, account.LastName); err != nil {
				return err
			}
		} else {
			taken, err := s.userRepo.UsernameExists(ctx, tx, input.Username)
			if err != nil {
				return err
			}
			if taken {
				return apierr.InvalidRequest(fmt.Errorf("username already taken"))
			}
			account = &types.User{
				Username:  input.Username,
				Email:     input.Email,
				Password:  string(hash),
				FirstName: strings.TrimSpace(input.FirstName),
				LastName:  strings.TrimSpace(input.LastName),
				IsActive:  false,
			}
			if _, err := s.userRepo.Create(ctx, tx, []*types.User{account}); err != nil {
				return err
			}
			newAccount = true
		}

		if err := s.vtRepo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{account.ID}); err != nil {
			return err
		}

		now := time.Now().UTC()
		verifToken = &types.VerificationToken{
			UserID:    account.ID,
			Token:     domauth.NewOpaqueToken(),
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.VerificationTTL()),
		}
		if _, err := s.vtRepo.Create(ctx, tx, []*types.VerificationToken{verifToken}); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}

	// Best-effort: a missing avatar never blocks signup.
	if newAccount && s.avatars != nil {
		if err := s.avatars.CreateAndUploadAvatar(ctx, nil, account); err != nil {
			s.log.Warn("Avatar generation failed (ignored)", "user_id", account.ID.String(), "error", err)
		}
	}

	if err := s.mailer.SendVerificationEmail(ctx, account, verifToken.Token); err != nil {
		s.log.Error("Verification email failed, destroying token",
			"user_id", account.ID.String(),
			"error", err,
		)
		// The token is useless if it never reached the user. The inactive
		// account stays so a retry can reissue.
		if delErr := s.vtRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{verifToken.ID}); delErr != nil {
			s.log.Error("Failed to destroy verification token", "error", delErr)
		}
		return nil, apierr.ServiceUnavailable(fmt.Errorf("could not send verification email, please try again later"))
	}

	pub := account.Public()
	return &pub, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*VerifyEmailResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.InvalidRequest(fmt.Errorf("token is required"))
	}

	var (
		result  VerifyEmailResult
		expired bool
	)

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.vtRepo.GetByTokens(ctx, tx, []string{token})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apierr.NotFound(fmt.Errorf("invalid or already used verification token"))
		}
		row := rows[0]

		// Consume is the single-use gate. Overlapping attempts both read the
		// row, but only the transaction whose DELETE lands first gets true;
		// the loser blocks on the row lock and then sees zero rows.
		consumed, err := s.vtRepo.Consume(ctx, tx, row.ID)
		if err != nil {
			return err
		}
		if !consumed {
			return apierr.NotFound(fmt.Errorf("invalid or already used verification token"))
		}

		if !row.Valid(time.Now().UTC()) {
			// Commit the consumption so the user sees a clean "expired"
			// once and a 404 after; the error is mapped outside the
			// transaction to keep the delete.
			expired = true
			return nil
		}

		users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{row.UserID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return apierr.NotFound(fmt.Errorf("account no longer exists"))
		}
		account := users[0]

		if account.IsActive {
			// A stray token against an active account is consumed as a no-op.
			result = VerifyEmailResult{User: account.Public(), AlreadyVerified: true}
			return nil
		}

		if err := s.userRepo.Activate(ctx, tx, row.UserID); err != nil {
			return err
		}
		account.IsActive = true
		result = VerifyEmailResult{User: account.Public()}
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}
	if expired {
		return nil, apierr.Expired(fmt.Errorf("verification token expired, please register again"))
	}

	return &result, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Username = strings.TrimSpace(input.Username)

	users, err := s.userRepo.GetByUsernames(ctx, nil, []string{input.Username})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(users) == 0 {
		// Burn a comparison anyway so missing and wrong-password lookups
		// take the same time.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0Wg4v7o5C1a9zq6yCq1y6y6y6y6"), []byte(input.Password))
		return nil, apierr.New(http.StatusBadRequest, "invalid_credentials", fmt.Errorf("invalid username or password"))
	}
	account := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(input.Password)); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_credentials", fmt.Errorf("invalid username or password"))
	}
	if !account.IsActive {
		return nil, apierr.Forbidden(fmt.Errorf("account is not verified yet, please check your email"))
	}

	var result *LoginResult
	now := time.Now().UTC()

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		live, err := s.tokenRepo.GetLiveByUserID(ctx, tx, account.ID, now)
		if err != nil {
			return err
		}
		if len(live) > 0 {
			result = &LoginResult{
				Token:     live[0].Token,
				ExpiresAt: live[0].ExpiresAt,
				User:      account.Public(),
			}
			return nil
		}

		tok := &types.AccessToken{
			UserID:    account.ID,
			Token:     domauth.NewOpaqueToken(),
			ExpiresAt: now.Add(s.cfg.AccessTokenTTL()),
		}
		if _, err := s.tokenRepo.Create(ctx, tx, []*types.AccessToken{tok}); err != nil {
			return err
		}
		result = &LoginResult{
			Token:     tok.Token,
			ExpiresAt: tok.ExpiresAt,
			User:      account.Public(),
		}
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}
	return result, nil
}

func (s *authService) ResolveToken(ctx context.Context, token string) (*types.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.Unauthorized(fmt.Errorf("missing access token"))
	}

	rows, err := s.tokenRepo.GetByTokens(ctx, nil, []string{token})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(rows) == 0 {
		return nil, apierr.Unauthorized(fmt.Errorf("invalid access token"))
	}
	row := rows[0]

	if !row.ExpiresAt.IsZero() && !time.Now().UTC().Before(row.ExpiresAt) {
		if err := s.tokenRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{row.ID}); err != nil {
			s.log.Warn("Failed to retire expired access token", "error", err)
		}
		return nil, apierr.Unauthorized(fmt.Errorf("access token expired"))
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{row.UserID})
	if err != nil {
		return nil, apierr.From(err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return nil, apierr.Unauthorized(fmt.Errorf("invalid access token"))
	}
	return users[0], nil
}
