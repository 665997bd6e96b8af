package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/speechfun/speechfun-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity + auth
		// =========================
		&types.User{},
		&types.Profile{},
		&types.AccessToken{},
		&types.VerificationToken{},

		// =========================
		// Catalogue
		// =========================
		&types.Letter{},
		&types.Word{},
		&types.Challenge{},
		&types.YesNoQuestion{},
		&types.FunctionalPhrase{},
		&types.Comment{},

		// =========================
		// Per-user ledger + audit
		// =========================
		&types.ProgressRecord{},
		&types.WordHelpLog{},
	)
}

func EnsureIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	// The upsert in the progress repo targets this key; it must exist even
	// if AutoMigrate ever stops emitting it from the struct tags.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_progress_key
		ON progress_record(user_id, challenge_kind, challenge_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_progress_key: %w", err)
	}
	// Access tokens are soft-deleted; only live rows need to be unique.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_access_token_expires_at
		ON access_token(expires_at)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_access_token_expires_at: %w", err)
	}
	// Expiry sweeps over verification tokens.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_verification_token_expires_at
		ON verification_token(expires_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_verification_token_expires_at: %w", err)
	}
	// Comment listings are per challenge, newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_comment_challenge_created_at
		ON comment (challenge_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_comment_challenge_created_at: %w", err)
	}
	// Word-help cache misses look up the latest audit row per word.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_word_help_log_word_created_at
		ON word_help_log (word, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_word_help_log_word_created_at: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
