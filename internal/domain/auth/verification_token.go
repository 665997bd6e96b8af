package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/domain/user"
)

// VerificationToken is the single-use email-verification token. It is
// deleted on consumption, and deleted on a consumption attempt after
// expiry. Superseded tokens for the same user are removed before a new
// one is issued.
type VerificationToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"index;not null;column:user_id" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Token     string     `gorm:"uniqueIndex;not null;column:token" json:"token"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	ExpiresAt time.Time  `gorm:"not null;column:expires_at" json:"expires_at"`
}

func (VerificationToken) TableName() string { return "verification_token" }

// Valid reports whether the token can still be consumed at the given time.
func (t *VerificationToken) Valid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
