package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/speechfun/speechfun-backend/internal/domain/user"
)

// AccessToken is the opaque bearer token issued at login. Login reuses an
// unexpired row for the user instead of minting a new one.
type AccessToken struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"index;not null;column:user_id" json:"user_id"`
	User      *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Token     string         `gorm:"uniqueIndex;not null;column:token" json:"token"`
	ExpiresAt time.Time      `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AccessToken) TableName() string { return "access_token" }

// NewOpaqueToken returns a 128-bit random identifier in hex.
func NewOpaqueToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failure means the process is in no state to mint
		// credentials at all.
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
