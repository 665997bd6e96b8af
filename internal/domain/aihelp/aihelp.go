package aihelp

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/speechfun/speechfun-backend/internal/domain/user"
)

// WordHelpLog is the audit row written for every model call the word-help
// endpoint makes. Cache hits are served without a new row.
type WordHelpLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"index;not null;column:user_id" json:"user_id"`
	User      *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Word      string         `gorm:"index;not null;column:word" json:"word"`
	Model     string         `gorm:"not null;column:model" json:"model"`
	Response  datatypes.JSON `gorm:"type:jsonb;column:response" json:"response"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (WordHelpLog) TableName() string { return "word_help_log" }

// Help is the structured answer returned to the client and cached in Redis.
type Help struct {
	Word        string `json:"word"`
	Definition  string `json:"definition"`
	ExampleUses string `json:"example_uses"`
	FunFact     string `json:"fun_fact"`
}
