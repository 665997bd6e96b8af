package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/domain/user"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Known() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Letter struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Letter string    `gorm:"uniqueIndex;not null;size:1;column:letter" json:"letter"`
}

func (Letter) TableName() string { return "letter" }

type Word struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LetterID uuid.UUID `gorm:"index;not null;column:letter_id" json:"letter_id"`
	Letter   *Letter   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LetterID;references:ID" json:"letter,omitempty"`
	Word     string    `gorm:"not null;column:word" json:"word"`
	// Public URL of the pronunciation audio in the media bucket.
	AudioURL   string     `gorm:"column:audio_url" json:"audio,omitempty"`
	Difficulty Difficulty `gorm:"not null;column:difficulty" json:"difficulty"`
}

func (Word) TableName() string { return "word" }

type Challenge struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WordID      uuid.UUID  `gorm:"index;not null;column:word_id" json:"word_id"`
	Word        *Word      `gorm:"constraint:OnDelete:CASCADE;foreignKey:WordID;references:ID" json:"word,omitempty"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Difficulty  Difficulty `gorm:"not null;column:difficulty" json:"difficulty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Challenge) TableName() string { return "challenge" }

type YesNoQuestion struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SceneDescription string    `gorm:"column:scene_description" json:"scene_description"`
	Question         string    `gorm:"not null;column:question" json:"question"`
	CorrectAnswer    bool      `gorm:"not null;column:correct_answer" json:"correct_answer"`
	VisualURL        string    `gorm:"column:visual_url" json:"visual_url,omitempty"`
}

func (YesNoQuestion) TableName() string { return "yes_no_question" }

type FunctionalPhrase struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Phrase    string    `gorm:"not null;column:phrase" json:"phrase"`
	VisualURL string    `gorm:"column:visual_url" json:"visual_url,omitempty"`
}

func (FunctionalPhrase) TableName() string { return "functional_phrase" }

type Comment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"index;not null;column:user_id" json:"-"`
	User        *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ChallengeID uuid.UUID  `gorm:"index;not null;column:challenge_id" json:"challenge"`
	Challenge   *Challenge `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"-"`
	Text        string     `gorm:"not null;column:text" json:"text"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Comment) TableName() string { return "comment" }
