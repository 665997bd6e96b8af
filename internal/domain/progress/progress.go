package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/speechfun/speechfun-backend/internal/domain/user"
)

// ChallengeKind tags which catalogue a progress row refers to.
type ChallengeKind string

const (
	KindLetter     ChallengeKind = "letter"
	KindYesNo      ChallengeKind = "yes_no"
	KindFunctional ChallengeKind = "functional"
)

// ParseKind maps a request value onto a kind; empty defaults to letter.
func ParseKind(s string) (ChallengeKind, error) {
	switch ChallengeKind(s) {
	case "":
		return KindLetter, nil
	case KindLetter, KindYesNo, KindFunctional:
		return ChallengeKind(s), nil
	default:
		return "", fmt.Errorf("unknown challenge type %q", s)
	}
}

// ChallengeRef identifies one challenge across the three catalogues.
type ChallengeRef struct {
	Kind ChallengeKind
	ID   uuid.UUID
}

// Record is the per-user ledger row, keyed (user_id, challenge_kind,
// challenge_id). Writes go through a single INSERT ... ON CONFLICT DO
// UPDATE, so no duplicate can appear under concurrent reports.
type Record struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"not null;column:user_id;uniqueIndex:idx_progress_key,priority:1" json:"user_id"`
	User          *user.User    `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	ChallengeKind ChallengeKind `gorm:"not null;column:challenge_kind;uniqueIndex:idx_progress_key,priority:2" json:"challenge_kind"`
	ChallengeID   uuid.UUID     `gorm:"not null;column:challenge_id;uniqueIndex:idx_progress_key,priority:3" json:"challenge_id"`
	Completed     bool          `gorm:"not null;default:false;column:completed" json:"completed"`
	Score         int           `gorm:"not null;default:0;column:score" json:"score"`
	UpdatedAt     time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Record) TableName() string { return "progress_record" }

func (r *Record) Ref() ChallengeRef {
	return ChallengeRef{Kind: r.ChallengeKind, ID: r.ChallengeID}
}

// State is the projection echoed back to clients.
type State struct {
	Challenge     uuid.UUID     `json:"challenge"`
	ChallengeKind ChallengeKind `json:"type"`
	Completed     bool          `json:"completed"`
	Score         int           `json:"score"`
}

func (r *Record) State() State {
	return State{
		Challenge:     r.ChallengeID,
		ChallengeKind: r.ChallengeKind,
		Completed:     r.Completed,
		Score:         r.Score,
	}
}
