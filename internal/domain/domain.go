// Package domain re-exports every model so callers can take a single
// import instead of one per subpackage.
package domain

import (
	"github.com/speechfun/speechfun-backend/internal/domain/aihelp"
	"github.com/speechfun/speechfun-backend/internal/domain/auth"
	"github.com/speechfun/speechfun-backend/internal/domain/catalog"
	"github.com/speechfun/speechfun-backend/internal/domain/progress"
	"github.com/speechfun/speechfun-backend/internal/domain/user"
)

type (
	User       = user.User
	PublicUser = user.Public
	Profile    = user.Profile

	AccessToken       = auth.AccessToken
	VerificationToken = auth.VerificationToken

	Difficulty       = catalog.Difficulty
	Letter           = catalog.Letter
	Word             = catalog.Word
	Challenge        = catalog.Challenge
	YesNoQuestion    = catalog.YesNoQuestion
	FunctionalPhrase = catalog.FunctionalPhrase
	Comment          = catalog.Comment

	ChallengeKind  = progress.ChallengeKind
	ChallengeRef   = progress.ChallengeRef
	ProgressRecord = progress.Record
	ProgressState  = progress.State

	WordHelpLog = aihelp.WordHelpLog
	WordHelp    = aihelp.Help
)

const (
	DifficultyEasy   = catalog.DifficultyEasy
	DifficultyMedium = catalog.DifficultyMedium
	DifficultyHard   = catalog.DifficultyHard

	KindLetter     = progress.KindLetter
	KindYesNo      = progress.KindYesNo
	KindFunctional = progress.KindFunctional
)
