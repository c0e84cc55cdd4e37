package game

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already running in this chat")
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrNotParticipant   = errors.New("player is not in this game")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrGameFull         = errors.New("game is full")
	ErrBadRosterSize    = errors.New("player count is not allowed")
	ErrNotAllowed       = errors.New("only the game owner or an operator can do this")
	ErrNotAlive         = errors.New("player is eliminated")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongTrait       = errors.New("this trait cannot be revealed in the current round")
	ErrUnknownTrait     = errors.New("unknown trait")
	ErrAlreadyRevealed  = errors.New("trait already revealed")
	ErrRevealBlocked    = errors.New("player cannot reveal cards this round")
	ErrAlreadyVoted     = errors.New("player already voted")
	ErrVoteBlocked      = errors.New("player cannot vote this round")
	ErrSelfVote         = errors.New("cannot vote for yourself")
	ErrUnknownTarget    = errors.New("target is not in this game")
	ErrTargetEliminated = errors.New("target is eliminated")
	ErrNotCandidate     = errors.New("target is not a revote candidate")
	ErrNoSpecial        = errors.New("player has no special card")
	ErrSpecialUsed      = errors.New("special card already used")
	ErrRecordNotFound   = errors.New("persisted game not found")

	// ErrUnchanged is returned by a Messenger when an edit would not change the message.
	ErrUnchanged = errors.New("message not modified")

	errStale = errors.New("timer no longer matches game state")
)

var rejections = []error{
	ErrGameNotFound, ErrGameExists, ErrWrongPhase, ErrNotParticipant, ErrAlreadyJoined,
	ErrGameFull, ErrBadRosterSize, ErrNotAllowed, ErrNotAlive, ErrNotYourTurn,
	ErrWrongTrait, ErrUnknownTrait, ErrAlreadyRevealed, ErrRevealBlocked, ErrAlreadyVoted,
	ErrVoteBlocked, ErrSelfVote, ErrUnknownTarget, ErrTargetEliminated, ErrNotCandidate,
	ErrNoSpecial, ErrSpecialUsed,
}

// IsRejected reports whether err is a rule violation caused by the caller
// rather than an infrastructure failure.
func IsRejected(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
