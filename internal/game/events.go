package game

type EventPayload struct {
	Phase     Phase      `json:"phase,omitempty"`
	PlayerID  int64      `json:"player_id,omitempty"`
	Player    string     `json:"player,omitempty"`
	TargetID  int64      `json:"target_id,omitempty"`
	Trait     Trait      `json:"trait,omitempty"`
	Effect    EffectKind `json:"effect,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Players   []int64    `json:"players,omitempty"`
	Count     int        `json:"count,omitempty"`
	CardPhase int        `json:"current_card_phase,omitempty"`
}

const (
	eventGameCreated      = "game_created"
	eventPlayerJoined     = "player_joined"
	eventPlayerLeft       = "player_left"
	eventGameStarted      = "game_started"
	eventPhaseAdvanced    = "game_advanced"
	eventCardRevealed     = "card_revealed"
	eventTurnSkipped      = "turn_skipped"
	eventVoteCast         = "vote_cast"
	eventVotingResolved   = "voting_resolved"
	eventPlayerEliminated = "player_eliminated"
	eventSpecialUsed      = "special_used"
	eventGameFinished     = "game_finished"
	eventGameEnded        = "game_ended"
	eventGameRestored     = "game_restored"
)
