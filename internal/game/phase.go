package game

import (
	"strconv"
	"strings"
)

type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseRoleStudy Phase = "role_study"
	PhaseVoting    Phase = "voting"
	PhaseResults   Phase = "results"
	PhaseFinished  Phase = "finished"

	revealPrefix = "card_reveal_"

	// RevealRounds is the number of card reveal phases in a game.
	RevealRounds = 7
)

func RevealPhase(k int) Phase {
	return Phase(revealPrefix + strconv.Itoa(k))
}

// CardNumber returns k for card_reveal_k and 0 for every other phase.
func (p Phase) CardNumber() int {
	raw, ok := strings.CutPrefix(string(p), revealPrefix)
	if !ok {
		return 0
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 || k > RevealRounds {
		return 0
	}
	return k
}

func (p Phase) IsReveal() bool {
	return p.CardNumber() > 0
}

func (p Phase) Valid() bool {
	switch p {
	case PhaseLobby, PhaseRoleStudy, PhaseVoting, PhaseResults, PhaseFinished:
		return true
	}
	return p.IsReveal()
}

// Active reports whether the game is between Start and Finished.
func (p Phase) Active() bool {
	return p != PhaseLobby && p != PhaseFinished
}

func (p Phase) Title() string {
	if k := p.CardNumber(); k > 0 {
		return "раскрытие карт, раунд " + strconv.Itoa(k)
	}
	switch p {
	case PhaseLobby:
		return "набор игроков"
	case PhaseRoleStudy:
		return "изучение ролей"
	case PhaseVoting:
		return "голосование"
	case PhaseResults:
		return "итоги голосования"
	case PhaseFinished:
		return "игра окончена"
	}
	return string(p)
}

// VotingRequired reports whether a voting round follows card reveal phase k.
func VotingRequired(k, alive int) bool {
	switch k {
	case 2, 3:
		return true
	case 5:
		return alive >= 6
	case 6:
		return alive >= 8
	case 7:
		return alive >= 10
	default:
		return false
	}
}
