package game

import "time"

// Modifiers are per-round flags set by special cards.
type Modifiers struct {
	DoubleVote   bool `json:"double_vote_active,omitempty"`
	Immune       bool `json:"has_immunity,omitempty"`
	PigImmune    bool `json:"pig_immunity,omitempty"`
	VoteBlocked  bool `json:"blocked_from_voting,omitempty"`
	CannotReveal bool `json:"cannot_reveal,omitempty"`
}

type Player struct {
	ID            int64
	Username      string
	FirstName     string
	Alive         bool
	Admin         bool
	VotesReceived int
	HasVoted      bool
	VoteTarget    *int64
	SpecialUsed   bool
	Modifiers
	Completed map[int]bool
	Abstained map[Trait]bool
	Character *Character
	JoinedAt  time.Time
}

type User struct {
	ID        int64
	Username  string
	FirstName string
}

func NewPlayer(user User, joinedAt time.Time) *Player {
	return &Player{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		Alive:     true,
		Completed: make(map[int]bool),
		Abstained: make(map[Trait]bool),
		JoinedAt:  joinedAt,
	}
}

func (p *Player) DisplayName() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return "Игрок"
}

func (p *Player) RevealCard(t Trait) bool {
	if p.Character == nil {
		return false
	}
	return p.Character.Reveal(t)
}

// CastVote commits the player's single vote for the round. A nil target abstains.
func (p *Player) CastVote(target *int64) error {
	if !p.Alive {
		return ErrNotAlive
	}
	if p.VoteBlocked {
		return ErrVoteBlocked
	}
	if p.HasVoted {
		return ErrAlreadyVoted
	}
	p.HasVoted = true
	if target != nil {
		id := *target
		p.VoteTarget = &id
	}
	return nil
}

func (p *Player) ResetVote() {
	p.HasVoted = false
	p.VoteTarget = nil
	p.VotesReceived = 0
}

// ResetRound clears the modifiers that only last until a voting round resolves.
// Generic immunity survives until it is consumed.
func (p *Player) ResetRound() {
	p.DoubleVote = false
	p.VoteBlocked = false
	p.PigImmune = false
	p.CannotReveal = false
}

// Eliminate removes the player from play unless generic immunity absorbs it,
// in which case the immunity is consumed and false is returned.
func (p *Player) Eliminate() bool {
	if p.Immune {
		p.Immune = false
		return false
	}
	p.Alive = false
	return true
}

// AvailableTraits lists the traits the player may still reveal in phase k.
func (p *Player) AvailableTraits(k int) []Trait {
	if p.Character == nil {
		return nil
	}
	if k == 1 {
		if p.Character.IsRevealed(TraitProfession) || p.Abstained[TraitProfession] {
			return nil
		}
		return []Trait{TraitProfession}
	}
	available := make([]Trait, 0, len(AllTraits))
	for _, t := range p.Character.Unrevealed() {
		if !p.Abstained[t] {
			available = append(available, t)
		}
	}
	return available
}
