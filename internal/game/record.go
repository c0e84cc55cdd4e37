package game

import (
	"encoding/json"
	"slices"
	"sort"
	"time"
)

// Record is the persisted JSON document of one game. Absent fields decode to
// the values a fresh lobby would have.
type Record struct {
	ChatID              int64                  `json:"chat_id"`
	OwnerID             int64                  `json:"owner_id,omitempty"`
	Phase               Phase                  `json:"phase"`
	CurrentCardPhase    int                    `json:"current_card_phase"`
	Players             map[int64]PlayerRecord `json:"players"`
	JoinOrder           []int64                `json:"join_order,omitempty"`
	MaxPlayers          int                    `json:"max_players,omitempty"`
	Scenario            string                 `json:"scenario,omitempty"`
	ScenarioDescription string                 `json:"scenario_description,omitempty"`
	ShelterInfo         string                 `json:"bunker_info,omitempty"`
	TurnOrder           []int64                `json:"turn_order,omitempty"`
	TurnIndex           int                    `json:"turn_index,omitempty"`
	CurrentTurn         int64                  `json:"current_turn_player_id,omitempty"`
	VoteCounts          map[int64]int          `json:"votes,omitempty"`
	EliminatedIDs       []int64                `json:"eliminated_players,omitempty"`
	RevoteCandidates    []int64                `json:"revote_candidates,omitempty"`
	Revoting            bool                   `json:"is_revoting,omitempty"`
	Winners             []int64                `json:"winners,omitempty"`
	StatusMessageID     int                    `json:"status_message_id,omitempty"`
	TurnMessageID       int                    `json:"turn_message_id,omitempty"`
	PhaseStartedAt      time.Time              `json:"phase_started_at,omitzero"`
	CreatedAt           time.Time              `json:"created_at,omitzero"`
}

type PlayerRecord struct {
	Username      string         `json:"username,omitempty"`
	FirstName     string         `json:"first_name,omitempty"`
	IsAlive       bool           `json:"is_alive"`
	IsAdmin       bool           `json:"is_admin,omitempty"`
	VotesReceived int            `json:"votes_received,omitempty"`
	HasVoted      bool           `json:"has_voted,omitempty"`
	VoteTarget    *int64         `json:"vote_target,omitempty"`
	SpecialUsed   bool           `json:"special_card_used,omitempty"`
	Completed     []int          `json:"completed_phases,omitempty"`
	Abstained     []Trait        `json:"abstained_cards,omitempty"`
	Character     *Character     `json:"character,omitempty"`
	JoinedAt      time.Time      `json:"joined_at,omitzero"`
	Modifiers
}

// UnmarshalJSON defaults is_alive to true when the field is absent.
func (r *PlayerRecord) UnmarshalJSON(data []byte) error {
	type plain PlayerRecord
	decoded := plain{IsAlive: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = PlayerRecord(decoded)
	return nil
}

func decodeRecord(data []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func recordFromGame(g *Game) *Record {
	r := &Record{
		ChatID:              g.ChatID,
		OwnerID:             g.OwnerID,
		Phase:               g.Phase,
		CurrentCardPhase:    g.CardPhase,
		Players:             make(map[int64]PlayerRecord, len(g.Players)),
		JoinOrder:           slices.Clone(g.JoinOrder),
		MaxPlayers:          g.MaxPlayers,
		Scenario:            g.Scenario,
		ScenarioDescription: g.ScenarioDescription,
		ShelterInfo:         g.ShelterInfo,
		TurnOrder:           slices.Clone(g.TurnOrder),
		TurnIndex:           g.TurnIndex,
		CurrentTurn:         g.CurrentTurn,
		EliminatedIDs:       slices.Clone(g.EliminatedIDs),
		RevoteCandidates:    slices.Clone(g.RevoteCandidates),
		Revoting:            g.Revoting,
		Winners:             slices.Clone(g.Winners),
		StatusMessageID:     g.StatusMessageID,
		TurnMessageID:       g.TurnMessageID,
		PhaseStartedAt:      g.PhaseStartedAt,
		CreatedAt:           g.CreatedAt,
	}
	if len(g.VoteCounts) > 0 {
		r.VoteCounts = make(map[int64]int, len(g.VoteCounts))
		for id, n := range g.VoteCounts {
			r.VoteCounts[id] = n
		}
	}
	for id, p := range g.Players {
		pr := PlayerRecord{
			Username:      p.Username,
			FirstName:     p.FirstName,
			IsAlive:       p.Alive,
			IsAdmin:       p.Admin,
			VotesReceived: p.VotesReceived,
			HasVoted:      p.HasVoted,
			SpecialUsed:   p.SpecialUsed,
			Character:     p.Character.clone(),
			JoinedAt:      p.JoinedAt,
			Modifiers:     p.Modifiers,
		}
		if p.VoteTarget != nil {
			target := *p.VoteTarget
			pr.VoteTarget = &target
		}
		for k, done := range p.Completed {
			if done {
				pr.Completed = append(pr.Completed, k)
			}
		}
		slices.Sort(pr.Completed)
		for _, t := range AllTraits {
			if p.Abstained[t] {
				pr.Abstained = append(pr.Abstained, t)
			}
		}
		r.Players[id] = pr
	}
	return r
}

func gameFromRecord(r *Record, now time.Time) *Game {
	g := NewGame(r.ChatID, r.OwnerID, r.MaxPlayers, now)
	if r.Phase.Valid() {
		g.Phase = r.Phase
	}
	switch {
	case g.Phase.IsReveal():
		g.CardPhase = g.Phase.CardNumber()
	case r.CurrentCardPhase >= 1 && r.CurrentCardPhase <= RevealRounds:
		g.CardPhase = r.CurrentCardPhase
	}
	if !r.PhaseStartedAt.IsZero() {
		g.PhaseStartedAt = r.PhaseStartedAt
	}
	if !r.CreatedAt.IsZero() {
		g.CreatedAt = r.CreatedAt
	}
	g.Scenario = r.Scenario
	g.ScenarioDescription = r.ScenarioDescription
	g.ShelterInfo = r.ShelterInfo
	g.Revoting = r.Revoting
	g.StatusMessageID = r.StatusMessageID
	g.TurnMessageID = r.TurnMessageID

	for id, pr := range r.Players {
		p := NewPlayer(User{ID: id, Username: pr.Username, FirstName: pr.FirstName}, pr.JoinedAt)
		p.Alive = pr.IsAlive
		p.Admin = pr.IsAdmin
		p.VotesReceived = pr.VotesReceived
		p.HasVoted = pr.HasVoted
		p.SpecialUsed = pr.SpecialUsed
		p.Modifiers = pr.Modifiers
		p.Character = pr.Character.clone()
		if pr.VoteTarget != nil {
			target := *pr.VoteTarget
			p.VoteTarget = &target
		}
		for _, k := range pr.Completed {
			p.Completed[k] = true
		}
		for _, t := range pr.Abstained {
			if t.Valid() {
				p.Abstained[t] = true
			}
		}
		g.Players[id] = p
	}

	g.JoinOrder = knownIDs(g, r.JoinOrder)
	if len(g.JoinOrder) != len(g.Players) {
		g.JoinOrder = joinOrderOf(g)
	}
	if g.OwnerID == 0 && len(g.JoinOrder) > 0 {
		g.OwnerID = g.JoinOrder[0]
	}
	g.TurnOrder = knownIDs(g, r.TurnOrder)
	if r.TurnIndex >= 0 && r.TurnIndex < len(g.TurnOrder) {
		g.TurnIndex = r.TurnIndex
	}
	if _, ok := g.Players[r.CurrentTurn]; ok {
		g.CurrentTurn = r.CurrentTurn
	}
	for id, n := range r.VoteCounts {
		if _, ok := g.Players[id]; ok {
			g.VoteCounts[id] = n
		}
	}
	g.EliminatedIDs = knownIDs(g, r.EliminatedIDs)
	g.RevoteCandidates = knownIDs(g, r.RevoteCandidates)
	g.Winners = knownIDs(g, r.Winners)
	return g
}

func knownIDs(g *Game, ids []int64) []int64 {
	var known []int64
	for _, id := range ids {
		if _, ok := g.Players[id]; ok && !slices.Contains(known, id) {
			known = append(known, id)
		}
	}
	return known
}

func joinOrderOf(g *Game) []int64 {
	ids := make([]int64, 0, len(g.Players))
	for id := range g.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := g.Players[ids[i]], g.Players[ids[j]]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
	return ids
}
