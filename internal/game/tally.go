package game

import "slices"

type Reason string

const (
	ReasonEliminated Reason = "eliminated"
	ReasonNoVotes    Reason = "no_votes"
	ReasonTie        Reason = "tie"
	ReasonImmune     Reason = "immune"
	ReasonPigImmune  Reason = "pig_immune"
)

type Resolution struct {
	Max        int
	Leaders    []int64
	Eliminated int64
	Protected  int64
	Reason     Reason
	Revote     bool
}

// Tally counts the committed votes of alive players. Every alive player gets a
// counter; double-vote holders weigh 2 and abstentions add nothing.
func Tally(g *Game) map[int64]int {
	counts := make(map[int64]int, len(g.Players))
	for id, p := range g.Players {
		p.VotesReceived = 0
		if p.Alive {
			counts[id] = 0
		}
	}
	for _, voter := range g.Players {
		if !voter.Alive || voter.VoteTarget == nil {
			continue
		}
		target, ok := g.Players[*voter.VoteTarget]
		if !ok || !target.Alive {
			continue
		}
		weight := 1
		if voter.DoubleVote {
			weight = 2
		}
		counts[target.ID] += weight
	}
	for id, n := range counts {
		g.Players[id].VotesReceived = n
	}
	g.VoteCounts = counts
	return counts
}

// Resolve applies the outcome of a tally. A tie opens one restricted revote;
// a tie within that revote ends the round without elimination. A single
// leader is protected by generic immunity first, which is consumed, then by
// pig immunity, and is eliminated otherwise.
func Resolve(g *Game, counts map[int64]int) Resolution {
	res := Resolution{}
	for _, n := range counts {
		res.Max = max(res.Max, n)
	}
	if res.Max == 0 {
		clearRevote(g)
		res.Reason = ReasonNoVotes
		return res
	}
	for id, n := range counts {
		if n == res.Max {
			res.Leaders = append(res.Leaders, id)
		}
	}
	slices.Sort(res.Leaders)

	if len(res.Leaders) > 1 {
		res.Reason = ReasonTie
		if g.Revoting {
			clearRevote(g)
			return res
		}
		g.Revoting = true
		g.RevoteCandidates = slices.Clone(res.Leaders)
		res.Revote = true
		return res
	}

	clearRevote(g)
	leader := g.Players[res.Leaders[0]]
	switch {
	case leader.Immune:
		leader.Eliminate()
		res.Protected = leader.ID
		res.Reason = ReasonImmune
	case leader.PigImmune:
		res.Protected = leader.ID
		res.Reason = ReasonPigImmune
	default:
		leader.Eliminate()
		g.EliminatedIDs = append(g.EliminatedIDs, leader.ID)
		res.Eliminated = leader.ID
		res.Reason = ReasonEliminated
	}
	return res
}

func clearRevote(g *Game) {
	g.Revoting = false
	g.RevoteCandidates = nil
}

func allVoted(g *Game) bool {
	for _, p := range g.Players {
		if p.Alive && !p.HasVoted {
			return false
		}
	}
	return true
}

func votedCount(g *Game) (voted, total int) {
	for _, p := range g.Players {
		if !p.Alive {
			continue
		}
		total++
		if p.HasVoted {
			voted++
		}
	}
	return voted, total
}
