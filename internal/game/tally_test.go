package game

import (
	"slices"
	"testing"
)

func votingGame(n int) *Game {
	g := NewGame(testChat, 101, 16, testNow)
	for _, id := range playerIDs(n) {
		_ = g.AddPlayer(newDealtPlayer(id))
	}
	g.Phase = PhaseVoting
	g.CardPhase = 2
	return g
}

func vote(t *testing.T, g *Game, voter int64, target *int64) {
	t.Helper()
	if err := g.Players[voter].CastVote(target); err != nil {
		t.Fatalf("vote by %d: %v", voter, err)
	}
}

func ptr(v int64) *int64 {
	return &v
}

func TestTallyWeightsAndAbstentions(t *testing.T) {
	g := votingGame(4)
	g.Players[101].DoubleVote = true
	vote(t, g, 101, ptr(103))
	vote(t, g, 102, ptr(104))
	vote(t, g, 103, nil)
	vote(t, g, 104, ptr(103))

	counts := Tally(g)

	if counts[103] != 3 || counts[104] != 1 || counts[101] != 0 || counts[102] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if g.Players[103].VotesReceived != 3 {
		t.Fatalf("expected votes received to be recorded, got %d", g.Players[103].VotesReceived)
	}
	if len(g.VoteCounts) != 4 {
		t.Fatalf("expected a counter per alive player, got %v", g.VoteCounts)
	}
}

func TestTallyIgnoresEliminatedVotersAndTargets(t *testing.T) {
	g := votingGame(4)
	vote(t, g, 101, ptr(104))
	vote(t, g, 102, ptr(103))
	g.Players[101].Alive = false
	g.Players[103].Alive = false

	counts := Tally(g)

	if _, ok := counts[103]; ok {
		t.Fatalf("eliminated player must not be counted, got %v", counts)
	}
	if counts[104] != 0 {
		t.Fatalf("vote of an eliminated player must not count, got %v", counts)
	}
}

func TestResolveEliminatesSingleLeader(t *testing.T) {
	g := votingGame(4)
	res := Resolve(g, map[int64]int{101: 3, 102: 1, 103: 0, 104: 0})

	if res.Reason != ReasonEliminated || res.Eliminated != 101 {
		t.Fatalf("expected 101 eliminated, got %+v", res)
	}
	if g.Players[101].Alive {
		t.Fatalf("expected leader to be eliminated")
	}
	if !slices.Equal(g.EliminatedIDs, []int64{101}) {
		t.Fatalf("unexpected eliminated ids %v", g.EliminatedIDs)
	}
}

func TestResolveNoVotes(t *testing.T) {
	g := votingGame(3)
	res := Resolve(g, map[int64]int{101: 0, 102: 0, 103: 0})

	if res.Reason != ReasonNoVotes || res.Eliminated != 0 || res.Revote {
		t.Fatalf("expected no elimination, got %+v", res)
	}
	if g.AliveCount() != 3 {
		t.Fatalf("expected everyone alive")
	}
}

func TestResolveTieOpensSingleRevote(t *testing.T) {
	g := votingGame(4)
	res := Resolve(g, map[int64]int{101: 0, 102: 0, 103: 2, 104: 2})

	if !res.Revote || res.Reason != ReasonTie {
		t.Fatalf("expected a revote, got %+v", res)
	}
	if !g.Revoting || !slices.Equal(g.RevoteCandidates, []int64{103, 104}) {
		t.Fatalf("expected revote between 103 and 104, got %v %v", g.Revoting, g.RevoteCandidates)
	}

	res = Resolve(g, map[int64]int{101: 0, 102: 0, 103: 2, 104: 2})
	if res.Revote || res.Reason != ReasonTie || res.Eliminated != 0 {
		t.Fatalf("expected a second tie to end the round, got %+v", res)
	}
	if g.Revoting || g.RevoteCandidates != nil {
		t.Fatalf("expected revote state cleared")
	}
	if g.AliveCount() != 4 {
		t.Fatalf("expected nobody eliminated")
	}
}

func TestResolveImmunityBeatsPigImmunity(t *testing.T) {
	g := votingGame(3)
	leader := g.Players[102]
	leader.Immune = true
	leader.PigImmune = true

	res := Resolve(g, map[int64]int{101: 0, 102: 2, 103: 1})

	if res.Reason != ReasonImmune || res.Protected != 102 {
		t.Fatalf("expected generic immunity to protect, got %+v", res)
	}
	if leader.Immune {
		t.Fatalf("expected generic immunity to be consumed")
	}
	if !leader.PigImmune || !leader.Alive {
		t.Fatalf("expected pig immunity untouched and leader alive")
	}

	res = Resolve(g, map[int64]int{101: 0, 102: 2, 103: 1})
	if res.Reason != ReasonPigImmune || res.Protected != 102 || !leader.Alive {
		t.Fatalf("expected pig immunity to protect, got %+v", res)
	}
	if len(g.EliminatedIDs) != 0 {
		t.Fatalf("expected no eliminations, got %v", g.EliminatedIDs)
	}
}

func TestAllVotedCountsOnlyAlivePlayers(t *testing.T) {
	g := votingGame(3)
	g.Players[103].Alive = false
	vote(t, g, 101, nil)
	if allVoted(g) {
		t.Fatalf("expected 102 to be pending")
	}
	vote(t, g, 102, ptr(101))
	if !allVoted(g) {
		t.Fatalf("expected all alive players to have voted")
	}
	if voted, total := votedCount(g); voted != 2 || total != 2 {
		t.Fatalf("expected 2/2, got %d/%d", voted, total)
	}
}
