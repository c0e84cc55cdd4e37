package game

import (
	"context"
	"log"
	"time"

	"bunker/internal/render"
)

// startVoting opens a voting round, restricted to the revote candidates when
// the previous round tied.
func (e *Engine) startVoting(g *Game, out *outbox) error {
	g.setPhase(PhaseVoting, e.now())
	g.CurrentTurn = 0
	g.VoteCounts = make(map[int64]int)
	if !g.Revoting {
		g.say(out, render.Players(g.playerLines(true)))
	}

	var blocked []string
	for _, p := range g.AlivePlayers() {
		p.ResetVote()
		if p.VoteBlocked {
			p.HasVoted = true
			blocked = append(blocked, p.DisplayName())
		}
	}
	candidates := g.voteCandidates()
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.DisplayName())
	}
	view := render.VotingView{
		Candidates: names,
		Blocked:    blocked,
		Revote:     g.Revoting,
		Seconds:    int(e.votingTimeout / time.Second),
	}
	out.send(Outgoing{ChatID: g.ChatID, Image: imageVoting, Text: render.String(render.VotingStarted(view))})
	for _, p := range g.AlivePlayers() {
		if p.HasVoted {
			continue
		}
		g.tell(out, p.ID, render.VotePrompt(view), votingKeyboard(g.ChatID, p, candidates))
	}
	out.event(eventPhaseAdvanced, EventPayload{Phase: PhaseVoting, Players: g.RevoteCandidates, CardPhase: g.CardPhase})

	if allVoted(g) {
		return e.finishVoting(g, out)
	}
	e.schedulePhaseTimer(g)
	e.scheduleVotingWarning(g)
	return nil
}

func (g *Game) voteCandidates() []*Player {
	alive := g.AlivePlayers()
	if !g.Revoting {
		return alive
	}
	var candidates []*Player
	for _, p := range alive {
		if containsID(g.RevoteCandidates, p.ID) {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

func (e *Engine) scheduleVotingWarning(g *Game) {
	half := e.votingTimeout / 2
	if half < time.Second {
		return
	}
	chatID, seq := g.ChatID, g.PhaseSeq
	remaining := int((e.votingTimeout - half) / time.Second)
	e.timers.Schedule(chatID, warnKey(chatID), half, func() {
		e.fromTimer(chatID, "voting warning", func(g *Game, out *outbox) error {
			if g.Phase != PhaseVoting || g.PhaseSeq != seq {
				return errStale
			}
			g.say(out, render.Warning(remaining))
			return nil
		})
	})
}

func (e *Engine) Vote(ctx context.Context, chatID, voterID, targetID int64) error {
	return e.castVote(ctx, chatID, voterID, &targetID)
}

// Abstain commits an empty vote for the round.
func (e *Engine) Abstain(ctx context.Context, chatID, voterID int64) error {
	return e.castVote(ctx, chatID, voterID, nil)
}

func (e *Engine) castVote(ctx context.Context, chatID, voterID int64, target *int64) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		if g.Phase != PhaseVoting {
			return ErrWrongPhase
		}
		voter, ok := g.Players[voterID]
		if !ok {
			return ErrNotParticipant
		}
		if !voter.Alive {
			return ErrNotAlive
		}
		if voter.VoteBlocked {
			return ErrVoteBlocked
		}
		if target != nil {
			t, ok := g.Players[*target]
			switch {
			case !ok:
				return ErrUnknownTarget
			case !t.Alive:
				return ErrTargetEliminated
			case t.ID == voter.ID:
				return ErrSelfVote
			case g.Revoting && !containsID(g.RevoteCandidates, t.ID):
				return ErrNotCandidate
			}
		}
		if err := voter.CastVote(target); err != nil {
			return err
		}
		voted, total := votedCount(g)
		g.say(out, render.VoteProgress(render.ProgressView{
			Voter:     voter.DisplayName(),
			Abstained: target == nil,
			Voted:     voted,
			Total:     total,
		}))
		payload := EventPayload{PlayerID: voter.ID, Reason: "abstain"}
		if target != nil {
			payload.TargetID = *target
			payload.Reason = ""
		}
		out.event(eventVoteCast, payload)
		if allVoted(g) {
			return e.finishVoting(g, out)
		}
		return nil
	})
}

// finishVoting tallies the round and moves to Results.
func (e *Engine) finishVoting(g *Game, out *outbox) error {
	e.timers.Cancel(phaseKey(g.ChatID, PhaseVoting))
	e.timers.Cancel(warnKey(g.ChatID))

	counts := Tally(g)
	res := Resolve(g, counts)
	g.setPhase(PhaseResults, e.now())

	view := render.ResultsView{
		Reason:     string(res.Reason),
		Revote:     res.Revote,
		Candidates: g.names(g.RevoteCandidates),
	}
	for _, p := range g.OrderedPlayers() {
		if n, ok := counts[p.ID]; ok {
			view.Lines = append(view.Lines, render.TallyLine{Name: p.DisplayName(), Votes: n})
		}
	}
	if p, ok := g.Players[res.Eliminated]; ok {
		view.Eliminated = p.DisplayName()
	}
	if p, ok := g.Players[res.Protected]; ok {
		view.Protected = p.DisplayName()
	}
	out.send(Outgoing{ChatID: g.ChatID, Image: imageResults, Text: render.String(render.Results(view))})
	out.event(eventVotingResolved, EventPayload{Reason: string(res.Reason), Players: res.Leaders, Count: res.Max})
	if res.Eliminated != 0 {
		out.event(eventPlayerEliminated, EventPayload{PlayerID: res.Eliminated, CardPhase: g.CardPhase})
		log.Printf("player eliminated chat_id=%d player_id=%d votes=%d", g.ChatID, res.Eliminated, res.Max)
	}
	if !res.Revote {
		for _, p := range g.Players {
			p.ResetRound()
		}
	}
	if res.Eliminated != 0 && e.checkGameOver(g, out) {
		return nil
	}
	if e.resultsDelay <= 0 {
		return e.advanceFromResults(g, out)
	}
	e.schedulePhaseTimer(g)
	return nil
}

// advanceFromResults leaves Results: into a revote, the next reveal round,
// or the end of the game.
func (e *Engine) advanceFromResults(g *Game, out *outbox) error {
	e.timers.Cancel(phaseKey(g.ChatID, PhaseResults))
	if g.Revoting {
		return e.startVoting(g, out)
	}
	if e.checkGameOver(g, out) {
		return nil
	}
	if g.CardPhase >= RevealRounds {
		e.finish(g, out)
		return nil
	}
	return e.beginRevealPhase(g, out, g.CardPhase+1)
}
