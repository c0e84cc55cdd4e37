package game

import (
	"context"
	"time"

	"bunker/internal/cards"
	"bunker/internal/render"
)

// beginRevealPhase opens card reveal round k. The turn order is drawn once,
// on the first round, and reused afterwards.
func (e *Engine) beginRevealPhase(g *Game, out *outbox, k int) error {
	g.setPhase(RevealPhase(k), e.now())
	if k == 1 || len(g.TurnOrder) == 0 {
		g.shuffleTurnOrder(e.rng)
	}
	g.TurnIndex = 0
	g.CurrentTurn = 0

	var order []string
	for _, id := range g.TurnOrder {
		if p, ok := g.Players[id]; ok && p.Alive {
			order = append(order, p.DisplayName())
		}
	}
	g.say(out, render.PhaseStarted(render.PhaseView{
		Number:         k,
		Total:          RevealRounds,
		ProfessionOnly: k == 1,
		Order:          order,
	}))
	if event, ok := pickEntry(e.cards.Pool(cards.Events), e.rng); ok {
		g.say(out, render.EventCard(render.EventView{Name: event.Text, Kind: event.Kind, Description: event.Detail}))
	}
	out.event(eventPhaseAdvanced, EventPayload{Phase: g.Phase, CardPhase: k})
	return e.startNextTurn(g, out)
}

// startNextTurn hands the turn to the next eligible player or closes the
// round when nobody owes a reveal.
func (e *Engine) startNextTurn(g *Game, out *outbox) error {
	k := g.CardPhase
	next, skipped, ok := g.nextTurn(k)
	for _, id := range skipped {
		p := g.Players[id]
		reason := "нечего раскрывать"
		if p.CannotReveal {
			reason = "свиньи карты не раскрывают"
		}
		g.say(out, render.TurnSkipped(p.DisplayName(), reason))
	}
	if !ok {
		return e.finishRevealPhase(g, out)
	}

	p := g.Players[next]
	g.TurnStartedAt = e.now()
	view := render.TurnView{
		Player:         p.DisplayName(),
		Round:          k,
		Seconds:        int(e.turnTimeout / time.Second),
		ProfessionOnly: k == 1,
	}
	g.say(out, render.TurnStarted(view))
	out.send(Outgoing{
		ChatID:   p.ID,
		Text:     render.String(render.TurnPrompt(view)),
		Keyboard: revealKeyboard(g.ChatID, p, k),
		gameChat: g.ChatID,
		track:    trackTurn,
	})

	if e.turnTimeout > 0 {
		chatID, phase := g.ChatID, g.Phase
		e.timers.Schedule(chatID, turnKey(chatID), e.turnTimeout, func() {
			e.onTurnTimeout(chatID, phase, next)
		})
	}
	return nil
}

// Reveal publishes one trait of the player whose turn it is.
func (e *Engine) Reveal(ctx context.Context, chatID, userID int64, trait Trait) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		k := g.Phase.CardNumber()
		if k == 0 {
			return ErrWrongPhase
		}
		p, ok := g.Players[userID]
		if !ok {
			return ErrNotParticipant
		}
		if !p.Alive {
			return ErrNotAlive
		}
		if p.CannotReveal {
			return ErrRevealBlocked
		}
		if g.CurrentTurn != userID {
			return ErrNotYourTurn
		}
		if !trait.Valid() {
			return ErrUnknownTrait
		}
		if k == 1 && trait != TraitProfession {
			return ErrWrongTrait
		}
		if !p.RevealCard(trait) {
			return ErrAlreadyRevealed
		}
		g.say(out, render.CardRevealed(render.RevealView{
			Player: p.DisplayName(),
			Label:  trait.Label(),
			Value:  p.Character.Value(trait),
		}))
		out.event(eventCardRevealed, EventPayload{PlayerID: p.ID, Trait: trait, CardPhase: k})
		return e.completeTurn(g, out, userID)
	})
}

// Pass ends the player's turn without a reveal. In the first round this is
// an explicit refusal to show the profession.
func (e *Engine) Pass(ctx context.Context, chatID, userID int64) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		k := g.Phase.CardNumber()
		if k == 0 {
			return ErrWrongPhase
		}
		p, ok := g.Players[userID]
		if !ok {
			return ErrNotParticipant
		}
		if !p.Alive {
			return ErrNotAlive
		}
		if g.CurrentTurn != userID {
			return ErrNotYourTurn
		}
		reason := ""
		if k == 1 {
			p.Abstained[TraitProfession] = true
			reason = "профессия останется тайной"
		}
		g.say(out, render.TurnSkipped(p.DisplayName(), reason))
		out.event(eventTurnSkipped, EventPayload{PlayerID: p.ID, CardPhase: k, Reason: "pass"})
		return e.completeTurn(g, out, userID)
	})
}

func (e *Engine) onTurnTimeout(chatID int64, phase Phase, playerID int64) {
	e.fromTimer(chatID, "turn timeout", func(g *Game, out *outbox) error {
		if g.Phase != phase || g.CurrentTurn != playerID {
			return errStale
		}
		p := g.Players[playerID]
		k := phase.CardNumber()
		trait, ok := autoRevealTrait(p, k, e.rng)
		if ok && !p.CannotReveal && p.RevealCard(trait) {
			g.say(out, render.CardRevealed(render.RevealView{
				Player: p.DisplayName(),
				Label:  trait.Label(),
				Value:  p.Character.Value(trait),
				Auto:   true,
			}))
			out.event(eventCardRevealed, EventPayload{PlayerID: p.ID, Trait: trait, CardPhase: k, Reason: "timeout"})
		} else {
			g.say(out, render.TurnSkipped(p.DisplayName(), "время вышло"))
			out.event(eventTurnSkipped, EventPayload{PlayerID: p.ID, CardPhase: k, Reason: "timeout"})
		}
		return e.completeTurn(g, out, playerID)
	})
}

// completeTurn records the turn as done, drops the private prompt and moves on.
func (e *Engine) completeTurn(g *Game, out *outbox, playerID int64) error {
	e.timers.Cancel(turnKey(g.ChatID))
	out.remove(playerID, g.TurnMessageID)
	g.TurnMessageID = 0
	g.completeTurn(playerID, g.CardPhase)
	return e.startNextTurn(g, out)
}

// finishRevealPhase decides what follows round k: voting, the next round or
// the end of the game.
func (e *Engine) finishRevealPhase(g *Game, out *outbox) error {
	k := g.CardPhase
	e.timers.Cancel(turnKey(g.ChatID))
	g.CurrentTurn = 0
	if e.checkGameOver(g, out) {
		return nil
	}
	if VotingRequired(k, g.AliveCount()) {
		return e.startVoting(g, out)
	}
	if k >= RevealRounds {
		e.finish(g, out)
		return nil
	}
	return e.beginRevealPhase(g, out, k+1)
}
