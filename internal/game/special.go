package game

import (
	"context"

	"bunker/internal/render"
)

// UseSpecial plays the player's special card during a reveal round. targetID
// is zero when no target was chosen yet; targeted cards then return the
// eligible targets in Outcome.Targets without being spent.
func (e *Engine) UseSpecial(ctx context.Context, chatID, userID, targetID int64) (Outcome, error) {
	var outcome Outcome
	err := e.update(ctx, chatID, func(g *Game, out *outbox) error {
		if !g.Phase.IsReveal() {
			return ErrWrongPhase
		}
		p, ok := g.Players[userID]
		if !ok {
			return ErrNotParticipant
		}
		if !p.Alive {
			return ErrNotAlive
		}
		if p.Character == nil || p.Character.Special == "" {
			return ErrNoSpecial
		}
		if p.SpecialUsed {
			return ErrSpecialUsed
		}
		card, ok := effectRegistry[p.Character.Special]
		if !ok {
			return ErrNoSpecial
		}
		env := &effectEnv{game: g, actor: p, rng: e.rng, cards: e.cards}
		if targetID != 0 {
			target, ok := g.Players[targetID]
			if !ok {
				return ErrUnknownTarget
			}
			if !target.Alive {
				return ErrTargetEliminated
			}
			env.target = target
		}

		outcome = card.play(env)
		if !outcome.Success {
			return nil
		}
		p.SpecialUsed = true
		if outcome.Public != "" {
			g.say(out, render.Notice(outcome.Public))
		}
		if outcome.Message != "" {
			g.tell(out, p.ID, render.Notice("🃏 "+outcome.Message), nil)
		}
		out.event(eventSpecialUsed, EventPayload{PlayerID: p.ID, TargetID: targetID, Effect: p.Character.Special})
		return nil
	})
	return outcome, err
}
