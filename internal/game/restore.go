package game

import (
	"context"
	"fmt"
	"log"

	"bunker/internal/render"
)

// Restore rebuilds every unfinished game from the persister and re-arms its
// timers. Finished records are dropped. It returns how many games resumed.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	records, err := e.persister.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load game states: %w", err)
	}
	restored := 0
	for _, record := range records {
		g := gameFromRecord(record, e.now())
		if g.Phase == PhaseFinished {
			if err := e.persister.Delete(ctx, g.ChatID); err != nil {
				log.Printf("delete finished game state failed chat_id=%d error=%v", g.ChatID, err)
			}
			continue
		}
		if err := e.store.Create(g); err != nil {
			log.Printf("restore game skipped chat_id=%d error=%v", g.ChatID, err)
			continue
		}
		if err := e.update(ctx, g.ChatID, func(g *Game, out *outbox) error {
			out.event(eventGameRestored, EventPayload{Phase: g.Phase, CardPhase: g.CardPhase})
			if g.Phase != PhaseLobby {
				g.say(out, render.Notice("♻️ Бот перезапущен, игра продолжается"))
			}
			return e.resume(g, out)
		}); err != nil {
			log.Printf("resume game failed chat_id=%d error=%v", g.ChatID, err)
			continue
		}
		restored++
	}
	log.Printf("games restored count=%d", restored)
	return restored, nil
}

// resume re-arms the timers of a restored game's phase.
func (e *Engine) resume(g *Game, out *outbox) error {
	switch {
	case g.Phase == PhaseLobby:
		return nil
	case g.Phase.IsReveal():
		if len(g.TurnOrder) == 0 {
			g.shuffleTurnOrder(e.rng)
		}
		if p, ok := g.Players[g.CurrentTurn]; ok && p.Alive && !p.Completed[g.CardPhase] {
			if e.turnTimeout > 0 {
				chatID, phase, playerID := g.ChatID, g.Phase, p.ID
				e.timers.Schedule(chatID, turnKey(chatID), e.turnTimeout, func() {
					e.onTurnTimeout(chatID, phase, playerID)
				})
			}
			return nil
		}
		return e.startNextTurn(g, out)
	case g.Phase == PhaseVoting:
		if allVoted(g) {
			return e.finishVoting(g, out)
		}
		e.schedulePhaseTimer(g)
		return nil
	case g.Phase == PhaseResults:
		if e.resultsDelay <= 0 {
			return e.advanceFromResults(g, out)
		}
		e.schedulePhaseTimer(g)
		return nil
	case g.Phase == PhaseRoleStudy:
		if e.roleStudy <= 0 {
			return e.beginRevealPhase(g, out, 1)
		}
		e.schedulePhaseTimer(g)
		return nil
	}
	return nil
}
