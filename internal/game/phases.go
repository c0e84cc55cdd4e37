package game

import (
	"log"
	"time"

	"bunker/internal/render"
)

type phaseTransition struct {
	advance func(e *Engine, g *Game, out *outbox) error
}

// phaseTransitions is filled in init because the transitions reach back into
// advancePhase through the timers they arm.
var phaseTransitions map[Phase]phaseTransition

func init() {
	phaseTransitions = map[Phase]phaseTransition{
		PhaseRoleStudy: {
			advance: func(e *Engine, g *Game, out *outbox) error {
				return e.beginRevealPhase(g, out, 1)
			},
		},
		PhaseVoting: {
			advance: func(e *Engine, g *Game, out *outbox) error {
				g.say(out, render.Notice("⏰ Время голосования вышло. Кто не успел, считается воздержавшимся."))
				return e.finishVoting(g, out)
			},
		},
		PhaseResults: {
			advance: func(e *Engine, g *Game, out *outbox) error {
				return e.advanceFromResults(g, out)
			},
		},
	}
	for k := 1; k <= RevealRounds; k++ {
		phaseTransitions[RevealPhase(k)] = phaseTransition{
			advance: func(e *Engine, g *Game, out *outbox) error {
				return e.finishRevealPhase(g, out)
			},
		}
	}
}

func (e *Engine) advancePhase(g *Game, out *outbox) error {
	transition, ok := phaseTransitions[g.Phase]
	if !ok {
		return ErrWrongPhase
	}
	return transition.advance(e, g, out)
}

func (g *Game) setPhase(phase Phase, at time.Time) {
	g.Phase = phase
	g.PhaseStartedAt = at
	g.PhaseSeq++
	if k := phase.CardNumber(); k > 0 {
		g.CardPhase = k
	}
}

func (e *Engine) phaseDuration(phase Phase) time.Duration {
	switch phase {
	case PhaseRoleStudy:
		return e.roleStudy
	case PhaseVoting:
		return e.votingTimeout
	case PhaseResults:
		return e.resultsDelay
	default:
		return 0
	}
}

// schedulePhaseTimer arms the timeout of the game's current phase. Reveal
// phases are driven by turn timers instead.
func (e *Engine) schedulePhaseTimer(g *Game) {
	chatID, phase, seq := g.ChatID, g.Phase, g.PhaseSeq
	duration := e.phaseDuration(phase)
	if duration <= 0 {
		e.timers.Cancel(phaseKey(chatID, phase))
		return
	}
	e.timers.Schedule(chatID, phaseKey(chatID, phase), duration, func() {
		e.autoAdvancePhase(chatID, phase, seq)
	})
}

func (e *Engine) autoAdvancePhase(chatID int64, expected Phase, seq uint64) {
	e.fromTimer(chatID, "auto-advance", func(g *Game, out *outbox) error {
		if g.Phase != expected || g.PhaseSeq != seq {
			return errStale
		}
		if err := e.advancePhase(g, out); err != nil {
			return err
		}
		log.Printf("game auto-advanced chat_id=%d from=%s to=%s", chatID, expected, g.Phase)
		return nil
	})
}

// checkGameOver finishes the game once the survivors fit in the shelter.
func (e *Engine) checkGameOver(g *Game, out *outbox) bool {
	if g.Phase == PhaseFinished || g.ShelterInfo == "" || !g.Over() {
		return false
	}
	e.finish(g, out)
	return true
}

func (e *Engine) finish(g *Game, out *outbox) {
	e.timers.CancelChat(g.ChatID)
	out.remove(g.CurrentTurn, g.TurnMessageID)
	g.CurrentTurn = 0
	g.TurnMessageID = 0
	g.setPhase(PhaseFinished, e.now())
	g.FinishedAt = g.PhaseStartedAt
	g.Winners = g.Winners[:0]
	for _, p := range g.AlivePlayers() {
		g.Winners = append(g.Winners, p.ID)
	}
	out.send(Outgoing{
		ChatID: g.ChatID,
		Image:  imageFinish,
		Text: render.String(render.GameFinished(render.FinalView{
			Scenario:   g.Scenario,
			Capacity:   g.ShelterCapacity(),
			Winners:    g.names(g.Winners),
			Eliminated: g.names(g.EliminatedIDs),
		})),
	})
	g.say(out, render.Status(g.statusView()))
	out.event(eventGameFinished, EventPayload{Players: g.Winners, Count: len(g.Winners)})
	log.Printf("game finished chat_id=%d winners=%v", g.ChatID, g.Winners)

	if e.finishGrace > 0 {
		chatID := g.ChatID
		e.timers.Schedule(chatID, cleanupKey(chatID), e.finishGrace, func() {
			e.cleanup(chatID)
		})
	}
}

func (e *Engine) cleanup(chatID int64) {
	e.fromTimer(chatID, "cleanup", func(g *Game, out *outbox) error {
		if g.Phase != PhaseFinished {
			return errStale
		}
		e.destroy(g, out)
		return nil
	})
}

// destroy drops the game from memory and marks its record for deletion.
func (e *Engine) destroy(g *Game, out *outbox) {
	e.timers.CancelChat(g.ChatID)
	e.store.Delete(g.ChatID)
	out.deleted = true
}
