package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func otherThan(ids []int64, id int64) int64 {
	for _, candidate := range ids {
		if candidate != id {
			return candidate
		}
	}
	return 0
}

func TestOnlyCurrentPlayerMayReveal(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	ids := startGame(t, e, 6)
	current := currentTurn(t, e)

	if err := e.Reveal(ctx, testChat, otherThan(ids, current), TraitProfession); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := e.Reveal(ctx, testChat, current, TraitBiology); !errors.Is(err, ErrWrongTrait) {
		t.Fatalf("expected ErrWrongTrait in round 1, got %v", err)
	}
	if err := e.Reveal(ctx, testChat, current, Trait("aura")); !errors.Is(err, ErrUnknownTrait) {
		t.Fatalf("expected ErrUnknownTrait, got %v", err)
	}
	if err := e.Reveal(ctx, testChat, 555, TraitProfession); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if err := e.Reveal(ctx, testChat, current, TraitProfession); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := e.Reveal(ctx, testChat, current, TraitProfession); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected the turn to have moved on, got %v", err)
	}
	viewGame(t, e, func(g *Game) {
		p := g.Players[current]
		if !p.Character.IsRevealed(TraitProfession) || !p.Completed[1] {
			t.Fatalf("expected profession revealed and round complete")
		}
		if g.CurrentTurn == current || g.CurrentTurn == 0 {
			t.Fatalf("expected another player's turn, got %d", g.CurrentTurn)
		}
	})
}

func TestRoundsLeadToVoting(t *testing.T) {
	e, messenger, _ := newTestEngine(t)
	ids := startGame(t, e, 6)
	editGame(t, e, func(g *Game) {
		g.ShelterInfo = "Бункер рассчитан на 2 человек."
	})

	playRound(t, e)
	viewGame(t, e, func(g *Game) {
		if g.Phase != RevealPhase(2) {
			t.Fatalf("expected card_reveal_2 after round 1, got %s", g.Phase)
		}
		for _, p := range g.Players {
			if !p.Completed[1] || !p.Character.IsRevealed(TraitProfession) {
				t.Fatalf("expected %d to have shown the profession", p.ID)
			}
			if len(p.Character.Unrevealed()) != len(AllTraits)-1 {
				t.Fatalf("expected exactly one revealed trait for %d", p.ID)
			}
		}
	})

	playRound(t, e)
	if phase := currentPhase(t, e); phase != PhaseVoting {
		t.Fatalf("expected voting after round 2, got %s", phase)
	}
	for _, id := range ids {
		last := messenger.to(id)
		if len(last) == 0 || len(last[len(last)-1].Keyboard) != len(ids) {
			t.Fatalf("expected a ballot with %d rows for %d", len(ids), id)
		}
	}
}

func TestPassInFirstRoundKeepsProfessionHidden(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	ids := startGame(t, e, 4)
	current := currentTurn(t, e)

	if err := e.Pass(ctx, testChat, otherThan(ids, current)); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := e.Pass(ctx, testChat, current); err != nil {
		t.Fatalf("pass: %v", err)
	}
	viewGame(t, e, func(g *Game) {
		p := g.Players[current]
		if p.Character.IsRevealed(TraitProfession) {
			t.Fatalf("expected profession to stay hidden")
		}
		if !p.Abstained[TraitProfession] || !p.Completed[1] {
			t.Fatalf("expected abstention recorded")
		}
		if len(p.AvailableTraits(3)) != len(AllTraits)-1 {
			t.Fatalf("expected the profession never to be offered again")
		}
	})
}

func TestTurnTimeoutAutoRevealsProfession(t *testing.T) {
	e, messenger, _ := newTestEngine(t)
	startGame(t, e, 4)
	current := currentTurn(t, e)

	e.onTurnTimeout(testChat, RevealPhase(1), current)

	var next int64
	viewGame(t, e, func(g *Game) {
		p := g.Players[current]
		if !p.Character.IsRevealed(TraitProfession) || !p.Completed[1] {
			t.Fatalf("expected profession auto-revealed")
		}
		next = g.CurrentTurn
	})
	if next == current || next == 0 {
		t.Fatalf("expected the turn to advance, got %d", next)
	}
	if messenger.containing(testChat, "⏰") == 0 {
		t.Fatalf("expected the auto reveal to be marked")
	}

	e.onTurnTimeout(testChat, RevealPhase(1), current)
	if got := currentTurn(t, e); got != next {
		t.Fatalf("expected a stale timeout to change nothing, turn %d -> %d", next, got)
	}
}

func TestTurnTimeoutLaterRoundRevealsOneTrait(t *testing.T) {
	e, _, _ := newTestEngine(t)
	craftGame(t, e, 3, RevealPhase(4), 1)
	editGame(t, e, func(g *Game) {
		g.CurrentTurn = 101
	})

	e.onTurnTimeout(testChat, RevealPhase(4), 101)

	viewGame(t, e, func(g *Game) {
		p := g.Players[101]
		if got := len(p.Character.Unrevealed()); got != len(AllTraits)-1 {
			t.Fatalf("expected one trait revealed, got %d hidden", got)
		}
		if !p.Completed[4] {
			t.Fatalf("expected round 4 complete for 101")
		}
		if g.CurrentTurn != 102 {
			t.Fatalf("expected 102 next, got %d", g.CurrentTurn)
		}
	})
}

func TestTurnTimersDriveRoundsWithoutInput(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.turnTimeout = 10 * time.Millisecond
	startGame(t, e, 2)

	waitFor(t, func() bool {
		var phase Phase
		_ = e.store.View(testChat, func(g *Game) { phase = g.Phase })
		return phase == PhaseVoting
	})
	viewGame(t, e, func(g *Game) {
		for _, p := range g.Players {
			if !p.Completed[1] || !p.Completed[2] {
				t.Fatalf("expected %d to complete both rounds", p.ID)
			}
			if len(p.Character.Unrevealed()) != len(AllTraits)-2 {
				t.Fatalf("expected two auto reveals for %d", p.ID)
			}
		}
	})
}
