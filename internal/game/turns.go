package game

import "slices"

// shuffleTurnOrder draws a fresh random order of the alive players.
func (g *Game) shuffleTurnOrder(rng Rand) {
	order := make([]int64, 0, len(g.Players))
	for _, p := range g.AlivePlayers() {
		order = append(order, p.ID)
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	g.TurnOrder = order
	g.TurnIndex = 0
	g.CurrentTurn = 0
}

// nextTurn scans the order circularly from the cursor for a player who still
// owes a reveal in phase k. Players with nothing left to reveal, or who cannot
// reveal this round, are marked complete along the way. It returns the skipped
// players so the caller can announce them.
func (g *Game) nextTurn(k int) (next int64, skipped []int64, ok bool) {
	n := len(g.TurnOrder)
	for i := 0; i < n; i++ {
		idx := (g.TurnIndex + i) % n
		p, exists := g.Players[g.TurnOrder[idx]]
		if !exists || !p.Alive || p.Completed[k] {
			continue
		}
		if p.CannotReveal || len(p.AvailableTraits(k)) == 0 {
			p.markCompleted(k)
			skipped = append(skipped, p.ID)
			continue
		}
		g.TurnIndex = idx
		g.CurrentTurn = p.ID
		return p.ID, skipped, true
	}
	g.CurrentTurn = 0
	return 0, skipped, false
}

// completeTurn records phase k as done for the player and moves the cursor past them.
func (g *Game) completeTurn(playerID int64, k int) {
	if p, ok := g.Players[playerID]; ok {
		p.markCompleted(k)
	}
	if idx := slices.Index(g.TurnOrder, playerID); idx >= 0 && len(g.TurnOrder) > 0 {
		g.TurnIndex = (idx + 1) % len(g.TurnOrder)
	}
	if g.CurrentTurn == playerID {
		g.CurrentTurn = 0
	}
}

func (g *Game) phaseComplete(k int) bool {
	for _, p := range g.Players {
		if p.Alive && !p.Completed[k] {
			return false
		}
	}
	return true
}

func (p *Player) markCompleted(k int) {
	if p.Completed == nil {
		p.Completed = make(map[int]bool)
	}
	p.Completed[k] = true
}

// autoRevealTrait picks the trait revealed on a turn timeout: the profession
// in phase 1, a uniformly random available trait afterwards.
func autoRevealTrait(p *Player, k int, rng Rand) (Trait, bool) {
	available := p.AvailableTraits(k)
	if len(available) == 0 {
		return "", false
	}
	if k == 1 {
		return TraitProfession, true
	}
	return available[rng.IntN(len(available))], true
}
