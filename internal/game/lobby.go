package game

import (
	"context"

	"bunker/internal/cards"
	"bunker/internal/render"
)

const fallbackScenario = "Ядерная война"

// CreateGame opens a lobby in the chat with the owner as its first player.
// A finished game still waiting for cleanup is replaced.
func (e *Engine) CreateGame(ctx context.Context, chatID int64, owner User) error {
	finished := false
	_ = e.store.View(chatID, func(g *Game) {
		finished = g.Phase == PhaseFinished
	})
	if finished {
		e.timers.CancelChat(chatID)
		e.store.Delete(chatID)
	}

	now := e.now()
	g := NewGame(chatID, owner.ID, e.maxPlayers, now)
	p := NewPlayer(owner, now)
	p.Admin = e.IsOperator(owner.ID)
	if err := g.AddPlayer(p); err != nil {
		return err
	}
	if err := e.store.Create(g); err != nil {
		return err
	}
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		out.send(Outgoing{
			ChatID:   g.ChatID,
			Text:     render.String(render.Lobby(g.lobbyView(e.allowedPlayers))),
			Keyboard: lobbyKeyboard(g.ChatID),
			Pin:      true,
			gameChat: g.ChatID,
			track:    trackStatus,
		})
		out.event(eventGameCreated, EventPayload{PlayerID: owner.ID, Phase: PhaseLobby})
		out.event(eventPlayerJoined, EventPayload{PlayerID: owner.ID, Player: p.DisplayName()})
		return nil
	})
}

func (e *Engine) Join(ctx context.Context, chatID int64, user User) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		p := NewPlayer(user, e.now())
		p.Admin = e.IsOperator(user.ID)
		if err := g.AddPlayer(p); err != nil {
			return err
		}
		e.refreshLobby(g, out)
		g.say(out, render.Notice("✋ "+p.DisplayName()+" присоединяется к игре"))
		out.event(eventPlayerJoined, EventPayload{PlayerID: p.ID, Player: p.DisplayName(), Count: len(g.Players)})
		return nil
	})
}

// Leave removes a player from the lobby. During play the player is counted as
// eliminated and the game moves on without them.
func (e *Engine) Leave(ctx context.Context, chatID, userID int64) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		p, ok := g.Players[userID]
		if !ok {
			return ErrNotParticipant
		}
		switch {
		case g.Phase == PhaseLobby:
			g.RemovePlayer(userID)
			out.event(eventPlayerLeft, EventPayload{PlayerID: userID, Phase: g.Phase})
			if len(g.Players) == 0 {
				g.say(out, render.Notice("Все участники вышли, игра отменена"))
				e.destroy(g, out)
				return nil
			}
			if g.OwnerID == userID {
				g.OwnerID = g.JoinOrder[0]
			}
			e.refreshLobby(g, out)
			g.say(out, render.Notice("👋 "+p.DisplayName()+" выходит из игры"))
			return nil
		case g.Phase == PhaseFinished:
			return ErrWrongPhase
		case !p.Alive:
			return ErrNotAlive
		}
		p.Alive = false
		g.EliminatedIDs = append(g.EliminatedIDs, p.ID)
		g.say(out, render.Notice("👋 "+p.DisplayName()+" покидает игру и остаётся снаружи"))
		out.event(eventPlayerLeft, EventPayload{PlayerID: userID, Phase: g.Phase})
		return e.afterDeparture(g, out, userID)
	})
}

func (e *Engine) afterDeparture(g *Game, out *outbox, playerID int64) error {
	if e.checkGameOver(g, out) {
		return nil
	}
	switch {
	case g.Phase.IsReveal() && g.CurrentTurn == playerID:
		return e.completeTurn(g, out, playerID)
	case g.Phase == PhaseVoting && allVoted(g):
		return e.finishVoting(g, out)
	}
	return nil
}

func (e *Engine) refreshLobby(g *Game, out *outbox) {
	var keyboard Keyboard
	if g.Phase == PhaseLobby {
		keyboard = lobbyKeyboard(g.ChatID)
	}
	out.edit(g.ChatID, g.StatusMessageID, render.String(render.Lobby(g.lobbyView(e.allowedPlayers))), keyboard)
}

// Start deals characters, draws the catastrophe and shelter, and opens the
// first reveal round (after role study when that is configured).
func (e *Engine) Start(ctx context.Context, chatID, userID int64) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		if g.Phase != PhaseLobby {
			return ErrWrongPhase
		}
		if userID != g.OwnerID && !e.IsOperator(userID) {
			return ErrNotAllowed
		}
		if err := g.CanStart(e.allowedPlayers); err != nil {
			return err
		}
		for _, p := range g.OrderedPlayers() {
			p.Character = GenerateCharacter(e.cards, e.rng, e.specialChance)
			p.Alive = true
			p.Completed = make(map[int]bool)
			p.Abstained = make(map[Trait]bool)
		}
		g.Scenario = fallbackScenario
		if scenario, ok := pickEntry(e.cards.Pool(cards.Scenarios), e.rng); ok {
			g.Scenario = scenario.Text
			g.ScenarioDescription = scenario.Detail
		}
		g.ShelterInfo = shelterText(g.AliveCount(), e.rng)
		g.setPhase(PhaseRoleStudy, e.now())
		e.refreshLobby(g, out)

		out.send(Outgoing{
			ChatID: g.ChatID,
			Image:  imageStart,
			Text: render.String(render.GameStarted(render.StartView{
				Scenario:    g.Scenario,
				Description: g.ScenarioDescription,
				Shelter:     g.ShelterInfo,
				Capacity:    g.ShelterCapacity(),
				Players:     len(g.Players),
			})),
		})
		for _, p := range g.OrderedPlayers() {
			g.tell(out, p.ID, render.CharacterSheet(sheetView(g, p)), nil)
		}
		out.event(eventGameStarted, EventPayload{Players: g.JoinOrder, Count: g.ShelterCapacity()})

		if e.roleStudy > 0 {
			g.say(out, render.Notice("📖 Изучите своих персонажей. Первый раунд начнётся автоматически."))
			e.schedulePhaseTimer(g)
			return nil
		}
		return e.beginRevealPhase(g, out, 1)
	})
}

// End stops a game early. Only the owner or an operator may do this.
func (e *Engine) End(ctx context.Context, chatID, userID int64) error {
	return e.update(ctx, chatID, func(g *Game, out *outbox) error {
		if userID != g.OwnerID && !e.IsOperator(userID) {
			return ErrNotAllowed
		}
		g.say(out, render.GameFinished(render.FinalView{Early: true}))
		out.event(eventGameEnded, EventPayload{PlayerID: userID, Phase: g.Phase})
		e.destroy(g, out)
		return nil
	})
}

// announce renders read-only messages for a game without persisting it.
func (e *Engine) announce(ctx context.Context, chatID int64, fn func(g *Game, out *outbox) error) error {
	out := &outbox{}
	var fnErr error
	if err := e.store.View(chatID, func(g *Game) {
		fnErr = fn(g, out)
	}); err != nil {
		return err
	}
	if fnErr != nil {
		return fnErr
	}
	e.flush(ctx, out)
	return nil
}

func (e *Engine) ShowStatus(ctx context.Context, chatID int64) error {
	return e.announce(ctx, chatID, func(g *Game, out *outbox) error {
		if g.Phase == PhaseLobby {
			g.say(out, render.Lobby(g.lobbyView(e.allowedPlayers)))
			return nil
		}
		g.say(out, render.Status(g.statusView()))
		return nil
	})
}

func (e *Engine) ShowPlayers(ctx context.Context, chatID int64) error {
	return e.announce(ctx, chatID, func(g *Game, out *outbox) error {
		g.say(out, render.Players(g.playerLines(false)))
		return nil
	})
}

// ShowCharacter sends the player's own character sheet to them privately.
func (e *Engine) ShowCharacter(ctx context.Context, chatID, userID int64) error {
	return e.announce(ctx, chatID, func(g *Game, out *outbox) error {
		p, ok := g.Players[userID]
		if !ok {
			return ErrNotParticipant
		}
		if p.Character == nil {
			return ErrWrongPhase
		}
		g.tell(out, p.ID, render.CharacterSheet(sheetView(g, p)), nil)
		return nil
	})
}
