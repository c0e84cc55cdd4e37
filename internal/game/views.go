package game

import (
	"bunker/internal/render"

	"github.com/a-h/templ"
)

const (
	imageStart   = "start"
	imageVoting  = "voting"
	imageResults = "results"
	imageFinish  = "finish"
)

// say queues a message to the game's group chat.
func (g *Game) say(out *outbox, c templ.Component) {
	out.send(Outgoing{ChatID: g.ChatID, Text: render.String(c)})
}

// tell queues a private message to a player.
func (g *Game) tell(out *outbox, userID int64, c templ.Component, keyboard Keyboard) {
	out.send(Outgoing{ChatID: userID, Text: render.String(c), Keyboard: keyboard, gameChat: g.ChatID})
}

func (g *Game) names(ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := g.Players[id]; ok {
			names = append(names, p.DisplayName())
		}
	}
	return names
}

func (g *Game) lobbyView(allowed []int) render.LobbyView {
	v := render.LobbyView{
		Allowed: allowed,
		Max:     g.MaxPlayers,
		Started: g.Phase != PhaseLobby,
		Players: g.names(g.JoinOrder),
	}
	if owner, ok := g.Players[g.OwnerID]; ok {
		v.Owner = owner.DisplayName()
	}
	return v
}

func sheetView(g *Game, p *Player) render.SheetView {
	v := render.SheetView{Player: p.DisplayName(), Scenario: g.Scenario}
	if p.Character == nil {
		return v
	}
	for _, t := range AllTraits {
		v.Traits = append(v.Traits, render.TraitLine{
			Label:    t.Label(),
			Value:    p.Character.Value(t),
			Revealed: p.Character.IsRevealed(t),
		})
	}
	if name, description, ok := EffectInfo(p.Character.Special); ok {
		v.SpecialName = name
		v.SpecialDescription = description
		v.SpecialUsed = p.SpecialUsed
	}
	return v
}

func (g *Game) playerLines(withTraits bool) []render.PlayerLine {
	lines := make([]render.PlayerLine, 0, len(g.Players))
	for _, p := range g.OrderedPlayers() {
		line := render.PlayerLine{
			Name:    p.DisplayName(),
			Alive:   p.Alive,
			Owner:   p.ID == g.OwnerID,
			Current: p.ID == g.CurrentTurn,
		}
		if withTraits && p.Character != nil {
			for _, t := range AllTraits {
				if p.Character.IsRevealed(t) {
					line.Revealed = append(line.Revealed, render.TraitLine{Label: t.Label(), Value: p.Character.Value(t), Revealed: true})
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func (g *Game) statusView() render.StatusView {
	v := render.StatusView{
		Phase:    g.Phase.Title(),
		Scenario: g.Scenario,
		Shelter:  g.ShelterInfo,
		Alive:    g.AliveCount(),
		Players:  g.playerLines(true),
	}
	if g.ShelterInfo != "" {
		v.Capacity = g.ShelterCapacity()
	}
	if p, ok := g.Players[g.CurrentTurn]; ok {
		v.Current = p.DisplayName()
	}
	return v
}
