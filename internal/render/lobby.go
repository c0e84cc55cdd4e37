package render

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

type LobbyView struct {
	Owner   string
	Players []string
	Allowed []int
	Max     int
	Started bool
}

func Lobby(v LobbyView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("🏚 <b>Бункер</b>\n")
		if v.Started {
			h.raw("Игра началась. Набор закрыт.\n\n")
		} else {
			h.raw("Набор в бункер открыт. Ведущий: ")
			h.bold(v.Owner)
			h.raw("\n\n")
		}
		h.raw("Участники (%d/%d):\n", len(v.Players), v.Max)
		for i, name := range v.Players {
			h.raw("%d. ", i+1)
			h.line(name)
		}
		if !v.Started {
			allowed := make([]string, 0, len(v.Allowed))
			for _, n := range v.Allowed {
				allowed = append(allowed, strconv.Itoa(n))
			}
			h.raw("\nДопустимое число игроков: %s", strings.Join(allowed, ", "))
		}
	})
}

type StartView struct {
	Scenario    string
	Description string
	Shelter     string
	Capacity    int
	Players     int
}

func GameStarted(v StartView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("☢️ <b>Катастрофа:</b> ")
		h.line(v.Scenario)
		if v.Description != "" {
			h.italic(v.Description)
			h.raw("\n")
		}
		h.raw("\n🏠 <b>Бункер:</b> ")
		h.line(v.Shelter)
		h.raw("\nИгроков: %d. Мест в бункере: %d.\n", v.Players, v.Capacity)
		h.raw("Карточки персонажей отправлены в личные сообщения.")
	})
}

type PlayerLine struct {
	Name     string
	Alive    bool
	Owner    bool
	Current  bool
	Revealed []TraitLine
}

type StatusView struct {
	Phase    string
	Scenario string
	Shelter  string
	Alive    int
	Capacity int
	Current  string
	Players  []PlayerLine
}

func Status(v StatusView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("📋 <b>Фаза:</b> ")
		h.line(v.Phase)
		if v.Scenario != "" {
			h.raw("☢️ ")
			h.line(v.Scenario)
		}
		if v.Shelter != "" {
			h.raw("🏠 ")
			h.line(v.Shelter)
		}
		if v.Capacity > 0 {
			h.raw("В живых: %d, мест: %d\n", v.Alive, v.Capacity)
		}
		if v.Current != "" {
			h.raw("Сейчас ходит: ")
			h.bold(v.Current)
			h.raw("\n")
		}
		if len(v.Players) > 0 {
			h.raw("\n")
			writePlayers(h, v.Players)
		}
	})
}

func Players(lines []PlayerLine) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("👥 <b>Игроки</b>\n")
		writePlayers(h, lines)
	})
}

func writePlayers(h *htmlWriter, lines []PlayerLine) {
	for _, p := range lines {
		switch {
		case !p.Alive:
			h.raw("💀 <s>%s</s>", templ.EscapeString(p.Name))
		case p.Current:
			h.raw("▶️ ")
			h.bold(p.Name)
		default:
			h.raw("🙂 ")
			h.text(p.Name)
		}
		if p.Owner {
			h.raw(" 👑")
		}
		h.raw("\n")
		for _, trait := range p.Revealed {
			h.raw("    %s: ", templ.EscapeString(trait.Label))
			h.line(trait.Value)
		}
	}
}
