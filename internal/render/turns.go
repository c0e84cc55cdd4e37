package render

import "github.com/a-h/templ"

type PhaseView struct {
	Number         int
	Total          int
	ProfessionOnly bool
	Order          []string
}

func PhaseStarted(v PhaseView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("🎴 <b>Раунд %d из %d</b>\n", v.Number, v.Total)
		if v.ProfessionOnly {
			h.raw("В этом раунде каждый раскрывает профессию.\n")
		} else {
			h.raw("В этом раунде каждый раскрывает одну любую карточку.\n")
		}
		if len(v.Order) > 0 {
			h.raw("\nПорядок ходов:\n")
			for i, name := range v.Order {
				h.raw("%d. ", i+1)
				h.line(name)
			}
		}
	})
}

type EventView struct {
	Name        string
	Kind        string
	Description string
}

func EventCard(v EventView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("⚡️ <b>Событие:</b> ")
		h.text(v.Name)
		if v.Kind != "" {
			h.raw(" (")
			h.text(v.Kind)
			h.raw(")")
		}
		if v.Description != "" {
			h.raw("\n")
			h.italic(v.Description)
		}
	})
}

type TurnView struct {
	Player         string
	Round          int
	Seconds        int
	ProfessionOnly bool
}

func TurnStarted(v TurnView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("👉 Ход игрока ")
		h.bold(v.Player)
		if v.Seconds > 0 {
			h.raw(" (%d сек.)", v.Seconds)
		}
	})
}

func TurnPrompt(v TurnView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("🎯 <b>Твой ход</b> (раунд %d)\n", v.Round)
		if v.ProfessionOnly {
			h.raw("Раскрой свою профессию.")
		} else {
			h.raw("Выбери карточку, которую раскроешь.")
		}
		if v.Seconds > 0 {
			h.raw("\nЕсли не успеешь за %d сек., карточка откроется сама.", v.Seconds)
		}
	})
}

type RevealView struct {
	Player string
	Label  string
	Value  string
	Auto   bool
}

func CardRevealed(v RevealView) templ.Component {
	return component(func(h *htmlWriter) {
		if v.Auto {
			h.raw("⏰ Время вышло. ")
		}
		h.raw("🎴 ")
		h.bold(v.Player)
		h.raw(" раскрыл карточку: ")
		h.bold(v.Label)
		h.raw(": ")
		h.text(v.Value)
	})
}

func TurnSkipped(player, reason string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("⏭ ")
		h.bold(player)
		h.raw(" пропускает ход")
		if reason != "" {
			h.raw(": ")
			h.text(reason)
		}
	})
}
