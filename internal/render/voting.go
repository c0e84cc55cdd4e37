package render

import "github.com/a-h/templ"

type VotingView struct {
	Candidates []string
	Blocked    []string
	Revote     bool
	Seconds    int
}

func VotingStarted(v VotingView) templ.Component {
	return component(func(h *htmlWriter) {
		if v.Revote {
			h.raw("🔁 <b>Переголосование</b>\nГолоса разделились. Выбирать можно только из: ")
			h.line(joinNames(v.Candidates))
		} else {
			h.raw("🗳 <b>Голосование</b>\nКого не берём в бункер? Кандидаты: ")
			h.line(joinNames(v.Candidates))
		}
		if len(v.Blocked) > 0 {
			h.raw("Без права голоса: ")
			h.line(joinNames(v.Blocked))
		}
		if v.Seconds > 0 {
			h.raw("На голосование %d сек. Бюллетени отправлены в личные сообщения.", v.Seconds)
		} else {
			h.raw("Бюллетени отправлены в личные сообщения.")
		}
	})
}

func VotePrompt(v VotingView) templ.Component {
	return component(func(h *htmlWriter) {
		if v.Revote {
			h.raw("🔁 <b>Переголосование.</b> ")
		} else {
			h.raw("🗳 <b>Голосование.</b> ")
		}
		h.raw("Кого исключить из бункера?")
	})
}

type ProgressView struct {
	Voter     string
	Abstained bool
	Voted     int
	Total     int
}

func VoteProgress(v ProgressView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("✅ ")
		h.bold(v.Voter)
		if v.Abstained {
			h.raw(" воздержался")
		} else {
			h.raw(" проголосовал")
		}
		h.raw(" (%d/%d)", v.Voted, v.Total)
	})
}

type TallyLine struct {
	Name  string
	Votes int
}

type ResultsView struct {
	Lines      []TallyLine
	Eliminated string
	Protected  string
	Reason     string
	Revote     bool
	Candidates []string
}

const (
	ReasonEliminated = "eliminated"
	ReasonNoVotes    = "no_votes"
	ReasonTie        = "tie"
	ReasonImmune     = "immune"
	ReasonPigImmune  = "pig_immune"
)

func Results(v ResultsView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("📊 <b>Итоги голосования</b>\n")
		for _, line := range v.Lines {
			h.text(line.Name)
			h.raw(": %d\n", line.Votes)
		}
		h.raw("\n")
		switch v.Reason {
		case ReasonEliminated:
			h.raw("🚪 ")
			h.bold(v.Eliminated)
			h.raw(" покидает бункер.")
		case ReasonImmune:
			h.raw("🛡 ")
			h.bold(v.Protected)
			h.raw(" набрал больше всех голосов, но иммунитет спас его. Иммунитет потрачен.")
		case ReasonPigImmune:
			h.raw("🐷 ")
			h.bold(v.Protected)
			h.raw(" превратился в свинью, и свиней не выгоняют. Никто не исключён.")
		case ReasonTie:
			if v.Revote {
				h.raw("⚖️ Ничья между: ")
				h.text(joinNames(v.Candidates))
				h.raw(". Будет переголосование.")
			} else {
				h.raw("⚖️ Снова ничья. В этом раунде никто не исключён.")
			}
		default:
			h.raw("Никто не получил голосов. Никто не исключён.")
		}
	})
}

func Warning(seconds int) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("⏳ До конца голосования осталось %d сек.", seconds)
	})
}
