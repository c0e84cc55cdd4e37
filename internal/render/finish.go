package render

import "github.com/a-h/templ"

type FinalView struct {
	Scenario   string
	Capacity   int
	Winners    []string
	Eliminated []string
	Early      bool
}

func GameFinished(v FinalView) templ.Component {
	return component(func(h *htmlWriter) {
		if v.Early {
			h.raw("🛑 <b>Игра остановлена досрочно.</b>")
			return
		}
		h.raw("🏁 <b>Игра окончена!</b>\n")
		if v.Scenario != "" {
			h.raw("Катастрофа: ")
			h.line(v.Scenario)
		}
		h.raw("\nВ бункер (%d мест) попали: ", v.Capacity)
		h.line(joinNames(v.Winners))
		if len(v.Eliminated) > 0 {
			h.raw("Остались снаружи: ")
			h.line(joinNames(v.Eliminated))
		}
	})
}
