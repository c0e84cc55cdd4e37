package render

import "github.com/a-h/templ"

type TraitLine struct {
	Label    string
	Value    string
	Revealed bool
}

type SheetView struct {
	Player             string
	Scenario           string
	Traits             []TraitLine
	SpecialName        string
	SpecialDescription string
	SpecialUsed        bool
}

// CharacterSheet is the private card a player receives at game start and on /me.
func CharacterSheet(v SheetView) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("🎭 <b>Твой персонаж</b>")
		if v.Scenario != "" {
			h.raw(" (")
			h.text(v.Scenario)
			h.raw(")")
		}
		h.raw("\n\n")
		for _, trait := range v.Traits {
			h.bold(trait.Label)
			h.raw(": ")
			h.text(trait.Value)
			if trait.Revealed {
				h.raw(" ✅")
			}
			h.raw("\n")
		}
		if v.SpecialName != "" {
			h.raw("\n🃏 <b>Особая карта:</b> ")
			h.line(v.SpecialName)
			h.italic(v.SpecialDescription)
			if v.SpecialUsed {
				h.raw("\n(уже использована)")
			}
		}
	})
}
