package game

type Trait string

const (
	TraitProfession Trait = "profession"
	TraitBiology    Trait = "biology"
	TraitHealth     Trait = "health"
	TraitPhobia     Trait = "phobia"
	TraitHobby      Trait = "hobby"
	TraitFact       Trait = "fact"
	TraitBaggage    Trait = "baggage"
)

var AllTraits = []Trait{
	TraitProfession, TraitBiology, TraitHealth, TraitPhobia,
	TraitHobby, TraitFact, TraitBaggage,
}

var traitLabels = map[Trait]string{
	TraitProfession: "💼 Профессия",
	TraitBiology:    "👤 Биология",
	TraitHealth:     "🫁 Здоровье",
	TraitPhobia:     "🗣 Фобия",
	TraitHobby:      "🎮 Хобби",
	TraitFact:       "🔎 Факт",
	TraitBaggage:    "📦 Багаж",
}

func ParseTrait(raw string) (Trait, bool) {
	t := Trait(raw)
	return t, t.Valid()
}

func (t Trait) Valid() bool {
	_, ok := traitLabels[t]
	return ok
}

func (t Trait) Label() string {
	if label, ok := traitLabels[t]; ok {
		return label
	}
	return string(t)
}
