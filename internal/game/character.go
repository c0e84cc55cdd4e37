package game

import (
	"fmt"
	"slices"

	"bunker/internal/cards"
)

const (
	minAge = 16
	maxAge = 100

	unknownCard = "Неизвестно"
)

// CardSource supplies the card pools characters are drawn from.
type CardSource interface {
	Pool(category string) []cards.Entry
}

type Character struct {
	Profession string         `json:"profession"`
	Gender     string         `json:"gender"`
	Age        int            `json:"age"`
	BodyType   string         `json:"body_type"`
	Disease    string         `json:"disease"`
	Phobia     string         `json:"phobia"`
	Hobby      string         `json:"hobby"`
	Fact       string         `json:"fact"`
	Baggage    string         `json:"baggage"`
	Special    EffectKind     `json:"special_card_ref,omitempty"`
	Revealed   map[Trait]bool `json:"revealed_cards"`
}

// Reveal marks a trait as public. It returns false when the trait is unknown
// or already revealed; a revealed trait never becomes hidden again.
func (c *Character) Reveal(t Trait) bool {
	if !t.Valid() || c.Revealed[t] {
		return false
	}
	if c.Revealed == nil {
		c.Revealed = make(map[Trait]bool, len(AllTraits))
	}
	c.Revealed[t] = true
	return true
}

func (c *Character) IsRevealed(t Trait) bool {
	return c.Revealed[t]
}

func (c *Character) Unrevealed() []Trait {
	hidden := make([]Trait, 0, len(AllTraits))
	for _, t := range AllTraits {
		if !c.Revealed[t] {
			hidden = append(hidden, t)
		}
	}
	return hidden
}

func (c *Character) Value(t Trait) string {
	switch t {
	case TraitProfession:
		return c.Profession
	case TraitBiology:
		return fmt.Sprintf("%s %d лет", c.Gender, c.Age)
	case TraitHealth:
		return c.BodyType + ", " + c.Disease
	case TraitPhobia:
		return c.Phobia
	case TraitHobby:
		return c.Hobby
	case TraitFact:
		return c.Fact
	case TraitBaggage:
		return c.Baggage
	}
	return ""
}

func (c *Character) clone() *Character {
	if c == nil {
		return nil
	}
	copied := *c
	copied.Revealed = make(map[Trait]bool, len(c.Revealed))
	for t, v := range c.Revealed {
		if v {
			copied.Revealed[t] = true
		}
	}
	return &copied
}

// GenerateCharacter draws a fresh character. Biology and health are drawn by
// weight, everything else uniformly; a special card is attached with the
// given probability.
func GenerateCharacter(source CardSource, rng Rand, specialChance float64) *Character {
	c := &Character{
		Profession: pickUniform(source.Pool(cards.Professions), rng),
		Gender:     weightedChoice(source.Pool(cards.Biology), rng),
		Age:        minAge + rng.IntN(maxAge-minAge+1),
		BodyType:   weightedChoice(source.Pool(cards.HealthBody), rng),
		Disease:    weightedChoice(source.Pool(cards.HealthDisease), rng),
		Phobia:     pickUniform(source.Pool(cards.Phobias), rng),
		Hobby:      pickUniform(source.Pool(cards.Hobbies), rng),
		Fact:       pickUniform(source.Pool(cards.Facts), rng),
		Baggage:    pickUniform(source.Pool(cards.Baggage), rng),
		Revealed:   make(map[Trait]bool, len(AllTraits)),
	}
	if specialChance > 0 && rng.Float64() < specialChance {
		c.Special = effectOrder[rng.IntN(len(effectOrder))]
	}
	return c
}

func pickUniform(entries []cards.Entry, rng Rand) string {
	if len(entries) == 0 {
		return unknownCard
	}
	return entries[rng.IntN(len(entries))].Text
}

func pickEntry(entries []cards.Entry, rng Rand) (cards.Entry, bool) {
	if len(entries) == 0 {
		return cards.Entry{}, false
	}
	return entries[rng.IntN(len(entries))], true
}

// weightedChoice draws r in [1,total] and walks the entries subtracting
// weights until r drops to zero or below.
func weightedChoice(entries []cards.Entry, rng Rand) string {
	total := 0
	for _, entry := range entries {
		total += max(entry.Weight, 0)
	}
	if total <= 0 {
		return pickUniform(entries, rng)
	}
	r := rng.IntN(total) + 1
	for _, entry := range entries {
		r -= max(entry.Weight, 0)
		if r <= 0 {
			return entry.Text
		}
	}
	return entries[len(entries)-1].Text
}

// pickOther draws a uniform entry whose text differs from current.
func pickOther(entries []cards.Entry, current string, rng Rand) (string, bool) {
	others := slices.DeleteFunc(slices.Clone(entries), func(entry cards.Entry) bool {
		return entry.Text == current
	})
	if len(others) == 0 {
		return "", false
	}
	return others[rng.IntN(len(others))].Text, true
}
