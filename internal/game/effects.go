package game

import (
	"fmt"
	"strings"

	"bunker/internal/cards"
)

type EffectKind string

const (
	EffectSwapFacts          EffectKind = "swap_facts"
	EffectSwapProfessions    EffectKind = "swap_professions"
	EffectShuffleProfessions EffectKind = "shuffle_professions"
	EffectStealProfession    EffectKind = "steal_profession"
	EffectDoubleVote         EffectKind = "double_vote"
	EffectPigTransformation  EffectKind = "pig_transformation"
	EffectBlockVote          EffectKind = "block_vote"
	EffectRevealRandom       EffectKind = "reveal_random"
	EffectRevealAll          EffectKind = "reveal_all"
	EffectImmunity           EffectKind = "immunity"
	EffectVoteSteal          EffectKind = "vote_steal"
	EffectCardPeek           EffectKind = "card_peek"
	EffectChangeFact         EffectKind = "change_fact"
)

// Outcome is the result of playing a special card. Message goes to the actor
// only, Public to the whole chat. Targets is set when the card needs a target
// and none was given.
type Outcome struct {
	Success bool
	Message string
	Public  string
	Targets []int64
}

type effectEnv struct {
	game   *Game
	actor  *Player
	target *Player
	rng    Rand
	cards  CardSource
}

type effect struct {
	name        string
	description string
	// eligible filters targets for targeted cards; nil means the card is untargeted.
	eligible func(env *effectEnv, candidate *Player) bool
	apply    func(env *effectEnv) Outcome
}

var effectOrder = []EffectKind{
	EffectSwapFacts, EffectSwapProfessions, EffectShuffleProfessions, EffectStealProfession,
	EffectDoubleVote, EffectPigTransformation, EffectBlockVote, EffectRevealRandom,
	EffectRevealAll, EffectImmunity, EffectVoteSteal, EffectCardPeek, EffectChangeFact,
}

var effectRegistry = map[EffectKind]effect{
	EffectSwapFacts: {
		name:        "Обмен фактами",
		description: "Поменяйся карточками фактов с любым неизгнанным игроком с открытой картой факта",
		eligible:    revealedTrait(TraitFact),
		apply: func(env *effectEnv) Outcome {
			a, t := env.actor.Character, env.target.Character
			a.Fact, t.Fact = t.Fact, a.Fact
			return Outcome{
				Success: true,
				Message: "Факты обменены с " + env.target.DisplayName(),
				Public:  fmt.Sprintf("🔄 %s обменялся фактами с %s", env.actor.DisplayName(), env.target.DisplayName()),
			}
		},
	},
	EffectSwapProfessions: {
		name:        "Обмен профессиями",
		description: "Поменяйся карточками профессий с любым неизгнанным игроком с открытой картой профессии",
		eligible:    revealedTrait(TraitProfession),
		apply: func(env *effectEnv) Outcome {
			a, t := env.actor.Character, env.target.Character
			a.Profession, t.Profession = t.Profession, a.Profession
			return Outcome{
				Success: true,
				Message: "Профессии обменены с " + env.target.DisplayName(),
				Public:  fmt.Sprintf("🔄 %s обменялся профессиями с %s", env.actor.DisplayName(), env.target.DisplayName()),
			}
		},
	},
	EffectShuffleProfessions: {
		name:        "Перемешать профессии",
		description: "Собери все открытые карты профессий у неизгнанных игроков, перемешай и перераздай",
		apply: func(env *effectEnv) Outcome {
			var holders []*Player
			for _, p := range env.game.AlivePlayers() {
				if p.Character != nil && p.Character.IsRevealed(TraitProfession) {
					holders = append(holders, p)
				}
			}
			if len(holders) < 2 {
				return Outcome{Message: "Нужно хотя бы две открытые профессии"}
			}
			professions := make([]string, len(holders))
			names := make([]string, len(holders))
			for i, p := range holders {
				professions[i] = p.Character.Profession
				names[i] = p.DisplayName()
			}
			env.rng.Shuffle(len(professions), func(i, j int) {
				professions[i], professions[j] = professions[j], professions[i]
			})
			for i, p := range holders {
				p.Character.Profession = professions[i]
			}
			return Outcome{
				Success: true,
				Message: "Профессии перемешаны",
				Public:  fmt.Sprintf("🔀 %s перемешал профессии игроков: %s", env.actor.DisplayName(), strings.Join(names, ", ")),
			}
		},
	},
	EffectStealProfession: {
		name:        "Кража профессии",
		description: "Забери профессию любого игрока с открытой профессией, а ему достанется новая из колоды",
		eligible:    revealedTrait(TraitProfession),
		apply: func(env *effectEnv) Outcome {
			a, t := env.actor.Character, env.target.Character
			stolen := t.Profession
			replacement, ok := pickOther(env.cards.Pool(cards.Professions), stolen, env.rng)
			if !ok {
				replacement = a.Profession
			}
			a.Profession = stolen
			a.Reveal(TraitProfession)
			t.Profession = replacement
			return Outcome{
				Success: true,
				Message: "Профессия украдена у " + env.target.DisplayName(),
				Public:  fmt.Sprintf("💰 %s украл профессию у %s. Новая профессия %s: %s", env.actor.DisplayName(), env.target.DisplayName(), env.target.DisplayName(), replacement),
			}
		},
	},
	EffectDoubleVote: {
		name:        "Двойной голос",
		description: "Твой голос считается за два в ближайшем голосовании",
		apply: func(env *effectEnv) Outcome {
			if env.actor.DoubleVote {
				return Outcome{Message: "Двойной голос уже активен"}
			}
			env.actor.DoubleVote = true
			return Outcome{
				Success: true,
				Message: "Твой голос в ближайшем голосовании считается за два",
				Public:  fmt.Sprintf("🗳🗳 %s получил двойной голос", env.actor.DisplayName()),
			}
		},
	},
	EffectPigTransformation: {
		name:        "Превращение в свинью",
		description: "Ты становишься свиньёй до конца раунда. Тебя не могут изгнать, однако ты не можешь открывать карты до следующего раунда",
		apply: func(env *effectEnv) Outcome {
			env.actor.PigImmune = true
			env.actor.CannotReveal = true
			return Outcome{
				Success: true,
				Message: "Ты свинья до конца раунда: изгнать тебя нельзя, но и карты открывать тоже",
				Public:  fmt.Sprintf("🐷 %s превратился в свинью и получил иммунитет", env.actor.DisplayName()),
			}
		},
	},
	EffectBlockVote: {
		name:        "Блокировка голосования",
		description: "Выбери неизгнанного игрока, который не сможет голосовать в этом раунде",
		eligible: func(env *effectEnv, candidate *Player) bool {
			return !candidate.VoteBlocked
		},
		apply: func(env *effectEnv) Outcome {
			env.target.VoteBlocked = true
			return Outcome{
				Success: true,
				Message: env.target.DisplayName() + " не сможет голосовать в этом раунде",
				Public:  fmt.Sprintf("🚫 %s заблокировал голосование для %s", env.actor.DisplayName(), env.target.DisplayName()),
			}
		},
	},
	EffectRevealRandom: {
		name:        "Случайное раскрытие",
		description: "Раскрывает случайную нераскрытую карточку случайного игрока",
		apply: func(env *effectEnv) Outcome {
			var candidates []*Player
			for _, p := range env.game.AlivePlayers() {
				if p.ID != env.actor.ID && p.Character != nil && len(p.Character.Unrevealed()) > 0 {
					candidates = append(candidates, p)
				}
			}
			if len(candidates) == 0 {
				return Outcome{Message: "Ни у кого не осталось закрытых карточек"}
			}
			target := candidates[env.rng.IntN(len(candidates))]
			hidden := target.Character.Unrevealed()
			trait := hidden[env.rng.IntN(len(hidden))]
			target.RevealCard(trait)
			value := target.Character.Value(trait)
			return Outcome{
				Success: true,
				Message: fmt.Sprintf("Раскрыта карточка %s игрока %s: %s", trait.Label(), target.DisplayName(), value),
				Public:  fmt.Sprintf("🎴 %s принудительно раскрыл карточку %s игрока %s: %s", env.actor.DisplayName(), trait.Label(), target.DisplayName(), value),
			}
		},
	},
	EffectRevealAll: {
		name:        "Полное раскрытие",
		description: "Раскрой все свои карточки сразу",
		apply: func(env *effectEnv) Outcome {
			c := env.actor.Character
			hidden := c.Unrevealed()
			if len(hidden) == 0 {
				return Outcome{Message: "Все твои карточки уже раскрыты"}
			}
			lines := make([]string, 0, len(AllTraits))
			for _, t := range hidden {
				c.Reveal(t)
			}
			for _, t := range AllTraits {
				lines = append(lines, t.Label()+": "+c.Value(t))
			}
			return Outcome{
				Success: true,
				Message: "Все карточки раскрыты",
				Public:  fmt.Sprintf("💥 %s раскрыл все свои карточки!\n%s", env.actor.DisplayName(), strings.Join(lines, "\n")),
			}
		},
	},
	EffectImmunity: {
		name:        "Иммунитет",
		description: "Защищает от исключения в ближайшем голосовании",
		apply: func(env *effectEnv) Outcome {
			if env.actor.Immune {
				return Outcome{Message: "Иммунитет уже активен"}
			}
			env.actor.Immune = true
			return Outcome{
				Success: true,
				Message: "Иммунитет защитит тебя от одного исключения",
				Public:  fmt.Sprintf("🛡 %s использовал карточку иммунитета", env.actor.DisplayName()),
			}
		},
	},
	EffectVoteSteal: {
		name:        "Кража голоса",
		description: "Забери голос любого игрока: он не голосует в ближайшем голосовании, а твой голос считается за два",
		eligible: func(env *effectEnv, candidate *Player) bool {
			return !candidate.VoteBlocked
		},
		apply: func(env *effectEnv) Outcome {
			env.target.VoteBlocked = true
			env.actor.DoubleVote = true
			return Outcome{
				Success: true,
				Message: "Голос " + env.target.DisplayName() + " теперь твой",
				Public:  fmt.Sprintf("🗳 %s украл голос игрока %s", env.actor.DisplayName(), env.target.DisplayName()),
			}
		},
	},
	EffectCardPeek: {
		name:        "Подглядывание",
		description: "Узнай одну нераскрытую карточку любого игрока (увидишь только ты)",
		eligible: func(env *effectEnv, candidate *Player) bool {
			return candidate.Character != nil && len(candidate.Character.Unrevealed()) > 0
		},
		apply: func(env *effectEnv) Outcome {
			hidden := env.target.Character.Unrevealed()
			trait := hidden[env.rng.IntN(len(hidden))]
			return Outcome{
				Success: true,
				Message: fmt.Sprintf("Скрытая карточка %s: %s - %s", env.target.DisplayName(), trait.Label(), env.target.Character.Value(trait)),
				Public:  fmt.Sprintf("🔍 %s подглядел карточку игрока %s", env.actor.DisplayName(), env.target.DisplayName()),
			}
		},
	},
	EffectChangeFact: {
		name:        "Смена факта",
		description: "Смени свой факт на другой из колоды",
		apply: func(env *effectEnv) Outcome {
			fact, ok := pickOther(env.cards.Pool(cards.Facts), env.actor.Character.Fact, env.rng)
			if !ok {
				return Outcome{Message: "В колоде нет других фактов"}
			}
			env.actor.Character.Fact = fact
			return Outcome{
				Success: true,
				Message: "Твой новый факт: " + fact,
				Public:  fmt.Sprintf("🔄 %s изменил свой факт", env.actor.DisplayName()),
			}
		},
	},
}

func revealedTrait(t Trait) func(env *effectEnv, candidate *Player) bool {
	return func(env *effectEnv, candidate *Player) bool {
		return candidate.Character != nil && candidate.Character.IsRevealed(t)
	}
}

// EffectInfo returns the display name and description of a special card.
func EffectInfo(kind EffectKind) (name, description string, ok bool) {
	e, ok := effectRegistry[kind]
	if !ok {
		return "", "", false
	}
	return e.name, e.description, true
}

func (e effect) targeted() bool {
	return e.eligible != nil
}

// targets lists alive players other than the actor that the card can hit.
func (e effect) targets(env *effectEnv) []int64 {
	var ids []int64
	for _, p := range env.game.AlivePlayers() {
		if p.ID == env.actor.ID {
			continue
		}
		if e.eligible(env, p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// play runs the card. Targeted cards without a target return the candidate
// list; a target outside it is refused without side effects.
func (e effect) play(env *effectEnv) Outcome {
	if !e.targeted() {
		return e.apply(env)
	}
	candidates := e.targets(env)
	if len(candidates) == 0 {
		return Outcome{Message: "Нет подходящих игроков для этой карты"}
	}
	if env.target == nil {
		return Outcome{Message: "Выбери цель", Targets: candidates}
	}
	if !containsID(candidates, env.target.ID) {
		return Outcome{Message: env.target.DisplayName() + " не подходит для этой карты", Targets: candidates}
	}
	return e.apply(env)
}
