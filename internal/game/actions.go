package game

import (
	"fmt"
	"strconv"
	"strings"
)

type ActionKind string

const (
	ActionJoin    ActionKind = "join"
	ActionBegin   ActionKind = "begin"
	ActionReveal  ActionKind = "reveal"
	ActionPass    ActionKind = "pass"
	ActionVote    ActionKind = "vote"
	ActionAbstain ActionKind = "abstain"
	ActionSpecial ActionKind = "special"
)

// Action is the decoded payload of an inline button. Buttons may be pressed
// in private chats, so every action carries the game's chat id.
type Action struct {
	Kind   ActionKind
	ChatID int64
	Trait  Trait
	Target int64
}

func (a Action) Encode() string {
	switch {
	case a.Trait != "":
		return fmt.Sprintf("%s:%d:%s", a.Kind, a.ChatID, a.Trait)
	case a.Target != 0:
		return fmt.Sprintf("%s:%d:%d", a.Kind, a.ChatID, a.Target)
	default:
		return fmt.Sprintf("%s:%d", a.Kind, a.ChatID)
	}
}

func ParseAction(data string) (Action, error) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Action{}, fmt.Errorf("malformed action %q", data)
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Action{}, fmt.Errorf("malformed chat id in %q", data)
	}
	a := Action{Kind: ActionKind(parts[0]), ChatID: chatID}
	switch a.Kind {
	case ActionJoin, ActionBegin, ActionPass, ActionAbstain:
		if len(parts) != 2 {
			return Action{}, fmt.Errorf("unexpected argument in %q", data)
		}
	case ActionReveal:
		if len(parts) != 3 {
			return Action{}, fmt.Errorf("missing trait in %q", data)
		}
		trait, ok := ParseTrait(parts[2])
		if !ok {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownTrait, parts[2])
		}
		a.Trait = trait
	case ActionVote, ActionSpecial:
		if len(parts) == 3 {
			target, err := strconv.ParseInt(parts[2], 10, 64)
			if err != nil {
				return Action{}, fmt.Errorf("malformed target in %q", data)
			}
			a.Target = target
		} else if a.Kind == ActionVote {
			return Action{}, fmt.Errorf("missing target in %q", data)
		}
	default:
		return Action{}, fmt.Errorf("unknown action %q", parts[0])
	}
	return a, nil
}

func button(text string, a Action) Button {
	return Button{Text: text, Data: a.Encode()}
}

func lobbyKeyboard(chatID int64) Keyboard {
	return Keyboard{{
		button("✋ Присоединиться", Action{Kind: ActionJoin, ChatID: chatID}),
		button("▶️ Начать", Action{Kind: ActionBegin, ChatID: chatID}),
	}}
}

func revealKeyboard(chatID int64, p *Player, k int) Keyboard {
	var rows Keyboard
	for _, t := range p.AvailableTraits(k) {
		rows = append(rows, []Button{button(t.Label(), Action{Kind: ActionReveal, ChatID: chatID, Trait: t})})
	}
	passText := "⏭ Пропустить ход"
	if k == 1 {
		passText = "🙊 Не раскрывать профессию"
	}
	last := []Button{button(passText, Action{Kind: ActionPass, ChatID: chatID})}
	if p.Character != nil && p.Character.Special != "" && !p.SpecialUsed {
		last = append(last, button("🃏 Особая карта", Action{Kind: ActionSpecial, ChatID: chatID}))
	}
	return append(rows, last)
}

func votingKeyboard(chatID int64, voter *Player, candidates []*Player) Keyboard {
	var rows Keyboard
	for _, c := range candidates {
		if c.ID == voter.ID {
			continue
		}
		rows = append(rows, []Button{button(c.DisplayName(), Action{Kind: ActionVote, ChatID: chatID, Target: c.ID})})
	}
	return append(rows, []Button{button("🤐 Воздержаться", Action{Kind: ActionAbstain, ChatID: chatID})})
}

// SpecialTargetKeyboard offers the candidates returned in Outcome.Targets.
func (e *Engine) SpecialTargetKeyboard(chatID int64, targets []int64) Keyboard {
	var rows Keyboard
	_ = e.store.View(chatID, func(g *Game) {
		for _, id := range targets {
			if p, ok := g.Players[id]; ok {
				rows = append(rows, []Button{button(p.DisplayName(), Action{Kind: ActionSpecial, ChatID: chatID, Target: id})})
			}
		}
	})
	return rows
}
