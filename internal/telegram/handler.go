package telegram

import (
	"context"
	"errors"
	"log"
	"sync"

	"bunker/internal/cards"
	"bunker/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CardStore is the card catalog as the operator commands see it.
type CardStore interface {
	Add(ctx context.Context, category string, entry cards.Entry) error
	Remove(ctx context.Context, category, text string) error
	Texts(category string) []string
	Counts() map[string]int
}

// Handler routes Telegram updates to the game engine.
type Handler struct {
	api         botAPI
	engine      *game.Engine
	catalog     CardStore
	allowedChat int64
}

func NewHandler(api botAPI, engine *game.Engine, catalog CardStore, allowedChat int64) *Handler {
	return &Handler{api: api, engine: engine, catalog: catalog, allowedChat: allowedChat}
}

// Run consumes updates until the context is cancelled or the channel closes.
// Each update is handled on its own goroutine; the engine serializes work per chat.
func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.HandleUpdate(ctx, update)
			}()
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("update handler panic update_id=%d panic=%v", update.UpdateID, r)
		}
	}()
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		h.handleCommand(ctx, update.Message)
	}
}

func (h *Handler) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil {
		return
	}
	action, err := game.ParseAction(query.Data)
	if err != nil {
		log.Printf("unreadable callback user_id=%d data=%q error=%v", query.From.ID, query.Data, err)
		h.answer(query.ID, "Кнопка устарела", true)
		return
	}
	if !h.chatAllowed(action.ChatID) {
		h.answer(query.ID, "❌ Игра недоступна.", true)
		return
	}

	user := userOf(query.From)
	reply := "✅"
	switch action.Kind {
	case game.ActionJoin:
		err = h.engine.Join(ctx, action.ChatID, user)
		reply = "Ты в игре!"
	case game.ActionBegin:
		err = h.engine.Start(ctx, action.ChatID, user.ID)
	case game.ActionReveal:
		err = h.engine.Reveal(ctx, action.ChatID, user.ID, action.Trait)
	case game.ActionPass:
		err = h.engine.Pass(ctx, action.ChatID, user.ID)
	case game.ActionVote:
		err = h.engine.Vote(ctx, action.ChatID, user.ID, action.Target)
		reply = "Голос принят"
	case game.ActionAbstain:
		err = h.engine.Abstain(ctx, action.ChatID, user.ID)
		reply = "Ты воздержался"
	case game.ActionSpecial:
		reply, err = h.playSpecial(ctx, action, user.ID)
	}
	if err != nil {
		h.answer(query.ID, rejectionText(err), true)
		if !game.IsRejected(err) {
			log.Printf("callback failed chat_id=%d user_id=%d action=%s error=%v", action.ChatID, user.ID, action.Kind, err)
		}
		return
	}
	h.answer(query.ID, reply, false)

	switch action.Kind {
	case game.ActionVote, game.ActionAbstain:
		h.clearKeyboard(query.Message)
	case game.ActionSpecial:
		if action.Target != 0 {
			h.clearKeyboard(query.Message)
		}
	}
}

// playSpecial plays a special card. A targeted card without a target sends
// the player a keyboard of eligible targets instead.
func (h *Handler) playSpecial(ctx context.Context, action game.Action, userID int64) (string, error) {
	outcome, err := h.engine.UseSpecial(ctx, action.ChatID, userID, action.Target)
	if err != nil {
		return "", err
	}
	if len(outcome.Targets) > 0 {
		msg := tgbotapi.NewMessage(userID, "🃏 "+outcome.Message)
		msg.ReplyMarkup = inlineKeyboard(h.engine.SpecialTargetKeyboard(action.ChatID, outcome.Targets))
		h.send(msg)
	}
	return outcome.Message, nil
}

func (h *Handler) answer(queryID, text string, alert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = alert
	if _, err := h.api.Request(callback); err != nil {
		log.Printf("answer callback failed query_id=%s error=%v", queryID, err)
	}
}

func (h *Handler) clearKeyboard(msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(msg.Chat.ID, msg.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.api.Request(edit); err != nil && !notModified(err) {
		log.Printf("clear keyboard failed chat_id=%d message_id=%d error=%v", msg.Chat.ID, msg.MessageID, err)
	}
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	h.send(msg)
}

func (h *Handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("send reply failed chat_id=%d error=%v", msg.ChatID, err)
	}
}

// chatAllowed applies the ALLOWED_CHAT_ID restriction to group chats.
func (h *Handler) chatAllowed(chatID int64) bool {
	return h.allowedChat == 0 || chatID > 0 || chatID == h.allowedChat
}

func userOf(u *tgbotapi.User) game.User {
	return game.User{ID: u.ID, Username: u.UserName, FirstName: u.FirstName}
}

var rejectionTexts = map[error]string{
	game.ErrGameNotFound:     "❌ Нет активной игры в этом чате.",
	game.ErrGameExists:       "❌ В этом чате уже идёт игра.",
	game.ErrWrongPhase:       "❌ Сейчас это действие недоступно.",
	game.ErrNotParticipant:   "❌ Ты не участвуешь в этой игре.",
	game.ErrAlreadyJoined:    "Ты уже в игре.",
	game.ErrGameFull:         "❌ Все места заняты.",
	game.ErrBadRosterSize:    "❌ Неподходящее количество игроков для старта.",
	game.ErrNotAllowed:       "❌ Только создатель игры или администратор может это сделать.",
	game.ErrNotAlive:         "❌ Ты уже изгнан из бункера.",
	game.ErrNotYourTurn:      "⏳ Сейчас не твой ход.",
	game.ErrWrongTrait:       "❌ В первом раунде раскрывается только профессия.",
	game.ErrUnknownTrait:     "❌ Неизвестная карточка.",
	game.ErrAlreadyRevealed:  "Эта карточка уже раскрыта.",
	game.ErrRevealBlocked:    "🐷 Свиньи не раскрывают карты.",
	game.ErrAlreadyVoted:     "Ты уже проголосовал.",
	game.ErrVoteBlocked:      "🚫 Ты не можешь голосовать в этом раунде.",
	game.ErrSelfVote:         "❌ Нельзя голосовать за себя.",
	game.ErrUnknownTarget:    "❌ Такого игрока нет в игре.",
	game.ErrTargetEliminated: "❌ Этот игрок уже изгнан.",
	game.ErrNotCandidate:     "❌ В переголосовании можно выбрать только кандидатов.",
	game.ErrNoSpecial:        "❌ У тебя нет особой карты.",
	game.ErrSpecialUsed:      "❌ Особая карта уже использована.",
	cards.ErrUnknownCategory: "❌ Неизвестная категория.",
	cards.ErrDuplicateCard:   "❌ Такая карточка уже есть.",
	cards.ErrCardNotFound:    "❌ Карточка не найдена.",
	cards.ErrEmptyText:       "❌ Пустой текст карточки.",
	cards.ErrLastCard:        "❌ Нельзя удалить последнюю карточку категории.",
}

func rejectionText(err error) string {
	for target, text := range rejectionTexts {
		if errors.Is(err, target) {
			return text
		}
	}
	return "Произошла ошибка. Попробуйте позже."
}
