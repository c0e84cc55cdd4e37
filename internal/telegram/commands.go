package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"bunker/internal/cards"
	"bunker/internal/game"

	"github.com/a-h/templ"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `🆘 <b>Команды</b>

/game - создать игру или присоединиться к ней
/join - присоединиться к игре
/begin - начать игру (создатель)
/leave - покинуть игру
/end - досрочно завершить игру (создатель)
/info - состояние игры
/players - список игроков
/me - мой персонаж (в личных сообщениях)
/help - эта справка

🎯 <b>Как играть</b>
1. Создайте игру командой /game в группе
2. Наберите нужное количество игроков и начните игру
3. Изучите своего персонажа
4. Раскрывайте карточки по очереди и обсуждайте
5. Голосуйте за исключение
6. Побеждают те, кто попадает в бункер!`

const adminHelpText = `👑 <b>Команды администратора</b>

/admin - активные игры и размер колод
/cards [категория] - карточки категории
/addcard категория текст [| вес] - добавить карточку
/removecard категория текст - удалить карточку
/stop - завершить игру в этом чате`

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	user := userOf(msg.From)
	group := msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()

	if group && !h.chatAllowed(chatID) {
		h.reply(chatID, "❌ Бот не работает в этом чате.")
		if _, err := h.api.Request(tgbotapi.LeaveChatConfig{ChatID: chatID}); err != nil {
			log.Printf("leave chat failed chat_id=%d error=%v", chatID, err)
		}
		return
	}

	var err error
	switch msg.Command() {
	case "start", "help":
		h.reply(chatID, helpText)
	case "game":
		if !group {
			h.reply(chatID, "❌ Игра доступна только в группах!")
			return
		}
		err = h.engine.CreateGame(ctx, chatID, user)
		if errors.Is(err, game.ErrGameExists) {
			err = h.engine.Join(ctx, chatID, user)
		}
	case "join":
		err = h.engine.Join(ctx, chatID, user)
	case "leave":
		err = h.engine.Leave(ctx, chatID, user.ID)
	case "begin", "startgame":
		err = h.engine.Start(ctx, chatID, user.ID)
	case "end", "endgame", "stop":
		err = h.engine.End(ctx, chatID, user.ID)
	case "info":
		err = h.engine.ShowStatus(ctx, chatID)
	case "players":
		err = h.engine.ShowPlayers(ctx, chatID)
	case "me":
		err = h.showCharacter(ctx, chatID, user.ID, group)
	case "admin":
		h.operatorOnly(chatID, user.ID, func() { h.reply(chatID, h.adminSummary()) })
	case "cards":
		h.operatorOnly(chatID, user.ID, func() { h.reply(chatID, h.cardList(msg.CommandArguments())) })
	case "addcard":
		h.operatorOnly(chatID, user.ID, func() { h.reply(chatID, h.addCard(ctx, msg.CommandArguments())) })
	case "removecard":
		h.operatorOnly(chatID, user.ID, func() { h.reply(chatID, h.removeCard(ctx, msg.CommandArguments())) })
	default:
		return
	}
	if err != nil {
		h.reply(chatID, rejectionText(err))
		if !game.IsRejected(err) {
			log.Printf("command failed chat_id=%d user_id=%d command=%s error=%v", chatID, user.ID, msg.Command(), err)
		}
	}
}

// showCharacter sends the player's sheet privately. In a private chat it
// covers every game the player is in.
func (h *Handler) showCharacter(ctx context.Context, chatID, userID int64, group bool) error {
	if group {
		return h.engine.ShowCharacter(ctx, chatID, userID)
	}
	chats := h.engine.GamesOf(userID)
	if len(chats) == 0 {
		return game.ErrNotParticipant
	}
	for _, gameChat := range chats {
		if err := h.engine.ShowCharacter(ctx, gameChat, userID); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) operatorOnly(chatID, userID int64, fn func()) {
	if !h.engine.IsOperator(userID) {
		h.reply(chatID, "❌ У вас нет прав администратора.")
		return
	}
	fn()
}

func (h *Handler) adminSummary() string {
	var b strings.Builder
	b.WriteString(adminHelpText)
	b.WriteString("\n\n🎮 <b>Игры</b>\n")
	games := h.engine.List()
	if len(games) == 0 {
		b.WriteString("нет активных игр\n")
	}
	for _, g := range games {
		fmt.Fprintf(&b, "• %d: %s, живых %d из %d\n", g.ChatID, templ.EscapeString(g.Phase.Title()), g.Alive, g.Players)
	}
	b.WriteString("\n🃏 <b>Колоды</b>\n")
	counts := h.catalog.Counts()
	for _, category := range cards.Categories() {
		fmt.Fprintf(&b, "• %s: %d\n", category, counts[category])
	}
	return b.String()
}

func (h *Handler) cardList(args string) string {
	category := strings.TrimSpace(args)
	if category == "" {
		return h.adminSummary()
	}
	if !cards.IsCategory(category) {
		return rejectionText(cards.ErrUnknownCategory)
	}
	texts := h.catalog.Texts(category)
	var b strings.Builder
	fmt.Fprintf(&b, "🃏 <b>%s</b> (%d)\n", category, len(texts))
	for _, text := range texts {
		line := "• " + templ.EscapeString(text) + "\n"
		if b.Len()+len(line) > 3500 {
			b.WriteString("…")
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func (h *Handler) addCard(ctx context.Context, args string) string {
	category, entry, err := parseCardArgs(args)
	if err != nil {
		return "Используйте: /addcard категория текст [| вес]"
	}
	if err := h.catalog.Add(ctx, category, entry); err != nil {
		if !errors.Is(err, cards.ErrDuplicateCard) && !errors.Is(err, cards.ErrUnknownCategory) && !errors.Is(err, cards.ErrEmptyText) {
			log.Printf("add card failed category=%s error=%v", category, err)
		}
		return rejectionText(err)
	}
	return fmt.Sprintf("✅ Добавлено в %s: %s", category, templ.EscapeString(entry.Text))
}

func (h *Handler) removeCard(ctx context.Context, args string) string {
	category, entry, err := parseCardArgs(args)
	if err != nil {
		return "Используйте: /removecard категория текст"
	}
	if err := h.catalog.Remove(ctx, category, entry.Text); err != nil {
		if !errors.Is(err, cards.ErrCardNotFound) && !errors.Is(err, cards.ErrLastCard) && !errors.Is(err, cards.ErrUnknownCategory) {
			log.Printf("remove card failed category=%s error=%v", category, err)
		}
		return rejectionText(err)
	}
	return fmt.Sprintf("🗑 Удалено из %s: %s", category, templ.EscapeString(entry.Text))
}

// parseCardArgs reads "category text [| weight]".
func parseCardArgs(args string) (string, cards.Entry, error) {
	category, rest, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok {
		return "", cards.Entry{}, errors.New("missing card text")
	}
	entry := cards.Entry{Text: strings.TrimSpace(rest), Weight: 1}
	if text, weight, found := strings.Cut(entry.Text, "|"); found {
		n, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil || n <= 0 {
			return "", cards.Entry{}, fmt.Errorf("invalid weight %q", weight)
		}
		entry.Text = strings.TrimSpace(text)
		entry.Weight = n
	}
	if entry.Text == "" {
		return "", cards.Entry{}, errors.New("missing card text")
	}
	return strings.ToLower(category), entry, nil
}
