package telegram

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"bunker/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// captionLimit is the longest caption Telegram accepts on a photo.
const captionLimit = 1024

// botAPI is the part of *tgbotapi.BotAPI the transport uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger delivers engine messages through the Bot API using HTML parse mode.
type Messenger struct {
	api       botAPI
	imagesDir string
}

func NewMessenger(api botAPI, imagesDir string) *Messenger {
	return &Messenger{api: api, imagesDir: imagesDir}
}

func (m *Messenger) Send(ctx context.Context, msg game.Outgoing) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var (
		sent tgbotapi.Message
		err  error
	)
	if path, ok := m.image(msg.Image); ok {
		sent, err = m.sendPhoto(msg, path)
	} else {
		sent, err = m.api.Send(textMessage(msg))
	}
	if err != nil {
		return 0, fmt.Errorf("send to %d: %w", msg.ChatID, err)
	}
	if msg.Pin {
		pin := tgbotapi.PinChatMessageConfig{
			ChatID:              msg.ChatID,
			MessageID:           sent.MessageID,
			DisableNotification: true,
		}
		if _, err := m.api.Request(pin); err != nil {
			log.Printf("pin message failed chat_id=%d message_id=%d error=%v", msg.ChatID, sent.MessageID, err)
		}
	}
	return sent.MessageID, nil
}

// sendPhoto sends the image with the text as caption. Text too long for a
// caption follows as its own message, which then carries the keyboard.
func (m *Messenger) sendPhoto(msg game.Outgoing, path string) (tgbotapi.Message, error) {
	photo := tgbotapi.NewPhoto(msg.ChatID, tgbotapi.FilePath(path))
	if utf8.RuneCountInString(msg.Text) > captionLimit {
		if _, err := m.api.Send(photo); err != nil {
			log.Printf("send image failed chat_id=%d image=%s error=%v", msg.ChatID, msg.Image, err)
		}
		return m.api.Send(textMessage(msg))
	}
	photo.Caption = msg.Text
	photo.ParseMode = tgbotapi.ModeHTML
	if len(msg.Keyboard) > 0 {
		photo.ReplyMarkup = inlineKeyboard(msg.Keyboard)
	}
	sent, err := m.api.Send(photo)
	if err != nil {
		log.Printf("send image failed chat_id=%d image=%s error=%v", msg.ChatID, msg.Image, err)
		return m.api.Send(textMessage(msg))
	}
	return sent, nil
}

func (m *Messenger) Edit(ctx context.Context, chatID int64, messageID int, text string, keyboard game.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	markup := inlineKeyboard(keyboard)
	edit.ReplyMarkup = &markup
	if _, err := m.api.Request(edit); err != nil {
		if notModified(err) {
			return game.ErrUnchanged
		}
		return fmt.Errorf("edit %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// image resolves an image key to a file under the images directory.
func (m *Messenger) image(key string) (string, bool) {
	if key == "" || m.imagesDir == "" {
		return "", false
	}
	for _, ext := range []string{".jpg", ".png"} {
		path := filepath.Join(m.imagesDir, key+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func textMessage(msg game.Outgoing) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML
	out.DisableWebPagePreview = true
	if len(msg.Keyboard) > 0 {
		out.ReplyMarkup = inlineKeyboard(msg.Keyboard)
	}
	return out
}

func inlineKeyboard(keyboard game.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func notModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
