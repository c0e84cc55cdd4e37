package game

import (
	"context"
	"errors"
	"log"
)

type Button struct {
	Text string
	Data string
}

type Keyboard [][]Button

// Outgoing is one message to deliver. ChatID is the destination, which is a
// user id for private messages.
type Outgoing struct {
	ChatID   int64
	Text     string
	Image    string
	Keyboard Keyboard
	Pin      bool

	gameChat int64
	track    trackKind
}

type trackKind int

const (
	trackNone trackKind = iota
	trackStatus
	trackTurn
)

// Messenger delivers rendered messages to the chat platform.
type Messenger interface {
	Send(ctx context.Context, msg Outgoing) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, keyboard Keyboard) error
	Delete(ctx context.Context, chatID int64, messageID int) error
}

type discardMessenger struct{}

func (discardMessenger) Send(context.Context, Outgoing) (int, error) { return 0, nil }
func (discardMessenger) Edit(context.Context, int64, int, string, Keyboard) error {
	return nil
}
func (discardMessenger) Delete(context.Context, int64, int) error { return nil }

type editRequest struct {
	chatID    int64
	messageID int
	text      string
	keyboard  Keyboard
}

type deleteRequest struct {
	chatID    int64
	messageID int
}

type pendingEvent struct {
	eventType string
	payload   EventPayload
}

// outbox collects the side effects of one engine operation while the game
// lock is held. Messages are delivered after the lock is released.
type outbox struct {
	messages []Outgoing
	edits    []editRequest
	deletes  []deleteRequest
	events   []pendingEvent
	deleted  bool
}

func (o *outbox) send(msg Outgoing) {
	o.messages = append(o.messages, msg)
}

func (o *outbox) edit(chatID int64, messageID int, text string, keyboard Keyboard) {
	if messageID == 0 {
		return
	}
	o.edits = append(o.edits, editRequest{chatID: chatID, messageID: messageID, text: text, keyboard: keyboard})
}

func (o *outbox) remove(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	o.deletes = append(o.deletes, deleteRequest{chatID: chatID, messageID: messageID})
}

func (o *outbox) event(eventType string, payload EventPayload) {
	o.events = append(o.events, pendingEvent{eventType: eventType, payload: payload})
}

func (e *Engine) flush(ctx context.Context, out *outbox) {
	for _, msg := range out.messages {
		id, err := e.messenger.Send(ctx, msg)
		if err != nil {
			log.Printf("send message failed chat_id=%d error=%v", msg.ChatID, err)
			continue
		}
		if msg.track != trackNone && id != 0 {
			e.remember(ctx, msg.gameChat, msg.track, id)
		}
	}
	for _, req := range out.edits {
		err := e.messenger.Edit(ctx, req.chatID, req.messageID, req.text, req.keyboard)
		if err != nil && !errors.Is(err, ErrUnchanged) {
			log.Printf("edit message failed chat_id=%d message_id=%d error=%v", req.chatID, req.messageID, err)
		}
	}
	for _, req := range out.deletes {
		if err := e.messenger.Delete(ctx, req.chatID, req.messageID); err != nil {
			log.Printf("delete message failed chat_id=%d message_id=%d error=%v", req.chatID, req.messageID, err)
		}
	}
}

// remember stores the id of a message the engine edits or deletes later,
// so a restored game can still clean it up.
func (e *Engine) remember(ctx context.Context, chatID int64, kind trackKind, messageID int) {
	_ = e.store.Update(chatID, func(g *Game) error {
		switch kind {
		case trackStatus:
			g.StatusMessageID = messageID
		case trackTurn:
			g.TurnMessageID = messageID
		}
		if err := e.persister.Save(ctx, recordFromGame(g)); err != nil {
			log.Printf("persist message id failed chat_id=%d message_id=%d error=%v", chatID, messageID, err)
		}
		return nil
	})
}
