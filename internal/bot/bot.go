// Package bot serves the query responder over Telegram long polling.
// Chats link themselves to a registered phone with /link and then talk to
// the same rule engine the web chat uses.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finpal/internal/chat"
	"finpal/internal/core"
	"finpal/internal/store"
)

const helpText = "Hi! I'm finpal.\n\n" +
	"/link <phone> — connect this chat to your registered phone\n" +
	"Then just ask, e.g. \"what's my bank balance\" or \"net worth\"."

type Handler struct {
	api   *tgbotapi.BotAPI
	users store.UserStore
	chat  *chat.Service

	mu    sync.Mutex
	links map[int64]string // chat ID -> phone
}

func NewHandler(api *tgbotapi.BotAPI, users store.UserStore, chatSvc *chat.Service) *Handler {
	return &Handler{
		api:   api,
		users: users,
		chat:  chatSvc,
		links: make(map[int64]string),
	}
}

// Run polls for updates until ctx is done.
func (h *Handler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.api.GetUpdatesChan(u)

	slog.Info("Telegram bot started", "username", h.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return fmt.Errorf("updates channel closed")
			}
			h.handleUpdate(ctx, upd)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if !msg.Chat.IsPrivate() {
		return
	}

	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		h.reply(msg.Chat.ID, helpText)
	case strings.HasPrefix(text, "/link"):
		h.handleLink(ctx, msg.Chat.ID, text)
	default:
		phone, ok := h.linkedPhone(msg.Chat.ID)
		if !ok {
			h.reply(msg.Chat.ID, "This chat isn't linked yet. Use /link <phone> first.")
			return
		}
		reply := h.chat.Respond(ctx, phone, text)
		h.reply(msg.Chat.ID, reply)
	}
}

func (h *Handler) handleLink(ctx context.Context, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		h.reply(chatID, "Usage: /link <phone>")
		return
	}
	phone := parts[1]

	if err := core.ValidatePhone(phone); err != nil {
		h.reply(chatID, "That doesn't look like a phone number.")
		return
	}

	user, found, err := h.users.GetUser(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "User lookup failed", "phone", phone, "error", err)
		h.reply(chatID, "Something went wrong, try again later.")
		return
	}
	if !found {
		h.reply(chatID, "That phone isn't registered. Sign up on the web first.")
		return
	}

	h.mu.Lock()
	h.links[chatID] = phone
	h.mu.Unlock()

	h.reply(chatID, fmt.Sprintf("Linked! Hello %s, ask me about your finances.", user.Name))
}

func (h *Handler) linkedPhone(chatID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	phone, ok := h.links[chatID]
	return phone, ok
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("Failed to send Telegram message", "chat_id", chatID, "error", err)
	}
}
