package handlers

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/response"
	"github.com/splittally/tally-backend/pkg/logger"
)

type webhookHandlers struct {
	ResponseHandler response.ResponseHandler
	Events          EventRouter
}

func NewWebhookHandlers(deps *Deps) *webhookHandlers {
	return &webhookHandlers{
		ResponseHandler: deps.ResponseHandler,
		Events:          deps.Events,
	}
}

// Health answers uptime probes.
func (h *webhookHandlers) Health(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Receive takes one Telegram update. Anything short of an auth failure is
// acknowledged with 200, including undecodable bodies and processing errors:
// Telegram redelivers on any other status, and a redelivered entry message
// would commit twice.
func (h *webhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn("ignoring undecodable update body", "error", err)
		h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
		return
	}

	switch {
	case update.Message != nil:
		ev, ok := messageEvent(update.Message)
		if !ok {
			log.Debug("ignoring non-text message", "update_id", update.UpdateID)
			break
		}
		if err := h.Events.HandleMessage(r.Context(), ev); err != nil {
			log.Error("message handling failed", "error", err, "chat_id", ev.ChatID)
		}

	case update.CallbackQuery != nil:
		ev, ok := callbackEvent(update.CallbackQuery)
		if !ok {
			log.Debug("ignoring detached callback", "update_id", update.UpdateID)
			break
		}
		if err := h.Events.HandleCallback(r.Context(), ev); err != nil {
			log.Error("callback handling failed", "error", err, "chat_id", ev.ChatID)
		}

	default:
		log.Debug("ignoring unsupported update", "update_id", update.UpdateID)
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func messageEvent(msg *tgbotapi.Message) (dto.MessageEvent, bool) {
	if msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return dto.MessageEvent{}, false
	}
	ev := dto.MessageEvent{
		ChatID:    msg.Chat.ID,
		ChatType:  msg.Chat.Type,
		UserID:    msg.From.ID,
		FirstName: msg.From.FirstName,
		Text:      msg.Text,
	}
	if msg.ReplyToMessage != nil {
		ev.ReplyToText = msg.ReplyToMessage.Text
	}
	return ev, true
}

func callbackEvent(cq *tgbotapi.CallbackQuery) (dto.CallbackEvent, bool) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil || cq.Data == "" {
		return dto.CallbackEvent{}, false
	}
	return dto.CallbackEvent{
		ChatID:    cq.Message.Chat.ID,
		UserID:    cq.From.ID,
		FirstName: cq.From.FirstName,
		Data:      cq.Data,
	}, true
}
