package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/models"
	"github.com/linkmaxxer/gatekeeper/internal/telegram"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Enqueuer accepts inbound events for asynchronous dispatch.
type Enqueuer interface {
	Enqueue(evt models.Event) bool
}

// WebhookHandler ingests Bot API updates and hands them to the dispatch
// queue. It always answers 200 for accepted requests so the Bot API does
// not retry updates we chose to drop.
type WebhookHandler struct {
	queue  Enqueuer
	secret string
	logger zerolog.Logger
}

func NewWebhookHandler(queue Enqueuer, secret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		queue:  queue,
		secret: secret,
		logger: logger.With().Str("component", "webhook").Logger(),
	}
}

// Receive handles one POSTed update.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretTokenHeader) != h.secret {
		http.Error(w, "invalid secret token", http.StatusUnauthorized)
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn().Err(err).Msg("failed to decode update payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	evt, ok := eventFromUpdate(update)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	h.queue.Enqueue(evt)
	w.WriteHeader(http.StatusOK)
}

// eventFromUpdate maps an update to a dispatchable event. Updates that are
// neither a /start command nor a confirm tap are dropped.
func eventFromUpdate(update telegram.Update) (models.Event, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil && strings.HasPrefix(update.Message.Text, "/start"):
		msg := update.Message
		return models.Event{
			Kind:   models.EventBegin,
			User:   models.User{ID: msg.From.ID, Username: msg.From.Username},
			ChatID: msg.Chat.ID,
		}, true
	case update.CallbackQuery != nil && update.CallbackQuery.Data == telegram.CallbackVerify:
		cq := update.CallbackQuery
		evt := models.Event{
			Kind:            models.EventConfirm,
			User:            models.User{ID: cq.From.ID, Username: cq.From.Username},
			CallbackQueryID: cq.ID,
		}
		if cq.Message != nil {
			evt.ChatID = cq.Message.Chat.ID
			evt.MessageID = cq.Message.MessageID
		}
		return evt, true
	default:
		return models.Event{}, false
	}
}
