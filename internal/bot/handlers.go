package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/models"
	"github.com/linkmaxxer/gatekeeper/internal/telegram"
)

const (
	welcomeText        = "🚀 Welcome!\n\nJoin the Entry channel first, then tap I've Joined ✅."
	deniedText         = "❌ You haven't joined the Entry channel yet.\n\nJoin it and try again."
	lookupFailedText   = "⚠️ Something went wrong while checking your membership. Please try again in a moment."
	issuanceFailedText = "⚠️ I couldn't create an invite link. Ask an admin to grant the bot \"Invite Users via Link\" in the main channel."
	grantedText        = "✅ Thanks for verification! Use the button below to join the main channel:"
)

// Messenger is the notification surface the handlers render outcomes to.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
}

// Verifier runs the membership-verification workflow for one user.
type Verifier interface {
	Verify(ctx context.Context, user models.User) models.VerificationOutcome
}

// Handlers holds the two interaction handlers the dispatcher routes to.
type Handlers struct {
	messenger       Messenger
	verifier        Verifier
	entryChannelURL string
	timeout         time.Duration
	logger          zerolog.Logger
}

func NewHandlers(messenger Messenger, verifier Verifier, entryChannelURL string, timeout time.Duration, logger zerolog.Logger) *Handlers {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handlers{
		messenger:       messenger,
		verifier:        verifier,
		entryChannelURL: entryChannelURL,
		timeout:         timeout,
		logger:          logger.With().Str("component", "bot_handlers").Logger(),
	}
}

// Welcome sends the entry-channel link and the confirm-membership control.
// Pure presentation; delivery failure is logged, not retried.
func (h *Handlers) Welcome(ctx context.Context, evt models.Event) {
	keyboard := &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "Open Entry Channel", URL: h.entryChannelURL}},
		{{Text: "I've Joined ✅", CallbackData: telegram.CallbackVerify}},
	}}

	sendCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.messenger.SendMessage(sendCtx, evt.ChatID, welcomeText, keyboard); err != nil {
		h.logger.Warn().Err(err).Int64("user_id", evt.User.ID).Msg("failed to send welcome message")
	}
}

// Confirm acknowledges the tap, runs verification, and renders the outcome
// onto the originating message. Every outcome maps to exactly one
// user-facing notification.
func (h *Handlers) Confirm(ctx context.Context, evt models.Event) {
	if evt.CallbackQueryID != "" {
		ackCtx, cancel := context.WithTimeout(ctx, h.timeout)
		if err := h.messenger.AnswerCallbackQuery(ackCtx, evt.CallbackQueryID); err != nil {
			h.logger.Debug().Err(err).Int64("user_id", evt.User.ID).Msg("failed to answer callback query")
		}
		cancel()
	}

	outcome := h.verifier.Verify(ctx, evt.User)

	var (
		text     string
		keyboard *telegram.InlineKeyboardMarkup
	)
	switch outcome.Kind {
	case models.OutcomeGranted:
		text = grantedText
		keyboard = &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "Join ✅", URL: outcome.Invite.Link}},
		}}
	case models.OutcomeDenied:
		text = deniedText
	case models.OutcomeFailed:
		if outcome.Err == models.ErrorIssuance {
			text = issuanceFailedText
		} else {
			text = lookupFailedText
		}
	default:
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	var err error
	if evt.MessageID != 0 {
		err = h.messenger.EditMessageText(sendCtx, evt.ChatID, evt.MessageID, text, keyboard)
	} else {
		err = h.messenger.SendMessage(sendCtx, evt.ChatID, text, keyboard)
	}
	if err != nil {
		h.logger.Warn().Err(err).Int64("user_id", evt.User.ID).Str("outcome", string(outcome.Kind)).Msg("failed to deliver outcome message")
	}
}
