package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/models"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Client is a thin Bot API client covering the methods the gatekeeper
// needs: membership lookup, invite link creation, message delivery, and
// webhook registration. Callers bound each call with a context deadline.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

func NewClient(baseURL, token string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		token:      token,
		logger:     logger.With().Str("component", "telegram_client").Logger(),
	}
}

func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return errors.Wrapf(err, "encode %s params", method)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return errors.Wrapf(err, "decode %s response", method)
	}
	if !api.OK {
		return errors.Errorf("%s failed (%d): %s", method, api.ErrorCode, api.Description)
	}
	if out != nil {
		if err := json.Unmarshal(api.Result, out); err != nil {
			return errors.Wrapf(err, "decode %s result", method)
		}
	}
	return nil
}

// GetChatMember resolves the user's current membership status in a chat.
func (c *Client) GetChatMember(ctx context.Context, chatID, userID int64) (models.MembershipStatus, error) {
	var member chatMember
	err := c.call(ctx, "getChatMember", map[string]interface{}{
		"chat_id": chatID,
		"user_id": userID,
	}, &member)
	if err != nil {
		return models.StatusUnknown, err
	}
	if member.Status == "" {
		return models.StatusUnknown, nil
	}
	return models.MembershipStatus(member.Status), nil
}

// CreateChatInviteLink mints a fresh invite link for a chat, valid for
// memberLimit acceptances.
func (c *Client) CreateChatInviteLink(ctx context.Context, chatID int64, memberLimit int) (string, error) {
	var link chatInviteLink
	err := c.call(ctx, "createChatInviteLink", map[string]interface{}{
		"chat_id":      chatID,
		"member_limit": memberLimit,
	}, &link)
	if err != nil {
		return "", err
	}
	return link.InviteLink, nil
}

// SendMessage delivers a message, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error {
	params := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		params["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", params, nil)
}

// EditMessageText replaces the text (and keyboard) of a previously sent message.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *InlineKeyboardMarkup) error {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if keyboard != nil {
		params["reply_markup"] = keyboard
	}
	return c.call(ctx, "editMessageText", params, nil)
}

// AnswerCallbackQuery acknowledges a button tap so the client stops showing
// the progress spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackQueryID,
	}, nil)
}

// SetWebhook registers the public URL the Bot API should deliver updates to.
func (c *Client) SetWebhook(ctx context.Context, url, secretToken string, dropPending bool) error {
	params := map[string]interface{}{
		"url":                  url,
		"allowed_updates":      []string{"message", "callback_query"},
		"drop_pending_updates": dropPending,
	}
	if secretToken != "" {
		params["secret_token"] = secretToken
	}
	return c.call(ctx, "setWebhook", params, nil)
}
