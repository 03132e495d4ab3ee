package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/linkmaxxer/gatekeeper/internal/models"
)

const testToken = "123:abc"

type recordedCall struct {
	path   string
	params map[string]interface{}
}

// newTestServer fakes the Bot API, replying with the given result payload.
func newTestServer(t *testing.T, result string, calls *[]recordedCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		*calls = append(*calls, recordedCall{path: r.URL.Path, params: params})

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":` + result + `}`))
	}))
}

func TestGetChatMember(t *testing.T) {
	var calls []recordedCall
	server := newTestServer(t, `{"status":"member"}`, &calls)
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	status, err := client.GetChatMember(context.Background(), -100, 42)

	require.NoError(t, err)
	require.Equal(t, models.StatusMember, status)

	require.Len(t, calls, 1)
	require.Equal(t, "/bot"+testToken+"/getChatMember", calls[0].path)
	require.EqualValues(t, -100, calls[0].params["chat_id"])
	require.EqualValues(t, 42, calls[0].params["user_id"])
}

func TestGetChatMemberAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: user not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	_, err := client.GetChatMember(context.Background(), -100, 42)

	require.Error(t, err)
	require.Contains(t, err.Error(), "getChatMember failed (400)")
}

func TestCreateChatInviteLink(t *testing.T) {
	var calls []recordedCall
	server := newTestServer(t, `{"invite_link":"https://t.me/+secret"}`, &calls)
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	link, err := client.CreateChatInviteLink(context.Background(), -200, 1)

	require.NoError(t, err)
	require.Equal(t, "https://t.me/+secret", link)

	require.Len(t, calls, 1)
	require.Equal(t, "/bot"+testToken+"/createChatInviteLink", calls[0].path)
	require.EqualValues(t, 1, calls[0].params["member_limit"])
}

func TestSendMessageIncludesKeyboard(t *testing.T) {
	var calls []recordedCall
	server := newTestServer(t, `{}`, &calls)
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	keyboard := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Join ✅", URL: "https://t.me/+secret"}},
	}}
	require.NoError(t, client.SendMessage(context.Background(), 42, "hello", keyboard))

	require.Len(t, calls, 1)
	require.Equal(t, "hello", calls[0].params["text"])
	require.Contains(t, calls[0].params, "reply_markup")
}

func TestSendMessageOmitsKeyboardWhenNil(t *testing.T) {
	var calls []recordedCall
	server := newTestServer(t, `{}`, &calls)
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	require.NoError(t, client.SendMessage(context.Background(), 42, "hello", nil))

	require.NotContains(t, calls[0].params, "reply_markup")
}

func TestSetWebhook(t *testing.T) {
	var calls []recordedCall
	server := newTestServer(t, `true`, &calls)
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	require.NoError(t, client.SetWebhook(context.Background(), "https://example.com/telegram", "shh", true))

	require.Len(t, calls, 1)
	params := calls[0].params
	require.Equal(t, "https://example.com/telegram", params["url"])
	require.Equal(t, "shh", params["secret_token"])
	require.Equal(t, true, params["drop_pending_updates"])
	require.ElementsMatch(t, []interface{}{"message", "callback_query"}, params["allowed_updates"])
}

func TestCallCancelledContext(t *testing.T) {
	server := newTestServer(t, `{}`, &[]recordedCall{})
	defer server.Close()

	client := NewClient(server.URL, testToken, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetChatMember(ctx, -100, 42)
	require.Error(t, err)
}
