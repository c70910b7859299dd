package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rescuenet/rescuenet-api/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Token: "TOKEN", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	sent, err := c.SendMessage(context.Background(), "12345", "<b>hi</b>")
	require.NoError(t, err)
	assert.Equal(t, int64(42), sent.MessageID)
	assert.Equal(t, "12345", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Token: "TOKEN", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.SendMessage(context.Background(), "1", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Description, "chat not found")
}

func TestClientRequiresToken(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFormatReportStatus(t *testing.T) {
	text := Format(TypeReportStatus, map[string]interface{}{
		"report_id":   7,
		"report_type": "Flood",
		"old_status":  "unresolved",
		"new_status":  "in-progress",
		"description": "Water <1m> rising",
	}, time.Now())

	assert.Contains(t, text, "<b>🚨 Report Status Update</b>")
	assert.Contains(t, text, "<code>7</code>")
	assert.Contains(t, text, "<b>📍 Location:</b> Not specified")
	assert.Contains(t, text, "<b>⚡ Priority:</b> Normal")
	assert.Contains(t, text, "unresolved ➜ <code>in-progress</code>")
	assert.Contains(t, text, "Water &lt;1m&gt; rising")
	assert.NotContains(t, text, "Category")
}

func TestFormatAidStatus(t *testing.T) {
	text := Format(TypeAidStatus, map[string]interface{}{
		"request_id": 3,
		"aid_type":   "Food",
		"old_status": "Submitted",
		"new_status": "Completed",
	}, time.Now())

	assert.Contains(t, text, "<b>🤝 Aid Request Update</b>")
	assert.Contains(t, text, "Submitted ➜ <code>Completed</code>")
	assert.Contains(t, text, "<b>👤 Requested By:</b> Unknown")
	assert.NotContains(t, text, "Amount")
}

func TestFormatWeatherAlert(t *testing.T) {
	text := Format(TypeWeatherAlert, map[string]interface{}{
		"alert_type":  "Heavy Rain",
		"temperature": 31.5,
		"humidity":    90,
		"start_time":  "14:00",
	}, time.Now())

	assert.Contains(t, text, "<code>Heavy Rain</code>")
	assert.Contains(t, text, "<b>📍 Location:</b> Your area")
	assert.Contains(t, text, "Temperature: 31.5°C")
	assert.Contains(t, text, "Humidity: 90%")
	assert.Contains(t, text, "Start: 14:00")
	assert.NotContains(t, text, "End:")
}

func TestFormatGenericDefaults(t *testing.T) {
	now := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)
	text := Format("general", nil, now)

	assert.Contains(t, text, "<b>RescueNet Alert</b>")
	assert.Contains(t, text, "New notification")
	assert.Contains(t, text, "04 Mar 2025 09:30")
}

func TestReply(t *testing.T) {
	_, text, ok := Reply(Update{Message: &UpdateMessage{Text: "/start", Chat: Chat{ID: 5, Type: "private"}}})
	require.True(t, ok)
	assert.Contains(t, text, "Welcome to <b>RescueNet</b>")

	chatID, text, ok := Reply(Update{Message: &UpdateMessage{Text: "/chatid", Chat: Chat{ID: -100, Type: "supergroup", Title: "Sri Aman"}}})
	require.True(t, ok)
	assert.Equal(t, "-100", chatID)
	assert.Contains(t, text, "<code>-100</code>")
	assert.Contains(t, text, "This is a group chat!")

	_, text, ok = Reply(Update{Message: &UpdateMessage{Text: " 123456 ", Chat: Chat{ID: 5}}})
	require.True(t, ok)
	assert.Contains(t, text, "Code received!")

	_, _, ok = Reply(Update{Message: &UpdateMessage{Text: "hello", Chat: Chat{ID: 5}}})
	assert.False(t, ok)

	_, _, ok = Reply(Update{CallbackQuery: &CallbackQuery{Data: "x"}})
	assert.False(t, ok)
}

type fakeSender struct {
	chatID string
	text   string
	err    error
	calls  int
}

func (f *fakeSender) SendMessage(_ context.Context, chatID, text string) (*SentMessage, error) {
	f.calls++
	f.chatID, f.text = chatID, text
	if f.err != nil {
		return nil, f.err
	}
	return &SentMessage{MessageID: 1}, nil
}

type fakeRecipients map[int64]*Recipient

func (f fakeRecipients) Recipient(_ context.Context, userID int64) (*Recipient, error) {
	r, ok := f[userID]
	if !ok {
		return nil, ErrRecipientNotFound
	}
	return r, nil
}

func notificationMessage(t *testing.T, e NotificationEvent) messaging.Message {
	t.Helper()
	payload, err := json.Marshal(e)
	require.NoError(t, err)
	return messaging.Message{ID: "evt", Type: EventNotificationCreated, Payload: payload}
}

func TestRelayDeliversToLinkedUser(t *testing.T) {
	sender := &fakeSender{}
	relay := NewRelay(sender, fakeRecipients{1: {ChatID: "999", Linked: true}}, nil, nil)

	err := relay.Handle(context.Background(), notificationMessage(t, NotificationEvent{
		UserID: 1, Type: TypeAidStatus,
		Data: map[string]interface{}{"request_id": 3, "old_status": "Submitted", "new_status": "In Process"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "999", sender.chatID)
	assert.Contains(t, sender.text, "Submitted ➜ <code>In Process</code>")
}

func TestRelaySkipsUnlinkedAndUnknownUsers(t *testing.T) {
	sender := &fakeSender{}
	relay := NewRelay(sender, fakeRecipients{
		1: {ChatID: "", Linked: true},
		2: {ChatID: "55", Linked: false},
	}, nil, nil)

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, relay.Handle(context.Background(), notificationMessage(t, NotificationEvent{UserID: id, Type: "general"})))
	}
	assert.Zero(t, sender.calls)
}

func TestRelayIgnoresOtherEventTypes(t *testing.T) {
	sender := &fakeSender{}
	relay := NewRelay(sender, fakeRecipients{}, nil, nil)
	require.NoError(t, relay.Handle(context.Background(), messaging.Message{Type: "program.created"}))
	assert.Zero(t, sender.calls)
}

func TestRelaySurfacesSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	relay := NewRelay(sender, fakeRecipients{1: {ChatID: "9", Linked: true}}, nil, nil)

	err := relay.Handle(context.Background(), notificationMessage(t, NotificationEvent{UserID: 1, Type: "general", Title: "Hi"}))
	assert.ErrorContains(t, err, "network down")
	assert.Contains(t, sender.text, "<b>Hi</b>")
}
