package telegram

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Update is the subset of a Bot API update the webhook reacts to.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *UpdateMessage `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type UpdateMessage struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

type CallbackQuery struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

var verificationCode = regexp.MustCompile(`^\d{6}$`)

// Reply returns the chat and text the bot answers an update with.
// ok is false when the update needs no answer.
func Reply(u Update) (chatID string, text string, ok bool) {
	if u.Message == nil || u.Message.Text == "" {
		return "", "", false
	}
	msg := u.Message
	chatID = strconv.FormatInt(msg.Chat.ID, 10)

	switch strings.TrimSpace(msg.Text) {
	case "/start":
		return chatID, welcomeText, true
	case "/chatid":
		return chatID, chatInfoText(msg.Chat), true
	}

	if verificationCode.MatchString(strings.TrimSpace(msg.Text)) {
		return chatID, "✅ <b>Code received!</b>\n\n" +
			"Complete the linking process in the <b>RescueNet app</b> to activate Telegram alerts.", true
	}
	return "", "", false
}

const welcomeText = "Welcome to <b>RescueNet</b>! 🚨\n\n" +
	"To receive emergency alerts via Telegram:\n\n" +
	"1️⃣ Open the <b>RescueNet app</b>\n" +
	"2️⃣ Go to <b>Notification Settings</b>\n" +
	"3️⃣ Tap <b>Connect Telegram</b>\n" +
	"4️⃣ Copy the verification code\n" +
	"5️⃣ Paste it here\n\n" +
	"You'll then receive instant alerts for emergency reports, aid requests, and more!"

func chatInfoText(chat Chat) string {
	name := chat.Title
	if name == "" {
		name = chat.Username
	}
	if name == "" {
		name = "Direct Message"
	}

	var b strings.Builder
	b.WriteString("<b>Chat Information:</b>\n\n")
	fmt.Fprintf(&b, "<b>Chat ID:</b> <code>%d</code>\n", chat.ID)
	fmt.Fprintf(&b, "<b>Chat Name:</b> %s\n", html.EscapeString(name))
	fmt.Fprintf(&b, "<b>Type:</b> %s\n\n", html.EscapeString(chat.Type))

	if chat.Type == "group" || chat.Type == "supergroup" {
		b.WriteString("✅ <b>This is a group chat!</b>\n")
		b.WriteString("You can use this Chat ID to send notifications to this entire group.\n\n")
		b.WriteString("<i>Share the Chat ID with your RescueNet admin to enable group notifications.</i>")
	} else {
		b.WriteString("This is a direct message chat.\n")
		b.WriteString("For group alerts, add this bot to a group and use /chatid there.")
	}
	return b.String()
}
