package telegram

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/pkg/telegram"
)

// SecretHeader carries the secret token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Handler answers bot updates delivered by the Telegram webhook.
type Handler struct {
	sender telegram.Sender
	secret string
	logger *zerolog.Logger
}

// NewHandler accepts a nil sender; updates are then acknowledged without a reply.
func NewHandler(sender telegram.Sender, secret string, logger *zerolog.Logger) *Handler {
	return &Handler{
		sender: sender,
		secret: secret,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/telegram/webhook", h.Webhook)
}

// Webhook always acknowledges a well-formed update with 200, even when the
// reply fails, so Telegram does not redeliver it.
func (h *Handler) Webhook(c *gin.Context) {
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(SecretHeader)), []byte(h.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false})
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}

	chatID, text, ok := telegram.Reply(update)
	if ok && h.sender != nil {
		if _, err := h.sender.SendMessage(c.Request.Context(), chatID, text); err != nil {
			h.logger.Error().Err(err).
				Int64("update_id", update.UpdateID).
				Str("chat_id", chatID).
				Msg("Failed to answer telegram update")
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
