package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/notification"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	notifications := r.Group("/notifications", g.Authenticated)
	{
		notifications.GET("", h.List)
		notifications.PUT("/:id/read", h.MarkRead)
	}
}

// List returns the caller's notifications, newest first. limit is clamped
// by the service.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListForUser(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if list == nil {
		list = []*model.Notification{}
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", "Notification")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Notification marked as read", nil)
}
