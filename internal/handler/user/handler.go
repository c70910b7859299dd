package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/user"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

// Handler serves the caller's own account.
type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	users := r.Group("/user", g.Authenticated)
	{
		users.GET("", h.Me)
		users.GET("/stats", h.Stats)
		users.PUT("/profile", h.UpdateProfile)
		users.PUT("/password", h.ChangePassword)
		users.PUT("/telegram", h.LinkTelegram)
	}
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, u)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Profile updated successfully", u)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *Handler) LinkTelegram(c *gin.Context) {
	var req model.LinkTelegramRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, err := h.svc.LinkTelegram(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Telegram settings updated", u)
}
