package emergency

import (
	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/emergency"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

type Handler struct {
	svc *emergency.Service
}

func NewHandler(svc *emergency.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	r.POST("/reports/emergency", g.ResidentOnly(h.Submit)...)
	r.GET("/reports/my", g.ResidentOnly(h.Mine)...)
	r.GET("/admin/emergency-reports", g.AdminOnly(h.List)...)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.CreateEmergencyReportRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	rep, err := h.svc.Submit(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondCreated(c, "Emergency report submitted successfully", rep)
}

func (h *Handler) Mine(c *gin.Context) {
	page, err := h.svc.ListMine(c.Request.Context(), middleware.UserID(c), handler.Params(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondPage(c, page)
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), handler.Params(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondPage(c, page)
}
