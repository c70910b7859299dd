package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/report"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

const resource = "Report"

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	reports := r.Group("/reports")
	{
		reports.POST("", g.ResidentOnly(h.Create)...)
		reports.GET("/incidents/my", g.ResidentOnly(h.Mine)...)

		reports.GET("", g.AdminOnly(h.List)...)
		reports.GET("/stats", g.AdminOnly(h.Stats)...)
		reports.GET("/:id", g.AdminOnly(h.Get)...)
		reports.PUT("/:id", g.AdminOnly(h.Update)...)
		reports.DELETE("/:id", g.AdminOnly(h.Delete)...)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateReportRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	rep, err := h.svc.Create(c.Request.Context(), req, &userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondCreated(c, "Report created successfully", rep)
}

// Mine lists the caller's own incident reports.
func (h *Handler) Mine(c *gin.Context) {
	page, err := h.svc.Mine(c.Request.Context(), middleware.UserID(c), handler.Params(c))
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

func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", resource)
	if !ok {
		return
	}
	rep, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rep)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", resource)
	if !ok {
		return
	}
	var req model.UpdateReportRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	rep, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Report updated successfully", rep)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", resource)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Report deleted successfully", nil)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
