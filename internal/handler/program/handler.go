package program

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/program"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

const resource = "Program"

// Handler serves the Bantuan program catalogue. Reads are public, writes
// are for administrators.
type Handler struct {
	svc *program.Service
}

func NewHandler(svc *program.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	programs := r.Group("/programs")
	{
		programs.GET("", h.List)
		programs.GET("/active", h.Active)
		programs.GET("/category/:category", h.ByCategory)
		programs.GET("/stats", g.AdminOnly(h.Stats)...)
		programs.GET("/:id", h.Get)

		programs.POST("", g.AdminOnly(h.Create)...)
		programs.PUT("/:id", g.AdminOnly(h.Update)...)
		programs.PATCH("/:id/toggle-status", g.AdminOnly(h.ToggleStatus)...)
		programs.DELETE("/:id", g.AdminOnly(h.Delete)...)
	}
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), handler.Params(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondPage(c, page)
}

func (h *Handler) Active(c *gin.Context) {
	page, err := h.svc.Active(c.Request.Context(), handler.Params(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondPage(c, page)
}

func (h *Handler) ByCategory(c *gin.Context) {
	page, err := h.svc.ByCategory(c.Request.Context(), c.Param("category"), handler.Params(c))
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
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateProgramRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondCreated(c, "Program created successfully", p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", resource)
	if !ok {
		return
	}
	var req model.UpdateProgramRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, req, middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Program updated successfully", p)
}

func (h *Handler) ToggleStatus(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", resource)
	if !ok {
		return
	}
	p, err := h.svc.ToggleStatus(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Program status updated successfully", p)
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
	httputil.RespondWithMessage(c, http.StatusOK, "Program deleted successfully", nil)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
