package aid

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/aid"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

type Handler struct {
	svc *aid.Service
}

func NewHandler(svc *aid.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	r.POST("/reports/aid", g.ResidentOnly(h.Submit)...)
	r.GET("/aid-requests/my", g.ResidentOnly(h.Mine)...)

	admin := r.Group("/admin/aid-requests")
	{
		admin.GET("", g.AdminOnly(h.List)...)
		admin.PUT("/:id/status", g.AdminOnly(h.UpdateStatus)...)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.CreateAidRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	ar, err := h.svc.Submit(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	handler.RespondCreated(c, "Aid request submitted successfully", ar)
}

// Mine lists the caller's own aid requests.
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

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := handler.ParamID(c, "id", "Aid request")
	if !ok {
		return
	}
	var req model.UpdateAidStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	ar, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, req.AdminRemarks, middleware.UserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Aid request updated successfully", ar)
}
