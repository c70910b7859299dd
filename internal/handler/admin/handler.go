package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/handler"
	"github.com/rescuenet/rescuenet-api/internal/middleware"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/service/aid"
	"github.com/rescuenet/rescuenet-api/internal/service/emergency"
	"github.com/rescuenet/rescuenet-api/internal/service/notification"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

const resource = "Report"

// Handler is the triage desk: one view over emergency reports and aid
// requests, a combined status update, and resident broadcasts.
type Handler struct {
	aid           *aid.Service
	emergency     *emergency.Service
	notifications *notification.Service
}

func NewHandler(aidSvc *aid.Service, emergencySvc *emergency.Service, notifications *notification.Service) *Handler {
	return &Handler{
		aid:           aidSvc,
		emergency:     emergencySvc,
		notifications: notifications,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, g handler.Guards) {
	admin := r.Group("/admin")
	{
		admin.GET("/reports", g.AdminOnly(h.ListReports)...)
		admin.POST("/reports/update", g.AdminOnly(h.UpdateStatus)...)
		admin.POST("/notifications/broadcast", g.AdminOnly(h.Broadcast)...)
	}
}

// ListReports returns the first page of both queues. Query parameters apply
// to each queue; ones a queue does not know are ignored.
func (h *Handler) ListReports(c *gin.Context) {
	ctx := c.Request.Context()
	params := handler.Params(c)

	reports, err := h.emergency.List(ctx, params)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	requests, err := h.aid.List(ctx, params)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"emergency_reports":       reports.Items,
		"emergency_reports_count": reports.Total,
		"aid_requests":            requests.Items,
		"aid_requests_count":      requests.Total,
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.AdminStatusUpdate
	if !handler.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	adminID := middleware.UserID(c)
	status := req.NormalizeStatus()

	var (
		updated interface{}
		err     error
	)
	switch req.Type {
	case "emergency":
		updated, err = h.emergency.UpdateStatus(ctx, req.ReportID, status, req.AdminNote, adminID)
	case "aid":
		updated, err = h.aid.UpdateStatus(ctx, req.ReportID, status, req.AdminNote, adminID)
	default:
		err = apperrors.Validation("type", "The selected type is invalid.")
	}
	if apperrors.Is(err, apperrors.ErrNotFound) {
		err = apperrors.NotFound(resource, err)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Report status updated successfully", updated)
}

func (h *Handler) Broadcast(c *gin.Context) {
	var req model.BroadcastRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	sent, err := h.notifications.Broadcast(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, http.StatusOK, "Notification sent", gin.H{"recipients": sent})
}
