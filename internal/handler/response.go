package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

// RespondPage writes a listing page in the paginated envelope.
func RespondPage[T any](c *gin.Context, page listing.Page[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	httputil.RespondWithPage(c, items, page.Total, page.CurrentPage, page.PerPage, page.TotalPages)
}

// RespondCreated writes a 201 with message and the created resource.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	httputil.RespondWithMessage(c, http.StatusCreated, message, data)
}

// Params returns the listing parameters of the request's query string.
func Params(c *gin.Context) listing.Params {
	return listing.ParamsFromValues(c.Request.URL.Query())
}
