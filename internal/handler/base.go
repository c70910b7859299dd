package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
	"github.com/rescuenet/rescuenet-api/pkg/validator"
)

// BindJSON decodes and validates the request body into req. On failure it
// writes the error response and returns false.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, httputil.Response{Success: false, Message: "Request body too large"})
	case errors.Is(err, io.EOF):
		httputil.RespondWithError(c, apperrors.BadRequest("Request body is required", err))
	default:
		if fields := validator.Fields(err); fields != nil {
			httputil.RespondWithError(c, apperrors.NewValidation(fields))
			return false
		}
		httputil.RespondWithError(c, apperrors.BadRequest("Invalid request body", err))
	}
	return false
}

// ParamID parses a positive numeric path parameter. A malformed id cannot
// name a row, so it answers with resource's not-found response.
func ParamID(c *gin.Context, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithError(c, apperrors.NotFound(resource, err))
		return 0, false
	}
	return id, true
}
