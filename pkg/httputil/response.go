package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rescuenet/rescuenet-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// PaginatedResponse is the listing envelope. Data is always a JSON array.
type PaginatedResponse struct {
	Success     bool        `json:"success"`
	Data        interface{} `json:"data"`
	Count       int         `json:"count"`
	CurrentPage int         `json:"current_page"`
	TotalPages  int         `json:"total_pages"`
	PerPage     int         `json:"per_page"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithMessage sends a success response carrying a message
func RespondWithMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"
	var fields map[string]string

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.StatusCode()
		message = appErr.Message
		fields = appErr.Fields
	}

	if statusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("request_id", c.GetString("request_id")).
			Msg("Request failed")
	}

	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

// RespondWithPage sends a paginated listing response
func RespondWithPage(c *gin.Context, data interface{}, total, page, perPage, totalPages int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success:     true,
		Data:        data,
		Count:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		PerPage:     perPage,
	})
}
